package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clanhall API",
        "description": "Backend for the OSRS clan dashboard: events, reminders, drops, hiscores and group stats",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Dashboard", "description": "Single-page dashboard summary"},
        {"name": "Events", "description": "Clan event scheduling and reminders"},
        {"name": "Drops", "description": "Drop log"},
        {"name": "Feed", "description": "Combined activity feed"},
        {"name": "Hiscores", "description": "Player skill lookups"},
        {"name": "Gear", "description": "Boss gear recommendations"},
        {"name": "Group", "description": "Wise Old Man group and competitions"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events, soonest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Schedule an event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events/calendar.ics": {
            "get": {
                "tags": ["Events"],
                "summary": "Events as an iCalendar feed",
                "produces": ["text/calendar"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/events/{id}/signup": {
            "post": {
                "tags": ["Events"],
                "summary": "Toggle the current user's signup",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Event not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/events/{id}/reminder": {
            "put": {
                "tags": ["Events"],
                "summary": "Set or clear the reminder lead time",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetReminderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Notifications disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Event not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/drops": {
            "get": {
                "tags": ["Drops"],
                "summary": "List drops, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Drops"],
                "summary": "Record a drop",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LogDropRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/feed": {
            "get": {
                "tags": ["Feed"],
                "summary": "Combined activity feed, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/hiscores/{rsn}": {
            "get": {
                "tags": ["Hiscores"],
                "summary": "Hiscores for a player",
                "parameters": [
                    {"name": "rsn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Player not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Upstream failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/gear/{boss}": {
            "get": {
                "tags": ["Gear"],
                "summary": "Gear setups for a boss",
                "parameters": [
                    {"name": "boss", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Upstream failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/group": {
            "get": {
                "tags": ["Group"],
                "summary": "Clan group details",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Upstream failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/group/members.csv": {
            "get": {
                "tags": ["Group"],
                "summary": "Roster as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/group/competitions": {
            "get": {
                "tags": ["Group"],
                "summary": "Group competitions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/group/competitions/{id}": {
            "get": {
                "tags": ["Group"],
                "summary": "Competition standings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/group/competitions/{id}/standings.pdf": {
            "get": {
                "tags": ["Group"],
                "summary": "Competition standings as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "CreateEventRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "eventDate": {"type": "string", "format": "date-time"},
                "host": {"type": "string"},
                "reminderMinutes": {"type": "integer"}
            },
            "required": ["name", "eventDate", "host"]
        },
        "SetReminderRequest": {
            "type": "object",
            "properties": {
                "minutes": {"type": "integer"}
            }
        },
        "LogDropRequest": {
            "type": "object",
            "properties": {
                "playerName": {"type": "string"},
                "itemName": {"type": "string"},
                "boss": {"type": "string"}
            },
            "required": ["playerName", "itemName", "boss"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
