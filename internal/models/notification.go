package models

// Notification is a user-facing reminder message.
type Notification struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	IconURL string `json:"icon,omitempty"`
}
