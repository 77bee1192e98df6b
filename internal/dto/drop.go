package dto

// LogDropRequest defines the payload for logging a rare drop. The item image
// is resolved server-side via the AI gateway.
type LogDropRequest struct {
	PlayerName string `json:"playerName" validate:"required"`
	ItemName   string `json:"itemName" validate:"required"`
	Boss       string `json:"boss" validate:"required"`
}
