package models

import "time"

// FallbackDropImageURL is used whenever the item image lookup fails or the
// gateway omits the field.
const FallbackDropImageURL = "https://oldschool.runescape.wiki/images/Bank_icon.png"

// Drop is a logged rare item drop. Immutable once created.
type Drop struct {
	ID         string    `json:"id"`
	ItemName   string    `json:"itemName"`
	PlayerName string    `json:"playerName"`
	Boss       string    `json:"boss"`
	ImageURL   string    `json:"imageUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}
