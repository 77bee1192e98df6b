package models

// Skill is a single hiscores row for a player.
type Skill struct {
	Skill string `json:"skill"`
	Rank  int64  `json:"rank"`
	Level int    `json:"level"`
	XP    int64  `json:"xp"`
}

// Hiscores is the full skill table for one player. An empty table means the
// player does not exist.
type Hiscores []Skill
