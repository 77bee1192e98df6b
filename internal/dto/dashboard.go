package dto

import "github.com/varrock/clanhall-api/internal/models"

// DashboardResponse aggregates the landing-channel payload.
type DashboardResponse struct {
	ClanName       string             `json:"clanName"`
	CurrentUser    string             `json:"currentUser"`
	MemberCount    int                `json:"memberCount"`
	UpcomingEvents []models.Event     `json:"upcomingEvents"`
	RecentDrops    []models.Drop      `json:"recentDrops"`
	Feed           []models.FeedEntry `json:"feed"`
}
