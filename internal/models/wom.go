package models

// Wise Old Man API payloads. Field names follow the v2 API.

// WOMPlayer is a tracked OSRS player.
type WOMPlayer struct {
	ID          int     `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Type        string  `json:"type"`
	Build       string  `json:"build"`
	Country     *string `json:"country"`
	EHP         float64 `json:"ehp"`
	EHB         float64 `json:"ehb"`
	TTM         float64 `json:"ttm"`
	LastUpdated string  `json:"lastUpdatedAt"`
}

// WOMMembership links a player to a group with a role.
type WOMMembership struct {
	PlayerID  int       `json:"playerId"`
	GroupID   int       `json:"groupId"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"createdAt"`
	Player    WOMPlayer `json:"player"`
}

// WOMGroup is the group-details response.
type WOMGroup struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	ClanChat    string          `json:"clanChat"`
	Description *string         `json:"description"`
	Homeworld   int             `json:"homeworld"`
	Verified    bool            `json:"verified"`
	MemberCount int             `json:"memberCount"`
	Memberships []WOMMembership `json:"memberships"`
}

// WOMCompetition is a group competition summary.
type WOMCompetition struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Metric           string `json:"metric"`
	StartsAt         string `json:"startsAt"`
	EndsAt           string `json:"endsAt"`
	GroupID          int    `json:"groupId"`
	ParticipantCount int    `json:"participantCount"`
}

// WOMProgress captures gained metric value over a competition window.
type WOMProgress struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Gained float64 `json:"gained"`
}

// WOMParticipant is one ranked entry in a competition.
type WOMParticipant struct {
	PlayerID      int         `json:"playerId"`
	CompetitionID int         `json:"competitionId"`
	TeamName      *string     `json:"teamName"`
	Rank          int         `json:"rank"`
	Progress      WOMProgress `json:"progress"`
	Player        WOMPlayer   `json:"player"`
}

// WOMCompetitionDetails is a competition with its ranked participants. The
// API has returned the list under either key over time, so both are kept.
type WOMCompetitionDetails struct {
	WOMCompetition
	Participants   []WOMParticipant `json:"participants"`
	Participations []WOMParticipant `json:"participations"`
}

// Ranked returns whichever participant list the API populated.
func (d *WOMCompetitionDetails) Ranked() []WOMParticipant {
	if len(d.Participations) > 0 {
		return d.Participations
	}
	return d.Participants
}
