package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varrock/clanhall-api/internal/models"
)

type fakeWOM struct {
	group        *models.WOMGroup
	groupErr     error
	competitions []models.WOMCompetition
	details      *models.WOMCompetitionDetails
	groupCalls   int
}

func (f *fakeWOM) GroupDetails(context.Context, int) (*models.WOMGroup, error) {
	f.groupCalls++
	return f.group, f.groupErr
}

func (f *fakeWOM) GroupCompetitions(context.Context, int) ([]models.WOMCompetition, error) {
	return f.competitions, nil
}

func (f *fakeWOM) CompetitionDetails(context.Context, int) (*models.WOMCompetitionDetails, error) {
	return f.details, nil
}

func testGroup() *models.WOMGroup {
	return &models.WOMGroup{
		ID:          11353,
		Name:        "Datz Grazy",
		MemberCount: 2,
		Memberships: []models.WOMMembership{
			{Role: "leader", Player: models.WOMPlayer{DisplayName: "Zezima", EHP: 1500.5, EHB: 320.25}},
			{Role: "member", Player: models.WOMPlayer{DisplayName: "Woox", EHP: 900, EHB: 1100.75}},
		},
	}
}

func TestGroupServiceGroup(t *testing.T) {
	wom := &fakeWOM{group: testGroup()}
	svc := NewGroupService(wom, nil, nil, 11353, 0, nil)

	group, cacheHit, err := svc.Group(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, "Datz Grazy", group.Name)
}

func TestGroupServiceGroupPropagatesUpstreamError(t *testing.T) {
	wom := &fakeWOM{groupErr: errors.New("rate limited")}
	svc := NewGroupService(wom, nil, nil, 11353, 0, nil)

	_, _, err := svc.Group(context.Background())
	require.Error(t, err)
}

func TestGroupServiceMembersCSV(t *testing.T) {
	svc := NewGroupService(&fakeWOM{group: testGroup()}, nil, nil, 11353, 0, nil)

	payload, err := svc.MembersCSV(context.Background())
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(payload), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "Player,Role,EHP,EHB", string(lines[0]))
	assert.Equal(t, "Zezima,leader,1500.50,320.25", string(lines[1]))
	assert.Equal(t, "Woox,member,900.00,1100.75", string(lines[2]))
}

func TestGroupServiceCompetitionPDF(t *testing.T) {
	details := &models.WOMCompetitionDetails{
		WOMCompetition: models.WOMCompetition{ID: 7, Title: "Slayer Sunday"},
		Participations: []models.WOMParticipant{
			{Rank: 1, Player: models.WOMPlayer{DisplayName: "Zezima"}, Progress: models.WOMProgress{Gained: 1500000}},
		},
	}
	svc := NewGroupService(&fakeWOM{details: details}, nil, nil, 11353, 0, nil)

	payload, title, err := svc.CompetitionPDF(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Slayer Sunday", title)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestGroupServiceWarmGroupCacheHitsGateway(t *testing.T) {
	wom := &fakeWOM{group: testGroup()}
	svc := NewGroupService(wom, nil, nil, 11353, 0, nil)

	require.NoError(t, svc.WarmGroupCache(context.Background()))
	assert.Equal(t, 1, wom.groupCalls)
}
