package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varrock/clanhall-api/internal/dto"
	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/internal/store"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type fakeImageResolver struct {
	url   string
	calls []string
}

func (f *fakeImageResolver) ItemImage(_ context.Context, itemName string) string {
	f.calls = append(f.calls, itemName)
	if f.url == "" {
		return models.FallbackDropImageURL
	}
	return f.url
}

func TestDropServiceLogStoresWithResolvedImage(t *testing.T) {
	drops := store.NewDropStore()
	feed := store.NewFeedStore()
	images := &fakeImageResolver{url: "https://oldschool.runescape.wiki/images/Twisted_bow.png"}
	svc := NewDropService(drops, feed, images, nil, nil)

	drop, err := svc.Log(context.Background(), dto.LogDropRequest{
		PlayerName: "Zezima",
		ItemName:   "Twisted bow",
		Boss:       "Chambers of Xeric",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://oldschool.runescape.wiki/images/Twisted_bow.png", drop.ImageURL)
	assert.Equal(t, []string{"Twisted bow"}, images.calls)

	require.Len(t, drops.List(), 1)
	entries := feed.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "drop-"+drop.ID, entries[0].ID)
	assert.Equal(t, models.FeedKindDrop, entries[0].Kind)
}

func TestDropServiceLogFallsBackToPlaceholderImage(t *testing.T) {
	svc := NewDropService(store.NewDropStore(), store.NewFeedStore(), &fakeImageResolver{}, nil, nil)

	drop, err := svc.Log(context.Background(), dto.LogDropRequest{
		PlayerName: "Woox",
		ItemName:   "Scythe of vitur",
		Boss:       "Theatre of Blood",
	})
	require.NoError(t, err)
	assert.Equal(t, models.FallbackDropImageURL, drop.ImageURL)
}

func TestDropServiceLogRejectsInvalidPayload(t *testing.T) {
	drops := store.NewDropStore()
	svc := NewDropService(drops, store.NewFeedStore(), &fakeImageResolver{}, nil, nil)

	_, err := svc.Log(context.Background(), dto.LogDropRequest{PlayerName: "Zezima"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, drops.List())
}

func TestDropServiceListNewestFirst(t *testing.T) {
	drops := store.NewDropStore()
	svc := NewDropService(drops, store.NewFeedStore(), &fakeImageResolver{}, nil, nil)

	_, err := svc.Log(context.Background(), dto.LogDropRequest{PlayerName: "a", ItemName: "first", Boss: "b"})
	require.NoError(t, err)
	_, err = svc.Log(context.Background(), dto.LogDropRequest{PlayerName: "a", ItemName: "second", Boss: "b"})
	require.NoError(t, err)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].ItemName)
}
