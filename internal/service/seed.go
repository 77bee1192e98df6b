package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/internal/store"
)

func intPtr(v int) *int { return &v }

// SeedDemoData loads the demo events and drops the dashboard ships with and
// rebuilds the feed from them. Feed timestamps are staggered into the past
// so the derivation has a stable newest-first order.
func SeedDemoData(events *store.EventStore, drops *store.DropStore, feed *store.FeedStore, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now().UTC()
	today := func(hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	}

	seedEvents := []struct {
		params    store.NewEventParams
		attendees []string
	}{
		{
			params: store.NewEventParams{
				Name:            "Chambers of Xeric",
				Description:     "Learner-friendly raid. All are welcome!",
				StartsAt:        today(20, 0),
				Host:            "Godslayer",
				ReminderMinutes: intPtr(15),
			},
			attendees: []string{"Zezima", "Woox", "A Friend", "IronmanBTW"},
		},
		{
			params: store.NewEventParams{
				Name:            "Corporeal Beast",
				Description:     "Let's hunt for that sigil!",
				StartsAt:        today(19, 30).AddDate(0, 0, 1),
				Host:            "IronmanBTW",
				ReminderMinutes: intPtr(30),
			},
			attendees: []string{"B0aty", "Pker"},
		},
		{
			params: store.NewEventParams{
				Name:        "Wilderness Bossing",
				Description: "Group bossing for voidwaker pieces.",
				StartsAt:    today(21, 0).AddDate(0, 0, 3),
				Host:        "Pker",
			},
			attendees: []string{"Godslayer", "Zezima", "Woox", "A Friend", "IronmanBTW", "B0aty", "RuneScaper99"},
		},
	}

	seedDrops := []store.NewDropParams{
		{ItemName: "Twisted Bow", PlayerName: "Zezima", Boss: "Chambers of Xeric", ImageURL: "https://oldschool.runescape.wiki/images/Twisted_bow_detail.png"},
		{ItemName: "Scythe of Vitur", PlayerName: "Woox", Boss: "Theatre of Blood", ImageURL: "https://oldschool.runescape.wiki/images/Scythe_of_vitur_%28uncharged%29_detail.png"},
		{ItemName: "Tumeken's Shadow", PlayerName: "B0aty", Boss: "Tombs of Amascut", ImageURL: "https://oldschool.runescape.wiki/images/Tumeken%27s_shadow_%28uncharged%29_detail.png"},
		{ItemName: "Elysian Spirit Shield", PlayerName: "A Friend", Boss: "Corporeal Beast", ImageURL: "https://oldschool.runescape.wiki/images/Elysian_spirit_shield_detail.png"},
	}

	var entries []models.FeedEntry
	age := time.Hour

	for _, seed := range seedEvents {
		event := events.Add(seed.params)
		for _, attendee := range seed.attendees {
			events.ToggleSignup(event.ID, attendee)
		}
		event, _ = events.Get(event.ID)
		entries = append(entries, models.NewEventFeedEntry(&event, now.Add(-age)))
		age += time.Hour
	}

	for _, seed := range seedDrops {
		drop := drops.Add(seed)
		entries = append(entries, models.NewDropFeedEntry(&drop, now.Add(-age)))
		age += time.Hour
	}

	feed.Rebuild(entries)
	logger.Info("demo data seeded",
		zap.Int("events", len(seedEvents)),
		zap.Int("drops", len(seedDrops)),
	)
}
