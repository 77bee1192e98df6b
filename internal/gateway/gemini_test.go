package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, _ *genai.Schema) (string, error) {
	s.lastPrompt = prompt
	return s.response, s.err
}

func TestGeminiHiscoresParsesTable(t *testing.T) {
	gen := &stubGenerator{response: `[
		{"skill": "Overall", "rank": 1234, "level": 2277, "xp": 4600000000},
		{"skill": "Attack", "rank": 5000, "level": 99, "xp": 200000000}
	]`}
	client := newGeminiClientWith(gen, nil)

	hiscores, err := client.Hiscores(context.Background(), "Zezima")
	require.NoError(t, err)
	require.Len(t, hiscores, 2)
	assert.Equal(t, "Overall", hiscores[0].Skill)
	assert.Equal(t, 2277, hiscores[0].Level)
	assert.Equal(t, int64(4600000000), hiscores[0].XP)
	assert.Contains(t, gen.lastPrompt, `"Zezima"`)
}

func TestGeminiHiscoresEmptyArrayPassedThrough(t *testing.T) {
	client := newGeminiClientWith(&stubGenerator{response: `[]`}, nil)

	hiscores, err := client.Hiscores(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Empty(t, hiscores)
}

func TestGeminiEmptyResponseIsUpstreamError(t *testing.T) {
	client := newGeminiClientWith(&stubGenerator{response: "   "}, nil)

	_, err := client.Hiscores(context.Background(), "Zezima")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Equal(t, "received empty response from API", appErrors.FromError(err).Message)
}

func TestGeminiGeneratorFailureWrapped(t *testing.T) {
	client := newGeminiClientWith(&stubGenerator{err: errors.New("quota exceeded")}, nil)

	_, err := client.Hiscores(context.Background(), "Zezima")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
}

func TestGeminiGearSetups(t *testing.T) {
	gen := &stubGenerator{response: `{
		"budget": {"weapon": "Dragon scimitar", "head": "Helm of neitiznot"},
		"midTier": {"weapon": "Abyssal whip"},
		"max": {"weapon": "Scythe of vitur"}
	}`}
	client := newGeminiClientWith(gen, nil)

	setups, err := client.GearSetups(context.Background(), "Corporeal Beast")
	require.NoError(t, err)
	assert.Equal(t, "Dragon scimitar", setups.Budget["weapon"])
	assert.Equal(t, "Abyssal whip", setups.MidTier["weapon"])
	assert.Equal(t, "Scythe of vitur", setups.Max["weapon"])
	assert.Contains(t, gen.lastPrompt, `"Corporeal Beast"`)
}

func TestGeminiItemImageSuccess(t *testing.T) {
	client := newGeminiClientWith(&stubGenerator{
		response: `{"imageUrl": "https://oldschool.runescape.wiki/images/Twisted_bow_detail.png"}`,
	}, nil)

	url := client.ItemImage(context.Background(), "Twisted bow")
	assert.Equal(t, "https://oldschool.runescape.wiki/images/Twisted_bow_detail.png", url)
}

func TestGeminiItemImageNeverFails(t *testing.T) {
	cases := map[string]*stubGenerator{
		"generator error":  {err: errors.New("boom")},
		"invalid payload":  {response: `not json`},
		"missing imageUrl": {response: `{}`},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			client := newGeminiClientWith(gen, nil)
			assert.Equal(t, models.FallbackDropImageURL, client.ItemImage(context.Background(), "Twisted bow"))
		})
	}
}
