package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/varrock/clanhall-api/internal/models"
	"github.com/varrock/clanhall-api/pkg/config"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

// textGenerator abstracts the structured-output call so tests can stub the
// model.
type textGenerator interface {
	Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
	model  string
}

func (g *genaiGenerator) Generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiClient synthesizes game data through the Gemini structured-output
// API: hiscores tables, boss gear setups, and item image lookups.
type GeminiClient struct {
	gen    textGenerator
	logger *zap.Logger
}

// NewGeminiClient builds a client backed by the real Gemini API.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		gen:    &genaiGenerator{client: client, model: cfg.Model},
		logger: logger,
	}, nil
}

// newGeminiClientWith lets tests inject a stub generator.
func newGeminiClientWith(gen textGenerator, logger *zap.Logger) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{gen: gen, logger: logger}
}

// Hiscores synthesizes the full skill table for a player. An empty table
// means the player does not exist and is returned as-is; distinguishing the
// soft not-found from transport failure is the caller's job.
func (c *GeminiClient) Hiscores(ctx context.Context, rsn string) (models.Hiscores, error) {
	prompt := `Generate Old School RuneScape hiscores data for the player "` + rsn +
		`". Include all skills. If the player doesn't exist, return an empty array.`

	raw, err := c.generate(ctx, prompt, hiscoresSchema())
	if err != nil {
		return nil, err
	}

	var hiscores models.Hiscores
	if err := json.Unmarshal([]byte(raw), &hiscores); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unparsable hiscores response")
	}
	return hiscores, nil
}

// GearSetups synthesizes budget, mid-tier, and max loadouts for a boss.
func (c *GeminiClient) GearSetups(ctx context.Context, bossName string) (*models.BossSetups, error) {
	prompt := `Generate three Old School RuneScape gear setups for fighting "` + bossName +
		`": a 'budget' setup, a 'mid-tier' setup, and a 'max' gear setup. For each setup, ` +
		`list the recommended item for each gear slot: head, cape, neck, ammo, weapon, body, ` +
		`shield, legs, hands, feet, ring, and a special attack weapon.`

	raw, err := c.generate(ctx, prompt, bossSetupsSchema())
	if err != nil {
		return nil, err
	}

	var setups models.BossSetups
	if err := json.Unmarshal([]byte(raw), &setups); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unparsable gear setups response")
	}
	return &setups, nil
}

// ItemImage looks up a wiki image URL for an item. It never fails: any
// gateway error or missing field falls back to a placeholder image.
func (c *GeminiClient) ItemImage(ctx context.Context, itemName string) string {
	prompt := `Find the URL for a detail or inventory image of the Old School RuneScape item "` +
		itemName + `" from the oldschool.runescape.wiki domain.`

	raw, err := c.generate(ctx, prompt, itemImageSchema())
	if err != nil {
		c.logger.Warn("item image lookup failed", zap.String("item", itemName), zap.Error(err))
		return models.FallbackDropImageURL
	}

	var payload struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload.ImageURL == "" {
		return models.FallbackDropImageURL
	}
	return payload.ImageURL
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	raw, err := c.gen.Generate(ctx, prompt, schema)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "AI gateway request failed")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", appErrors.New(appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "received empty response from API")
	}
	return raw, nil
}

func hiscoresSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"skill": {Type: genai.TypeString},
				"rank":  {Type: genai.TypeInteger},
				"level": {Type: genai.TypeInteger},
				"xp":    {Type: genai.TypeInteger},
			},
		},
	}
}

func gearSetupSchema() *genai.Schema {
	properties := make(map[string]*genai.Schema, len(models.GearSlots))
	for _, slot := range models.GearSlots {
		properties[slot] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: properties}
}

func bossSetupsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"budget":  gearSetupSchema(),
			"midTier": gearSetupSchema(),
			"max":     gearSetupSchema(),
		},
	}
}

func itemImageSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"imageUrl": {Type: genai.TypeString},
		},
	}
}
