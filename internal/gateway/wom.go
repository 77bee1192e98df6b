package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/varrock/clanhall-api/internal/models"
	appErrors "github.com/varrock/clanhall-api/pkg/errors"
)

// WOMClient reads guild statistics from the Wise Old Man v2 API. Calls are
// plain blocking GETs; no timeout is imposed here beyond the caller's
// context, and failures are surfaced once without retry.
type WOMClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewWOMClient constructs a client for the given API base URL.
func NewWOMClient(baseURL string, logger *zap.Logger) *WOMClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WOMClient{baseURL: baseURL, client: http.DefaultClient, logger: logger}
}

// GroupDetails fetches a group with its full membership list.
func (c *WOMClient) GroupDetails(ctx context.Context, groupID int) (*models.WOMGroup, error) {
	var group models.WOMGroup
	if err := c.get(ctx, fmt.Sprintf("/groups/%d", groupID), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// GroupCompetitions fetches the competitions hosted by a group.
func (c *WOMClient) GroupCompetitions(ctx context.Context, groupID int) ([]models.WOMCompetition, error) {
	var competitions []models.WOMCompetition
	if err := c.get(ctx, fmt.Sprintf("/groups/%d/competitions", groupID), &competitions); err != nil {
		return nil, err
	}
	return competitions, nil
}

// CompetitionDetails fetches a single competition with ranked participants.
func (c *WOMClient) CompetitionDetails(ctx context.Context, competitionID int) (*models.WOMCompetitionDetails, error) {
	var details models.WOMCompetitionDetails
	if err := c.get(ctx, fmt.Sprintf("/competitions/%d", competitionID), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *WOMClient) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to build request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "guild statistics API unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to parse guild statistics response")
	}
	return nil
}

// statusError converts a non-2xx response into a failure carrying the API's
// own message field when the body provides one.
func (c *WOMClient) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return appErrors.New(appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, payload.Message)
	}

	return appErrors.New(appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status,
		fmt.Sprintf("API request failed with status: %d", resp.StatusCode))
}
