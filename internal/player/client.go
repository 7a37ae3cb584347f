package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type ViewRequest struct {
	EpisodeID string   `json:"episodeId,omitempty"`
	Duration  float64  `json:"duration"`
	Position  *float64 `json:"position,omitempty"`
}

// Client reports playback events to the view endpoint.
type Client struct {
	BaseURL   string
	Token     string
	ProfileID string
	SessionID string
	HTTP      *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: 5 * time.Second}}
}

func (c *Client) RecordView(ctx context.Context, contentID string, req ViewRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	endpoint := c.BaseURL + "/api/v1/content/" + url.PathEscape(contentID) + "/view"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.ProfileID != "" {
		httpReq.Header.Set("X-Profile-ID", c.ProfileID)
	}
	if c.SessionID != "" {
		httpReq.Header.Set("X-Session-ID", c.SessionID)
	}
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("record view: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// ProgressSaver adapts RecordView to a Checkpointer save function.
func (c *Client) ProgressSaver(contentID, episodeID string) SaveFunc {
	return func(ctx context.Context, position float64) error {
		return c.RecordView(ctx, contentID, ViewRequest{
			EpisodeID: episodeID,
			Duration:  position,
			Position:  &position,
		})
	}
}
