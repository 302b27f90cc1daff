package rosterservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Client клиент сервиса ростера
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetEntries получает ростер команды
func (c *Client) GetEntries(ctx context.Context) ([]domain.RosterEntry, error) {
	url := c.baseURL + "/internal/roster"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Roster service request failed: %v", err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status code %d: %s", ErrServiceUnavailable, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var roster RosterResponse
	if err := json.NewDecoder(resp.Body).Decode(&roster); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	entries := make([]domain.RosterEntry, 0, len(roster.Users))
	for _, m := range roster.Users {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		entries = append(entries, domain.RosterEntry{
			DisplayName: name,
			Role:        domain.ParseRole(m.Role),
		})
	}

	c.log.Info("Fetched roster: %d members", len(entries))
	return entries, nil
}
