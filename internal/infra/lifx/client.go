package lifx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lifx-skill/internal/domain"
)

const DefaultBaseURL = "https://api.lifx.com/v1"

// APIError is a non-2xx answer from the LIFX API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lifx API error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(token string, timeout time.Duration, rps float64) *Client {
	return NewClientWithURL(token, DefaultBaseURL, timeout, rps)
}

// NewClientWithURL builds a client for baseURL. A non-positive rps disables
// client-side rate limiting.
func NewClientWithURL(token, baseURL string, timeout time.Duration, rps float64) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return &Client{
		token:      strings.TrimSpace(token),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

type lightJSON struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Connected bool   `json:"connected"`
	Power     string `json:"power"`
	Group     struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"group"`
}

type resultsJSON struct {
	Results []struct {
		ID     string `json:"id"`
		Label  string `json:"label"`
		Status string `json:"status"`
	} `json:"results"`
}

type stateJSON struct {
	Power      string   `json:"power,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	Color      string   `json:"color,omitempty"`
}

func (c *Client) ListLights(ctx context.Context) ([]domain.Light, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/lights/all", nil)
	if err != nil {
		return nil, fmt.Errorf("listing lights: %w", err)
	}

	var raw []lightJSON
	if err := json.Unmarshal(resp, &raw); err != nil {
		return nil, fmt.Errorf("parsing lights: %w", err)
	}

	lights := make([]domain.Light, 0, len(raw))
	for _, l := range raw {
		lights = append(lights, domain.Light{
			ID:        l.ID,
			Label:     l.Label,
			Group:     l.Group.Name,
			Connected: l.Connected,
			Power:     domain.Power(l.Power),
		})
	}

	return lights, nil
}

func (c *Client) SetState(ctx context.Context, selector domain.Selector, change domain.StateChange) ([]domain.Result, error) {
	body, err := json.Marshal(stateJSON{
		Power:      string(change.Power),
		Brightness: change.Brightness,
		Color:      change.Color,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling state: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, c.selectorPath(selector, "state"), body)
	if err != nil {
		return nil, fmt.Errorf("setting state on %s: %w", selector, err)
	}

	return parseResults(resp)
}

func (c *Client) TogglePower(ctx context.Context, selector domain.Selector) ([]domain.Result, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.selectorPath(selector, "toggle"), nil)
	if err != nil {
		return nil, fmt.Errorf("toggling %s: %w", selector, err)
	}

	return parseResults(resp)
}

func (c *Client) selectorPath(selector domain.Selector, action string) string {
	return "/lights/" + url.PathEscape(selector.String()) + "/" + action
}

func parseResults(body []byte) ([]domain.Result, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var raw resultsJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}

	results := make([]domain.Result, 0, len(raw.Results))
	for _, r := range raw.Results {
		results = append(results, domain.Result{ID: r.ID, Label: r.Label, Status: r.Status})
	}

	return results, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody, resp.Status)}
	}

	return respBody, nil
}

func errorMessage(body []byte, status string) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return status
}
