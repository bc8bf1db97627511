package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trip-planner/backend/internal/itinerary"
)

// Client is a client for the AI planning gateway. Every capability is a
// single POST to the gateway's task endpoint with a task name and a
// task-specific payload; the gateway returns plain JSON.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new gateway client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// FindPlaces asks the gateway for place suggestions matching a query,
// biased around the given map center. Suggestions without usable
// coordinates are dropped.
func (c *Client) FindPlaces(ctx context.Context, query string, center itinerary.LatLng) ([]itinerary.Place, error) {
	payload := map[string]any{
		"query": query,
		"currentItineraryCenter": map[string]float64{
			"lat": center.Lat,
			"lng": center.Lng,
		},
	}

	var result struct {
		Candidates []rawPlace `json:"candidates"`
	}
	if err := c.call(ctx, "findPlaces", payload, &result); err != nil {
		return nil, err
	}

	return decodeCandidates(result.Candidates), nil
}

// GenerateItinerary asks the gateway to draft a full itinerary from a
// free-form prompt.
func (c *Client) GenerateItinerary(ctx context.Context, prompt string, dayCount int) ([]itinerary.Day, error) {
	payload := map[string]any{
		"prompt":   prompt,
		"dayCount": dayCount,
	}

	var result []rawDay
	if err := c.call(ctx, "generateItinerary", payload, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("gateway returned an empty itinerary")
	}

	return decodeDays(result), nil
}

// Optimize asks the gateway to reorder the itinerary within the given
// scope. The caller verifies the proposal before applying it.
func (c *Client) Optimize(ctx context.Context, days []itinerary.Day, scope OptimizeScope, activeDayID, constraints string) ([]itinerary.Day, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("invalid optimize scope %q", scope)
	}

	payload := map[string]any{
		"currentItinerary": days,
		"scope":            scope,
		"activeDayId":      activeDayID,
		"constraints":      constraints,
	}

	var result []rawDay
	if err := c.call(ctx, "optimizeItinerary", payload, &result); err != nil {
		return nil, err
	}

	return decodeDays(result), nil
}

// ParseText extracts a structured trip from pasted free-form text.
func (c *Client) ParseText(ctx context.Context, text string) (*ParsedTrip, error) {
	payload := map[string]any{
		"text": text,
	}

	var result rawParsedTrip
	if err := c.call(ctx, "parseItineraryFromText", payload, &result); err != nil {
		return nil, err
	}
	if result.Destination == "" && len(result.Days) == 0 {
		return nil, fmt.Errorf("gateway could not extract an itinerary from the text")
	}

	return &ParsedTrip{
		Destination: result.Destination,
		StartDate:   result.StartDate,
		EndDate:     result.EndDate,
		Days:        decodeDays(result.Days),
	}, nil
}

// EstimateTravelTimes returns one transit estimate per consecutive pair
// of places, in visit order.
func (c *Client) EstimateTravelTimes(ctx context.Context, places []itinerary.Place) ([]string, error) {
	if len(places) < 2 {
		return nil, nil
	}

	payload := map[string]any{
		"places": places,
	}

	var result struct {
		Times []string `json:"times"`
	}
	if err := c.call(ctx, "calculateTravelTimes", payload, &result); err != nil {
		return nil, err
	}

	return result.Times, nil
}

// FindStopovers suggests places worth visiting between two itinerary
// entries.
func (c *Client) FindStopovers(ctx context.Context, from, to itinerary.Place) ([]itinerary.Place, error) {
	payload := map[string]any{
		"from": from,
		"to":   to,
	}

	var result struct {
		Candidates []rawPlace `json:"candidates"`
	}
	if err := c.call(ctx, "getStopoverRecommendations", payload, &result); err != nil {
		return nil, err
	}

	return decodeCandidates(result.Candidates), nil
}

// call posts a task envelope to the gateway and decodes the JSON
// response into out.
func (c *Client) call(ctx context.Context, task string, payload any, out any) error {
	body, err := json.Marshal(map[string]any{
		"task":    task,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/ai", bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway error (status %d): %s", resp.StatusCode, respBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// newRequest creates a new HTTP request with authentication.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
