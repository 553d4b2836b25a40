// Package skyapi is the client for the external flight-search API. All
// flight and airport data in the system originates here.
package skyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sky_flights_booking/internal/models"
	"sky_flights_booking/internal/query"
)

// Client calls the external flight-search API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a search API client
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// AirportSuggestion mirrors the provider's airport suggestion record
type AirportSuggestion struct {
	Presentation struct {
		SuggestionTitle string `json:"suggestionTitle"`
		Subtitle        string `json:"subtitle"`
	} `json:"presentation"`
	Navigation struct {
		RelevantFlightParams struct {
			SkyID string `json:"skyId"`
		} `json:"relevantFlightParams"`
	} `json:"navigation"`
}

type airportSearchResponse struct {
	Data []AirportSuggestion `json:"data"`
}

type flightSearchResponse struct {
	Data struct {
		Itineraries []models.Flight `json:"itineraries"`
	} `json:"data"`
}

// SearchAirports fetches airport suggestions and maps them to picker options,
// labelled "<title>, <subtitle>" and keyed by the provider's sky id.
func (c *Client) SearchAirports(ctx context.Context, q string) ([]models.Option, error) {
	endpoint := fmt.Sprintf("%s/flights/searchAirport?query=%s", c.baseURL, url.QueryEscape(q))

	var decoded airportSearchResponse
	if err := c.get(ctx, endpoint, &decoded); err != nil {
		return nil, fmt.Errorf("airport search failed: %w", err)
	}

	options := make([]models.Option, 0, len(decoded.Data))
	for _, item := range decoded.Data {
		options = append(options, models.Option{
			Value: item.Navigation.RelevantFlightParams.SkyID,
			Label: fmt.Sprintf("%s, %s", item.Presentation.SuggestionTitle, item.Presentation.Subtitle),
		})
	}
	return options, nil
}

// SearchFlights runs a flight search for the given form and returns the itineraries
func (c *Client) SearchFlights(ctx context.Context, form models.SearchForm) ([]models.Flight, error) {
	params := query.SerializeForm(form)
	endpoint := fmt.Sprintf("%s/flights/searchFlights?%s", c.baseURL, params.Encode())

	var decoded flightSearchResponse
	if err := c.get(ctx, endpoint, &decoded); err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	return decoded.Data.Itineraries, nil
}

// get issues an authenticated GET request and decodes the JSON response
func (c *Client) get(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
