// internal/clients/discovery.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/actn-dev/solpass-partner-api/internal/config"
	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// DiscoveryClient reads the external event discovery API. The feed's
// JSON is deeply nested and mostly optional, so it is picked apart
// with gjson into a flat struct instead of mirroring the full schema.
type DiscoveryClient struct {
	baseURL     string
	consumerKey string
	http        *http.Client
	cache       Cache
}

func NewDiscoveryClient(cfg config.DiscoveryConfig, cache Cache) *DiscoveryClient {
	return &DiscoveryClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey: cfg.ConsumerKey,
		http:        &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		cache:       cache,
	}
}

type DiscoveryEvent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Image       *string  `json:"image"`
	Venue       string   `json:"venue"`
	Address     *string  `json:"address"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	MinPrice    *float64 `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`
	Currency    string   `json:"currency"`
	Genre       *string  `json:"genre"`
	Segment     *string  `json:"segment"`
	Attractions []string `json:"attractions"`
	Seatmap     *string  `json:"seatmap"`
	Info        *string  `json:"info"`
}

type SearchResult struct {
	Events []DiscoveryEvent `json:"events"`
	Total  int64            `json:"total"`
}

func (c *DiscoveryClient) SearchEvents(ctx context.Context, keyword string, size int) (*SearchResult, error) {
	if keyword == "" {
		keyword = "concert"
	}
	if size <= 0 {
		size = 12
	}

	cacheKey := fmt.Sprintf("discovery:search:%s:%d", keyword, size)
	if data, ok := c.cacheGet(ctx, cacheKey); ok {
		var cached SearchResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	query := url.Values{}
	query.Set("apikey", c.consumerKey)
	query.Set("keyword", keyword)
	query.Set("size", strconv.Itoa(size))
	query.Set("sort", "date,asc")

	body, err := c.get(ctx, "/events.json?"+query.Encode())
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)
	result := &SearchResult{
		Events: []DiscoveryEvent{},
		Total:  root.Get("page.totalElements").Int(),
	}
	for _, e := range root.Get("_embedded.events").Array() {
		result.Events = append(result.Events, parseDiscoveryEvent(e))
	}
	if result.Total == 0 {
		result.Total = int64(len(result.Events))
	}

	c.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (c *DiscoveryClient) GetEvent(ctx context.Context, id string) (*DiscoveryEvent, error) {
	cacheKey := "discovery:event:" + id
	if data, ok := c.cacheGet(ctx, cacheKey); ok {
		var cached DiscoveryEvent
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	query := url.Values{}
	query.Set("apikey", c.consumerKey)

	body, err := c.get(ctx, "/events/"+url.PathEscape(id)+".json?"+query.Encode())
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)
	if !root.Get("id").Exists() {
		return nil, &models.RemoteError{Service: "discovery", Message: "malformed event payload"}
	}
	event := parseDiscoveryEvent(root)

	c.cacheSet(ctx, cacheKey, &event)
	return &event, nil
}

func parseDiscoveryEvent(e gjson.Result) DiscoveryEvent {
	event := DiscoveryEvent{
		ID:       e.Get("id").String(),
		Name:     e.Get("name").String(),
		URL:      e.Get("url").String(),
		Venue:    "TBA",
		Currency: "USD",
	}

	event.Date = optString(e.Get("dates.start.localDate"))
	event.Time = optString(e.Get("dates.start.localTime"))
	event.Info = optString(e.Get("info"))
	event.Seatmap = optString(e.Get("seatmap.staticUrl"))
	event.Genre = optString(e.Get("classifications.0.genre.name"))
	event.Segment = optString(e.Get("classifications.0.segment.name"))

	if venue := e.Get("_embedded.venues.0"); venue.Exists() {
		if name := venue.Get("name"); name.Exists() {
			event.Venue = name.String()
		}
		event.City = venue.Get("city.name").String()
		event.Country = venue.Get("country.name").String()
		event.Address = optString(venue.Get("address.line1"))
	}

	if prices := e.Get("priceRanges.0"); prices.Exists() {
		event.MinPrice = optFloat(prices.Get("min"))
		event.MaxPrice = optFloat(prices.Get("max"))
		if currency := prices.Get("currency"); currency.Exists() {
			event.Currency = currency.String()
		}
	}

	// Prefer a wide image with enough resolution, fall back to the first.
	image := e.Get("images.0.url")
	for _, img := range e.Get("images").Array() {
		if img.Get("ratio").String() == "16_9" && img.Get("width").Int() > 500 {
			image = img.Get("url")
			break
		}
	}
	event.Image = optString(image)

	for _, a := range e.Get("_embedded.attractions.#.name").Array() {
		event.Attractions = append(event.Attractions, a.String())
	}

	return event
}

func optString(r gjson.Result) *string {
	if !r.Exists() || r.String() == "" {
		return nil
	}
	s := r.String()
	return &s
}

func optFloat(r gjson.Result) *float64 {
	if !r.Exists() {
		return nil
	}
	f := r.Float()
	return &f
}

func (c *DiscoveryClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building discovery request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &models.RemoteError{Service: "discovery", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &models.RemoteError{Service: "discovery", StatusCode: res.StatusCode, Err: err}
	}

	if res.StatusCode >= 400 {
		return nil, &models.RemoteError{
			Service:    "discovery",
			StatusCode: res.StatusCode,
			Message:    errorMessage(body, res.StatusCode),
		}
	}

	return body, nil
}

func (c *DiscoveryClient) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(ctx, key)
}

func (c *DiscoveryClient) cacheSet(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.cache.Set(ctx, key, data)
}
