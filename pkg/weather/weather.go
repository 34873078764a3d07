package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Hanoi city center, used when the caller gives no coordinates.
const (
	DefaultLatitude  = 21.0285
	DefaultLongitude = 105.8542
)

// Current is the snapshot injected into prompt assembly.
type Current struct {
	Temp            int    `json:"temp"`
	Condition       string `json:"condition"`
	IsDay           bool   `json:"isDay"`
	FullDescription string `json:"fullDescription"`
}

// IsRaining reports whether the condition calls for indoor suggestions.
func (c Current) IsRaining() bool {
	desc := strings.ToLower(c.Condition)
	return strings.Contains(desc, "mưa") || strings.Contains(desc, "rain")
}

// Provider supplies current weather for prompt context. Implementations
// must fail soft; a nil result means "no realtime data available".
type Provider interface {
	CurrentWeather(ctx context.Context) (*Current, error)
}

// Client fetches forecasts from an Open-Meteo compatible endpoint and
// memoizes responses so repeated chat turns do not hammer the API.
type Client struct {
	baseURL string
	lat     float64
	lon     float64
	http    *http.Client
	cache   *gocache.Cache
	ttl     time.Duration
}

func NewClient(baseURL string, lat, lon float64, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	if lat == 0 && lon == 0 {
		lat, lon = DefaultLatitude, DefaultLongitude
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Client{
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		http:    &http.Client{Timeout: 5 * time.Second},
		cache:   gocache.New(ttl, 10*time.Minute),
		ttl:     ttl,
	}
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
		IsDay       int     `json:"is_day"`
	} `json:"current"`
}

func (c *Client) CurrentWeather(ctx context.Context) (*Current, error) {
	cacheKey := fmt.Sprintf("%.4f,%.4f", c.lat, c.lon)
	if cached, ok := c.cache.Get(cacheKey); ok {
		current := cached.(Current)
		return &current, nil
	}

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", c.lat))
	params.Set("longitude", fmt.Sprintf("%.4f", c.lon))
	params.Set("current", "temperature_2m,weather_code,is_day")
	params.Set("timezone", "Asia/Bangkok")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var forecast forecastResponse
	if err := json.Unmarshal(bodyBytes, &forecast); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	temp := int(forecast.Current.Temperature + 0.5)
	condition := describeWMOCode(forecast.Current.WeatherCode)
	current := Current{
		Temp:            temp,
		Condition:       condition,
		IsDay:           forecast.Current.IsDay == 1,
		FullDescription: fmt.Sprintf("%d°C, %s", temp, condition),
	}

	c.cache.Set(cacheKey, current, c.ttl)
	return &current, nil
}

// describeWMOCode maps WMO weather interpretation codes to Vietnamese.
func describeWMOCode(code int) string {
	switch {
	case code == 0:
		return "Trời quang đãng"
	case code >= 1 && code <= 3:
		return "Có mây"
	case code >= 45 && code <= 48:
		return "Có sương mù"
	case code >= 51 && code <= 55:
		return "Mưa phùn"
	case code >= 61 && code <= 67:
		return "Mưa rào"
	case code >= 80 && code <= 82:
		return "Mưa to"
	case code >= 95:
		return "Có dông"
	default:
		return "Mát mẻ"
	}
}
