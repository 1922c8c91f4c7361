package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vinzlac/mcp-server-brave-test/internal/httpclient"
)

// DefaultEndpoint is the OpenWeatherMap v2.5 API root.
const DefaultEndpoint = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient queries OpenWeatherMap in metric units and French.
type OpenWeatherClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewOpenWeatherClient creates a client. An empty endpoint selects
// DefaultEndpoint; a zero timeout leaves the request bounded only by ctx.
func NewOpenWeatherClient(apiKey, endpoint string, timeout time.Duration) *OpenWeatherClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &OpenWeatherClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type owmCondition struct {
	Description string `json:"description"`
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type owmWind struct {
	Speed float64 `json:"speed"`
}

type owmCurrent struct {
	Weather []owmCondition `json:"weather"`
	Main    owmMain        `json:"main"`
	Wind    owmWind        `json:"wind"`
}

type owmForecast struct {
	List []struct {
		Main    owmMain        `json:"main"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
}

func firstDescription(cs []owmCondition) string {
	if len(cs) == 0 {
		return ""
	}
	return cs[0].Description
}

func (c *OpenWeatherClient) query(loc Location) url.Values {
	q := url.Values{
		"units": {"metric"},
		"lang":  {"fr"},
		"appid": {c.apiKey},
	}
	if loc.PostalCode != "" {
		q.Set("zip", loc.PostalCode+",FR")
	} else {
		q.Set("q", loc.City)
	}
	return q
}

// Current fetches the current conditions.
func (c *OpenWeatherClient) Current(ctx context.Context, loc Location) (Current, error) {
	var raw owmCurrent
	if err := httpclient.GetJSON(ctx, c.http, c.endpoint+"/weather", c.query(loc), nil, &raw); err != nil {
		return Current{}, fmt.Errorf("current weather for %s: %w", loc.Label(), err)
	}
	return Current{
		TempC:       raw.Main.Temp,
		FeelsLikeC:  raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindMS:      raw.Wind.Speed,
		Description: firstDescription(raw.Weather),
	}, nil
}

// Forecast fetches the three-hourly forecast.
func (c *OpenWeatherClient) Forecast(ctx context.Context, loc Location) ([]ForecastPoint, error) {
	var raw owmForecast
	if err := httpclient.GetJSON(ctx, c.http, c.endpoint+"/forecast", c.query(loc), nil, &raw); err != nil {
		return nil, fmt.Errorf("forecast for %s: %w", loc.Label(), err)
	}
	points := make([]ForecastPoint, 0, len(raw.List))
	for _, item := range raw.List {
		points = append(points, ForecastPoint{
			TempC:       item.Main.Temp,
			Description: firstDescription(item.Weather),
		})
	}
	return points, nil
}

// Report fetches current conditions then the forecast, and formats them.
func (c *OpenWeatherClient) Report(ctx context.Context, loc Location) (Report, error) {
	current, err := c.Current(ctx, loc)
	if err != nil {
		return Report{}, err
	}
	forecast, err := c.Forecast(ctx, loc)
	if err != nil {
		return Report{}, err
	}
	return Format(loc, current, forecast)
}
