// Package collectors fetches live environmental measurements from public
// APIs. Collection is best-effort: a partially failing source degrades the
// result instead of failing the assessment.
package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"envrisk/internal/domain"
	"envrisk/internal/metrics"
	"envrisk/internal/ports"
)

const (
	defaultForecastURL   = "https://api.open-meteo.com/v1/forecast"
	defaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

	weatherCacheTTL    = 30 * time.Minute
	airQualityCacheTTL = 1 * time.Hour
)

// OpenMeteo collects current weather and air-quality measurements. The zero
// value is not usable; use NewOpenMeteo.
type OpenMeteo struct {
	forecastURL   string
	airQualityURL string
	client        *http.Client
	cache         ports.Cache
	logger        *slog.Logger
}

// OpenMeteoOption configures the collector.
type OpenMeteoOption func(*OpenMeteo)

// WithForecastURL overrides the forecast endpoint, for tests.
func WithForecastURL(u string) OpenMeteoOption {
	return func(c *OpenMeteo) { c.forecastURL = u }
}

// WithAirQualityURL overrides the air-quality endpoint, for tests.
func WithAirQualityURL(u string) OpenMeteoOption {
	return func(c *OpenMeteo) { c.airQualityURL = u }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) OpenMeteoOption {
	return func(c *OpenMeteo) { c.client = client }
}

// WithLogger sets the collector logger.
func WithLogger(logger *slog.Logger) OpenMeteoOption {
	return func(c *OpenMeteo) { c.logger = logger }
}

// NewOpenMeteo creates a collector. cache may be nil to disable response
// caching.
func NewOpenMeteo(cache ports.Cache, opts ...OpenMeteoOption) *OpenMeteo {
	c := &OpenMeteo{
		forecastURL:   defaultForecastURL,
		airQualityURL: defaultAirQualityURL,
		client:        &http.Client{Timeout: 15 * time.Second},
		cache:         cache,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

type airQualityResponse struct {
	Current struct {
		PM10        *float64 `json:"pm10"`
		PM25        *float64 `json:"pm2_5"`
		NO2         *float64 `json:"nitrogen_dioxide"`
		SO2         *float64 `json:"sulphur_dioxide"`
		O3          *float64 `json:"ozone"`
		CO          *float64 `json:"carbon_monoxide"`
		EuropeanAQI *float64 `json:"european_aqi"`
	} `json:"current"`
}

// Collect fetches current conditions at the given coordinates. One source
// failing logs a warning and drops its parameters; the call errors only when
// every source failed.
func (c *OpenMeteo) Collect(ctx context.Context, lat, lon float64) (domain.Measurements, error) {
	m := make(domain.Measurements)
	var failures int

	if err := c.collectWeather(ctx, lat, lon, m); err != nil {
		c.logger.Warn("weather collection failed", slog.String("error", err.Error()))
		metrics.CollectorFailures.WithLabelValues("open-meteo-forecast").Inc()
		failures++
	}
	if err := c.collectAirQuality(ctx, lat, lon, m); err != nil {
		c.logger.Warn("air quality collection failed", slog.String("error", err.Error()))
		metrics.CollectorFailures.WithLabelValues("open-meteo-air-quality").Inc()
		failures++
	}

	if failures == 2 {
		return nil, fmt.Errorf("all measurement sources failed")
	}
	return m, nil
}

func (c *OpenMeteo) collectWeather(ctx context.Context, lat, lon float64, m domain.Measurements) error {
	u := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=temperature_2m,relative_humidity_2m,wind_speed_10m",
		c.forecastURL, lat, lon)

	data, err := c.cachedGet(ctx, u, weatherCacheTTL)
	if err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	var result forecastResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("forecast decode: %w", err)
	}

	m.Add(domain.MediumAir, "Temperature", domain.NumericValue(result.Current.Temperature), "°C")
	m.Add(domain.MediumAir, "Wind speed", domain.NumericValue(result.Current.WindSpeed), "km/h")
	m.Add(domain.MediumWater, "Humidity", domain.NumericValue(result.Current.Humidity), "%")
	return nil
}

func (c *OpenMeteo) collectAirQuality(ctx context.Context, lat, lon float64, m domain.Measurements) error {
	u := fmt.Sprintf("%s?latitude=%f&longitude=%f&current=pm10,pm2_5,nitrogen_dioxide,sulphur_dioxide,ozone,carbon_monoxide,european_aqi",
		c.airQualityURL, lat, lon)

	data, err := c.cachedGet(ctx, u, airQualityCacheTTL)
	if err != nil {
		return fmt.Errorf("air quality: %w", err)
	}
	var result airQualityResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("air quality decode: %w", err)
	}

	cur := result.Current
	addNumeric(m, "PM10", cur.PM10, "µg/m³")
	addNumeric(m, "PM2.5", cur.PM25, "µg/m³")
	addNumeric(m, "NO2", cur.NO2, "µg/m³")
	addNumeric(m, "SO2", cur.SO2, "µg/m³")
	addNumeric(m, "O3", cur.O3, "µg/m³")
	if cur.CO != nil {
		// API reports µg/m³, thresholds are mg/m³
		m.Add(domain.MediumAir, "CO", domain.NumericValue(*cur.CO/1000), "mg/m³")
	}
	if cur.EuropeanAQI != nil {
		m.Add(domain.MediumAir, "air_quality_index", domain.NumericValue(aqiBand(*cur.EuropeanAQI)), "")
	}
	return nil
}

func addNumeric(m domain.Measurements, parameter string, value *float64, unit string) {
	if value == nil {
		return
	}
	m.Add(domain.MediumAir, parameter, domain.NumericValue(*value), unit)
}

// aqiBand folds the European AQI onto the 1-5 composite scale used by the
// snapshot scorer.
func aqiBand(aqi float64) float64 {
	switch {
	case aqi <= 20:
		return 1
	case aqi <= 40:
		return 2
	case aqi <= 60:
		return 3
	case aqi <= 80:
		return 4
	default:
		return 5
	}
}

func (c *OpenMeteo) cachedGet(ctx context.Context, url string, ttl time.Duration) ([]byte, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(url); ok {
			if data, ok := v.([]byte); ok {
				return data, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Put(url, data, ttl)
	}
	return data, nil
}

// recordNames maps measurement parameter names to the keys used by country
// tier configurations.
var recordNames = map[string]string{
	"PM10":     "pm10",
	"PM2.5":    "pm25",
	"NO2":      "no2",
	"SO2":      "so2",
	"O3":       "o3",
	"Humidity": "humidity",
}

// ToRecord flattens collected measurements into a snapshot record, renaming
// parameters to the keys tier configurations use. Parameters without a
// mapping keep their name.
func ToRecord(m domain.Measurements) domain.Record {
	record := make(domain.Record)
	for _, params := range m {
		for name, meas := range params {
			key := name
			if mapped, ok := recordNames[name]; ok {
				key = mapped
			}
			record[key] = meas.Value
		}
	}
	return record
}
