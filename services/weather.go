package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"wardrobeapi/models"
)

// WeatherProvider resolves a current weather snapshot for prompt assembly.
// Callers always have DefaultWeather to fall back on, so errors here never
// block a suggestion.
type WeatherProvider interface {
	CurrentByCity(ctx context.Context, city string) (*models.WeatherIn, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (*models.WeatherIn, error)
}

type OpenWeatherService struct {
	Client *http.Client
}

func NewOpenWeatherService() *OpenWeatherService {
	return &OpenWeatherService{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

type openWeatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

func seasonForMonth(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

func (w *OpenWeatherService) fetch(ctx context.Context, params url.Values) (*models.WeatherIn, error) {
	apiKey := os.Getenv("OPENWEATHER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("weather API key not configured")
	}
	params.Set("appid", apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, "GET", openWeatherBaseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API error: %d", resp.StatusCode)
	}

	var data openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %v", err)
	}

	condition := "partly cloudy"
	if len(data.Weather) > 0 {
		condition = data.Weather[0].Description
	}

	// the current weather endpoint has no rain probability or UV index,
	// keep the prompt defaults for those
	return &models.WeatherIn{
		TemperatureCelsius: data.Main.Temp,
		FeelsLike:          data.Main.FeelsLike,
		Condition:          condition,
		HumidityPercent:    data.Main.Humidity,
		RainProbability:    20,
		UVIndex:            5,
		Season:             seasonForMonth(time.Now().Month()),
	}, nil
}

func (w *OpenWeatherService) CurrentByCity(ctx context.Context, city string) (*models.WeatherIn, error) {
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}
	params := url.Values{}
	params.Set("q", city)
	return w.fetch(ctx, params)
}

func (w *OpenWeatherService) CurrentByCoords(ctx context.Context, lat, lon float64) (*models.WeatherIn, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	return w.fetch(ctx, params)
}
