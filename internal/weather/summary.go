package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit selects metric (C) or imperial (F) figures
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit accepts "C" or "F" in either case; blank means Celsius
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "C":
		return Celsius, nil
	case "F":
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unsupported unit %q, use C or F", s)
	}
}

func (u Unit) WindUnit() string {
	if u == Fahrenheit {
		return "mph"
	}
	return "km/h"
}

func (u Unit) PrecipUnit() string {
	if u == Fahrenheit {
		return "in"
	}
	return "mm"
}

type Summary struct {
	Location string        `json:"location"`
	Unit     Unit          `json:"unit"`
	Current  Current       `json:"current"`
	Hourly   []HourlyPoint `json:"hourly"`
	Forecast []ForecastDay `json:"forecast"`
}

type Current struct {
	Temperature     int    `json:"temperature"`
	FeelsLike       int    `json:"feelsLike"`
	WindSpeed       int    `json:"windSpeed"`
	WindUnit        string `json:"windUnit"`
	WindDirection   string `json:"windDirection"`
	Humidity        int    `json:"humidity"`
	Description     string `json:"description"`
	WeatherCode     string `json:"weatherCode"`
	ObservationTime string `json:"observationTime"`
	VisibilityKm    int    `json:"visibilityKm"`
	CloudCover      int    `json:"cloudCover"`
	UVIndex         int    `json:"uvIndex"`
	PressureHPa     int    `json:"pressureHpa"`
	Sunrise         string `json:"sunrise,omitempty"`
	Sunset          string `json:"sunset,omitempty"`
}

type HourlyPoint struct {
	Time        string `json:"time"`
	Temperature int    `json:"temperature"`
}

type ForecastDay struct {
	Date          string  `json:"date"`
	MaxTemp       int     `json:"maxTemp"`
	MinTemp       int     `json:"minTemp"`
	AvgHumidity   int     `json:"avgHumidity"`
	Precipitation float64 `json:"precipitation"`
	PrecipUnit    string  `json:"precipUnit"`
	WeatherCode   string  `json:"weatherCode"`
}

// forecastDays is how many days the dashboard shows
const forecastDays = 3

// Summarize reduces a validated report to the figures shown for unit
func Summarize(report *Report, unit Unit) (*Summary, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}

	cur := report.CurrentCondition[0]
	s := &Summary{
		Location: location(report.NearestArea),
		Unit:     unit,
		Current: Current{
			Temperature:     pick(unit, cur.TempC, cur.TempF),
			FeelsLike:       pick(unit, cur.FeelsLikeC, cur.FeelsLikeF),
			WindSpeed:       pick(unit, cur.WindspeedKmph, cur.WindspeedMiles),
			WindUnit:        unit.WindUnit(),
			WindDirection:   cur.WindDir16Point,
			Humidity:        cur.Humidity,
			Description:     firstText(cur.WeatherDesc),
			WeatherCode:     cur.WeatherCode,
			ObservationTime: cur.LocalObsDateTime,
			VisibilityKm:    cur.Visibility,
			CloudCover:      cur.CloudCover,
			UVIndex:         cur.UVIndex,
			PressureHPa:     cur.Pressure,
		},
		Hourly:   []HourlyPoint{},
		Forecast: []ForecastDay{},
	}

	today := report.Weather[0]
	if len(today.Astronomy) > 0 {
		s.Current.Sunrise = today.Astronomy[0].Sunrise
		s.Current.Sunset = today.Astronomy[0].Sunset
	}

	for _, h := range today.Hourly {
		label, err := HourLabel(h.Time)
		if err != nil {
			return nil, err
		}
		s.Hourly = append(s.Hourly, HourlyPoint{Time: label, Temperature: pick(unit, h.TempC, h.TempF)})
	}

	for i, day := range report.Weather {
		if i == forecastDays {
			break
		}
		s.Forecast = append(s.Forecast, forecastDay(day, unit))
	}
	return s, nil
}

func forecastDay(day Day, unit Unit) ForecastDay {
	fd := ForecastDay{
		Date:       day.Date,
		MaxTemp:    pick(unit, day.MaxTempC, day.MaxTempF),
		MinTemp:    pick(unit, day.MinTempC, day.MinTempF),
		PrecipUnit: unit.PrecipUnit(),
	}
	if len(day.Hourly) == 0 {
		return fd
	}

	humidity := 0
	for _, h := range day.Hourly {
		humidity += h.Humidity
		if unit == Fahrenheit {
			fd.Precipitation += h.PrecipInches
		} else {
			fd.Precipitation += h.PrecipMM
		}
	}
	fd.AvgHumidity = humidity / len(day.Hourly)
	fd.WeatherCode = day.Hourly[0].WeatherCode
	return fd
}

// HourLabel converts wttr's HHMM slot ("0", "300", "2100") to "HH:MM"
func HourLabel(slot string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(slot))
	if err != nil || n < 0 || n > 2400 || n%100 >= 60 {
		return "", fmt.Errorf("invalid hourly time %q", slot)
	}
	return fmt.Sprintf("%02d:%02d", n/100, n%100), nil
}

func location(areas []Area) string {
	if len(areas) == 0 {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, v := range []string{firstText(areas[0].AreaName), firstText(areas[0].Country)} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func pick(unit Unit, metric, imperial int) int {
	if unit == Fahrenheit {
		return imperial
	}
	return metric
}
