package weather

import "errors"

// Report is the subset of the wttr.in "j1" document the dashboard reads.
// wttr quotes its numbers, hence the ",string" tags.
type Report struct {
	CurrentCondition []CurrentCondition `json:"current_condition"`
	NearestArea      []Area             `json:"nearest_area"`
	Weather          []Day              `json:"weather"`
}

// Text is wttr's {"value": "..."} wrapper
type Text struct {
	Value string `json:"value"`
}

type CurrentCondition struct {
	TempC            int     `json:"temp_C,string"`
	TempF            int     `json:"temp_F,string"`
	FeelsLikeC       int     `json:"FeelsLikeC,string"`
	FeelsLikeF       int     `json:"FeelsLikeF,string"`
	WindspeedKmph    int     `json:"windspeedKmph,string"`
	WindspeedMiles   int     `json:"windspeedMiles,string"`
	WindDir16Point   string  `json:"winddir16Point"`
	Humidity         int     `json:"humidity,string"`
	WeatherCode      string  `json:"weatherCode"`
	WeatherDesc      []Text  `json:"weatherDesc"`
	LocalObsDateTime string  `json:"localObsDateTime"`
	Visibility       int     `json:"visibility,string"`
	CloudCover       int     `json:"cloudcover,string"`
	UVIndex          int     `json:"uvIndex,string"`
	Pressure         int     `json:"pressure,string"`
	PrecipMM         float64 `json:"precipMM,string"`
}

type Area struct {
	AreaName  []Text  `json:"areaName"`
	Country   []Text  `json:"country"`
	Region    []Text  `json:"region"`
	Latitude  float64 `json:"latitude,string"`
	Longitude float64 `json:"longitude,string"`
}

type Day struct {
	Date      string      `json:"date"`
	MaxTempC  int         `json:"maxtempC,string"`
	MaxTempF  int         `json:"maxtempF,string"`
	MinTempC  int         `json:"mintempC,string"`
	MinTempF  int         `json:"mintempF,string"`
	Astronomy []Astronomy `json:"astronomy"`
	Hourly    []Hour      `json:"hourly"`
}

type Astronomy struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// Hour is one hourly slot. Time is HHMM without padding: "0", "300", "2100".
type Hour struct {
	Time         string  `json:"time"`
	TempC        int     `json:"tempC,string"`
	TempF        int     `json:"tempF,string"`
	Humidity     int     `json:"humidity,string"`
	PrecipMM     float64 `json:"precipMM,string"`
	PrecipInches float64 `json:"precipInches,string"`
	WeatherCode  string  `json:"weatherCode"`
	WeatherDesc  []Text  `json:"weatherDesc"`
}

var (
	ErrMissingCurrent  = errors.New("report has no current conditions")
	ErrMissingForecast = errors.New("report has no forecast days")
)

// Validate rejects documents that lack the sections every summary needs
func (r *Report) Validate() error {
	if len(r.CurrentCondition) == 0 {
		return ErrMissingCurrent
	}
	if len(r.Weather) == 0 {
		return ErrMissingForecast
	}
	return nil
}

func firstText(values []Text) string {
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}
