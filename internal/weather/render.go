package weather

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints a summary as plain text for terminals
func WriteText(w io.Writer, s *Summary) error {
	var b strings.Builder
	c := s.Current

	fmt.Fprintf(&b, "Weather for %s\n", s.Location)
	fmt.Fprintf(&b, "%s, observed %s\n", c.Description, c.ObservationTime)
	fmt.Fprintf(&b, "Temperature: %d°%s (feels like %d°%s)\n", c.Temperature, s.Unit, c.FeelsLike, s.Unit)
	fmt.Fprintf(&b, "Wind: %d %s %s\n", c.WindSpeed, c.WindUnit, c.WindDirection)
	fmt.Fprintf(&b, "Humidity: %d%%\n", c.Humidity)
	if c.Sunrise != "" {
		fmt.Fprintf(&b, "Sunrise: %s  Sunset: %s\n", c.Sunrise, c.Sunset)
	}
	fmt.Fprintf(&b, "Visibility: %d km  Cloud cover: %d%%  UV index: %d  Pressure: %d hPa\n",
		c.VisibilityKm, c.CloudCover, c.UVIndex, c.PressureHPa)

	if len(s.Hourly) > 0 {
		b.WriteString("\nHourly\n")
		for _, h := range s.Hourly {
			fmt.Fprintf(&b, "  %s  %d°%s\n", h.Time, h.Temperature, s.Unit)
		}
	}

	if len(s.Forecast) > 0 {
		fmt.Fprintf(&b, "\n%d-Day Forecast\n", len(s.Forecast))
		for _, d := range s.Forecast {
			fmt.Fprintf(&b, "  %s  max %d°%s  min %d°%s  humidity %d%%  rain %.1f%s\n",
				d.Date, d.MaxTemp, s.Unit, d.MinTemp, s.Unit, d.AvgHumidity, d.Precipitation, d.PrecipUnit)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
