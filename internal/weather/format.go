// Package weather fetches conditions from OpenWeatherMap and renders them
// as a fixed French report.
package weather

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrIncompleteForecast is returned when the forecast does not reach the
// last offset the report needs.
var ErrIncompleteForecast = errors.New("forecast has too few points")

// Location identifies the place a report is about.
type Location struct {
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Label returns the human-readable place name.
func (l Location) Label() string {
	city := l.City
	if r, size := utf8.DecodeRuneInString(city); size > 0 {
		city = string(unicode.ToUpper(r)) + city[size:]
	}
	if l.PostalCode == "" {
		return city
	}
	return fmt.Sprintf("%s (%s)", city, l.PostalCode)
}

// Current is the current-conditions payload.
type Current struct {
	TempC       float64
	FeelsLikeC  float64
	Humidity    int
	WindMS      float64
	Description string
}

// ForecastPoint is one forecast step. Steps are three hours apart.
type ForecastPoint struct {
	TempC       float64
	Description string
}

// Period is one rendered slot of the report.
type Period struct {
	Label       string `json:"label"`
	TempC       int    `json:"temp_c"`
	Description string `json:"description"`
}

// Report is the structured and rendered output of Format.
type Report struct {
	Location    Location `json:"location"`
	TempC       int      `json:"temp_c"`
	FeelsLikeC  int      `json:"feels_like_c"`
	Humidity    int      `json:"humidity"`
	WindKmh     int      `json:"wind_kmh"`
	Description string   `json:"description"`
	Today       []Period `json:"today"`
	Tomorrow    []Period `json:"tomorrow"`
	Text        string   `json:"text"`
}

type slot struct {
	offset int
	label  string
}

// With a three-hour step starting at the next forecast boundary, these
// offsets land on morning, afternoon, evening and night of today, then
// morning and afternoon of tomorrow.
var (
	todaySlots = []slot{
		{0, "Matin"},
		{2, "Après-midi"},
		{4, "Soirée"},
		{6, "Nuit"},
	}
	tomorrowSlots = []slot{
		{8, "Matin"},
		{10, "Après-midi"},
	}
)

// MinForecastPoints is the forecast length Format requires.
const MinForecastPoints = 11

// RoundCelsius rounds a temperature to the nearest whole degree, halves away
// from zero.
func RoundCelsius(c float64) int {
	return int(math.Round(c))
}

// WindKmh converts a wind speed from m/s to whole km/h.
func WindKmh(ms float64) int {
	return int(math.Round(ms * 3.6))
}

// Format renders a report. It has no side effects: the same input always
// yields the same Report.
func Format(loc Location, current Current, forecast []ForecastPoint) (Report, error) {
	if len(forecast) < MinForecastPoints {
		return Report{}, fmt.Errorf("%w: got %d, need %d", ErrIncompleteForecast, len(forecast), MinForecastPoints)
	}

	r := Report{
		Location:    loc,
		TempC:       RoundCelsius(current.TempC),
		FeelsLikeC:  RoundCelsius(current.FeelsLikeC),
		Humidity:    current.Humidity,
		WindKmh:     WindKmh(current.WindMS),
		Description: current.Description,
		Today:       periods(forecast, todaySlots),
		Tomorrow:    periods(forecast, tomorrowSlots),
	}
	r.Text = render(r)
	return r, nil
}

func periods(forecast []ForecastPoint, slots []slot) []Period {
	out := make([]Period, 0, len(slots))
	for _, s := range slots {
		p := forecast[s.offset]
		out = append(out, Period{Label: s.label, TempC: RoundCelsius(p.TempC), Description: p.Description})
	}
	return out
}

func render(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Météo pour %s\n\n", r.Location.Label())
	b.WriteString("Actuellement :\n")
	fmt.Fprintf(&b, "- Température : %d°C (ressentie %d°C)\n", r.TempC, r.FeelsLikeC)
	fmt.Fprintf(&b, "- Conditions : %s\n", r.Description)
	fmt.Fprintf(&b, "- Humidité : %d%%\n", r.Humidity)
	fmt.Fprintf(&b, "- Vent : %d km/h\n", r.WindKmh)
	b.WriteString("\nAujourd'hui :\n")
	writePeriods(&b, r.Today)
	b.WriteString("\nDemain :\n")
	writePeriods(&b, r.Tomorrow)
	return b.String()
}

func writePeriods(b *strings.Builder, ps []Period) {
	for _, p := range ps {
		fmt.Fprintf(b, "- %s : %d°C, %s\n", p.Label, p.TempC, p.Description)
	}
}
