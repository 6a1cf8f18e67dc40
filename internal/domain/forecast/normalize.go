package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

const (
	maxHourlyPoints    = 24
	maxDailyEntries    = 7
	maxAlertDescLength = 200
	defaultSeverity    = "moderate"
	defaultAlertTitle  = "Alert"
)

// Normalize maps a provider payload into the dashboard shape.
// A payload that lacks a block the mapping depends on is reported as bad_payload.
func Normalize(p ProviderForecast) (Response, error) {
	if !p.HasRequiredSections() {
		return Response{}, badPayload(errors.New("missing location, current or forecast section"))
	}
	days := p.Forecast.ForecastDay
	if len(days) == 0 {
		return Response{}, badPayload(errors.New("forecast has no days"))
	}
	if p.Current.Condition == nil {
		return Response{}, badPayload(errors.New("current.condition missing"))
	}

	today := days[0]
	if today.Day == nil {
		return Response{}, badPayload(errors.New("forecastday[0].day missing"))
	}

	hourly, err := mapHours(today.Hour)
	if err != nil {
		return Response{}, badPayload(fmt.Errorf("forecastday[0]: %w", err))
	}

	tomorrowHourly := make([]HourlyPoint, 0)
	var tomorrowSummary *DaySummary
	if len(days) > 1 {
		tomorrow := days[1]
		tomorrowHourly, err = mapHours(tomorrow.Hour)
		if err != nil {
			return Response{}, badPayload(fmt.Errorf("forecastday[1]: %w", err))
		}
		summary, err := summarizeDay(tomorrow)
		if err != nil {
			return Response{}, badPayload(fmt.Errorf("forecastday[1]: %w", err))
		}
		tomorrowSummary = &summary
	}

	daily, err := mapDays(days)
	if err != nil {
		return Response{}, badPayload(err)
	}

	loc := p.Location
	cur := p.Current
	var sunrise, sunset string
	if today.Astro != nil {
		sunrise, sunset = today.Astro.Sunrise, today.Astro.Sunset
	}

	return Response{
		City:                   loc.Name,
		Country:                loc.Country,
		Timezone:               loc.TzID,
		Coord:                  Coordinates{Lat: loc.Lat, Lon: loc.Lon},
		Temp:                   roundHalfUp(cur.TempC),
		FeelsLike:              roundHalfUp(cur.FeelsLikeC),
		Condition:              cur.Condition.Text,
		Description:            cur.Condition.Text,
		Humidity:               roundHalfUp(cur.Humidity),
		WindSpeed:              roundHalfUp(cur.WindKph),
		WindDirection:          roundHalfUp(cur.WindDegree),
		UVIndex:                roundHalfUp(cur.UV),
		Visibility:             roundHalfUp(cur.VisKm),
		Pressure:               roundHalfUp(cur.PressureMb),
		High:                   roundHalfUp(today.Day.MaxTempC),
		Low:                    roundHalfUp(today.Day.MinTempC),
		Sunrise:                sunrise,
		Sunset:                 sunset,
		HourlyForecast:         hourly,
		TomorrowHourlyForecast: tomorrowHourly,
		TomorrowDaySummary:     tomorrowSummary,
		DailyForecast:          daily,
		Alerts:                 mapAlerts(p.Alerts),
	}, nil
}

func mapHours(hours ProviderHours) ([]HourlyPoint, error) {
	n := len(hours)
	if n > maxHourlyPoints {
		n = maxHourlyPoints
	}
	points := make([]HourlyPoint, 0, n)
	for i, h := range hours[:n] {
		if h.Condition == nil {
			return nil, fmt.Errorf("hour[%d].condition missing", i)
		}
		points = append(points, HourlyPoint{
			Time:      clockTime(h.Time),
			Temp:      roundHalfUp(h.TempC),
			Condition: strings.ToLower(h.Condition.Text),
			Humidity:  roundHalfUp(h.Humidity),
			WindSpeed: roundHalfUp(h.WindKph),
		})
	}
	return points, nil
}

func mapDays(days []ProviderDay) ([]DailyForecast, error) {
	n := len(days)
	if n > maxDailyEntries {
		n = maxDailyEntries
	}
	out := make([]DailyForecast, 0, n)
	for i, day := range days[:n] {
		summary, err := summarizeDay(day)
		if err != nil {
			return nil, fmt.Errorf("forecastday[%d]: %w", i, err)
		}
		out = append(out, DailyForecast{Dt: day.DateEpoch, DaySummary: summary})
	}
	return out, nil
}

func summarizeDay(day ProviderDay) (DaySummary, error) {
	if day.Day == nil {
		return DaySummary{}, errors.New("day missing")
	}
	if day.Day.Condition == nil {
		return DaySummary{}, errors.New("day.condition missing")
	}
	return DaySummary{
		Temp:        roundHalfUp(day.Day.AvgTempC),
		Min:         roundHalfUp(day.Day.MinTempC),
		Max:         roundHalfUp(day.Day.MaxTempC),
		Condition:   strings.ToLower(day.Day.Condition.Text),
		Description: day.Day.Condition.Text,
		Icon:        day.Day.Condition.Icon,
	}, nil
}

// mapAlerts returns nil for an empty result so the field drops out of the JSON.
func mapAlerts(src *ProviderAlerts) []Alert {
	if src == nil || len(src.Alert) == 0 {
		return nil
	}
	var out []Alert
	seen := make(map[Alert]struct{}, len(src.Alert))
	for _, a := range src.Alert {
		alert := Alert{
			Title:       firstNonEmpty(a.Event, a.Headline, defaultAlertTitle),
			Description: truncate(firstNonEmpty(a.Desc, a.Description), maxAlertDescLength),
			Severity:    firstNonEmpty(a.Severity, defaultSeverity),
		}
		if _, ok := seen[alert]; ok {
			continue
		}
		seen[alert] = struct{}{}
		out = append(out, alert)
	}
	return out
}

// clockTime extracts "HH:MM" from a "YYYY-MM-DD HH:MM" stamp.
func clockTime(stamp string) string {
	if len(stamp) < 16 {
		if len(stamp) > 11 {
			return stamp[11:]
		}
		return ""
	}
	return stamp[11:16]
}

// truncate keeps the first limit characters and marks the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf (-2.5 -> -2).
func roundHalfUp(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func badPayload(err error) error {
	return apperrors.Wrap(CodeBadPayload, MsgBadPayload, err)
}
