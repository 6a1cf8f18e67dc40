package forecast

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

func TestNormalizeCurrentConditions(t *testing.T) {
	res, err := Normalize(decodePayload(t, buildPayload(2, nil)))
	require.NoError(t, err)

	require.Equal(t, "London", res.City)
	require.Equal(t, "United Kingdom", res.Country)
	require.Equal(t, "Europe/London", res.Timezone)
	require.Equal(t, Coordinates{Lat: 51.52, Lon: -0.11}, res.Coord)
	require.Equal(t, 13, res.Temp)
	require.Equal(t, 11, res.FeelsLike)
	require.Equal(t, "Partly Cloudy", res.Condition)
	require.Equal(t, "Partly Cloudy", res.Description)
	require.Equal(t, 72, res.Humidity)
	require.Equal(t, 15, res.WindSpeed)
	require.Equal(t, 240, res.WindDirection)
	require.Equal(t, 3, res.UVIndex)
	require.Equal(t, 10, res.Visibility)
	require.Equal(t, 1013, res.Pressure)
	require.Equal(t, 17, res.High)
	require.Equal(t, 8, res.Low)
	require.Equal(t, "06:45 AM", res.Sunrise)
	require.Equal(t, "07:30 PM", res.Sunset)
}

func TestNormalizeSingleDay(t *testing.T) {
	res, err := Normalize(decodePayload(t, buildPayload(1, nil)))
	require.NoError(t, err)

	require.Len(t, res.HourlyForecast, 24)
	require.NotNil(t, res.TomorrowHourlyForecast)
	require.Empty(t, res.TomorrowHourlyForecast)
	require.Nil(t, res.TomorrowDaySummary)
	require.Equal(t, HourlyPoint{Time: "00:00", Temp: 10, Condition: "light rain", Humidity: 80, WindSpeed: 12}, res.HourlyForecast[0])
	require.Equal(t, "23:00", res.HourlyForecast[23].Time)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	require.JSONEq(t, "[]", string(fields["tomorrowHourlyForecast"]))
	require.NotContains(t, fields, "tomorrowDaySummary")
}

func TestNormalizeTomorrow(t *testing.T) {
	res, err := Normalize(decodePayload(t, buildPayload(3, nil)))
	require.NoError(t, err)

	require.Len(t, res.TomorrowHourlyForecast, 24)
	require.NotNil(t, res.TomorrowDaySummary)
	require.Equal(t, DaySummary{
		Temp:        13,
		Min:         9,
		Max:         18,
		Condition:   "sunny day 1",
		Description: "Sunny Day 1",
		Icon:        "//cdn.weatherapi.com/weather/64x64/day/113.png",
	}, *res.TomorrowDaySummary)
}

func TestNormalizeSevenDays(t *testing.T) {
	res, err := Normalize(decodePayload(t, buildPayload(7, nil)))
	require.NoError(t, err)

	require.Len(t, res.DailyForecast, 7)
	for i, day := range res.DailyForecast {
		require.Equal(t, int64(1700000000+i*86400), day.Dt)
		require.Equal(t, fmt.Sprintf("sunny day %d", i), day.Condition)
		require.Equal(t, fmt.Sprintf("Sunny Day %d", i), day.Description)
	}
}

func TestNormalizeCapsDailyAndHourly(t *testing.T) {
	payload := buildPayload(9, nil)
	days := payload["forecast"].(map[string]any)["forecastday"].([]any)
	first := days[0].(map[string]any)
	first["hour"] = append(first["hour"].([]any), buildHour(0, 0))

	res, err := Normalize(decodePayload(t, payload))
	require.NoError(t, err)
	require.Len(t, res.DailyForecast, 7)
	require.Len(t, res.HourlyForecast, 24)
}

func TestNormalizeRounding(t *testing.T) {
	cases := []struct {
		in  float64
		out int
	}{
		{in: 12.5, out: 13},
		{in: 12.49, out: 12},
		{in: -2.5, out: -2},
		{in: -2.51, out: -3},
		{in: 0, out: 0},
	}
	for _, tc := range cases {
		payload := buildPayload(1, nil)
		payload["current"].(map[string]any)["temp_c"] = tc.in
		res, err := Normalize(decodePayload(t, payload))
		require.NoError(t, err)
		require.Equal(t, tc.out, res.Temp, "input %v", tc.in)
	}
}

func TestNormalizeHourMissingOrNotList(t *testing.T) {
	for _, value := range []any{nil, "n/a", map[string]any{"time": "x"}} {
		payload := buildPayload(2, nil)
		days := payload["forecast"].(map[string]any)["forecastday"].([]any)
		if value == nil {
			delete(days[0].(map[string]any), "hour")
		} else {
			days[0].(map[string]any)["hour"] = value
		}

		res, err := Normalize(decodePayload(t, payload))
		require.NoError(t, err)
		require.NotNil(t, res.HourlyForecast)
		require.Empty(t, res.HourlyForecast)
		require.Len(t, res.TomorrowHourlyForecast, 24)
	}
}

func TestNormalizeAlertsOmittedWhenEmpty(t *testing.T) {
	for _, alerts := range []any{nil, []any{}, map[string]any{}} {
		payload := buildPayload(1, nil)
		if alerts != nil {
			payload["alerts"] = map[string]any{"alert": alerts}
		}
		res, err := Normalize(decodePayload(t, payload))
		require.NoError(t, err)
		require.Nil(t, res.Alerts)

		raw, err := json.Marshal(res)
		require.NoError(t, err)
		require.NotContains(t, string(raw), `"alerts"`)
	}
}

func TestNormalizeAlertsBlockNotObject(t *testing.T) {
	for _, alerts := range []any{[]any{}, "none"} {
		payload := buildPayload(1, nil)
		payload["alerts"] = alerts

		res, err := Normalize(decodePayload(t, payload))
		require.NoError(t, err)
		require.Nil(t, res.Alerts)

		raw, err := json.Marshal(res)
		require.NoError(t, err)
		require.NotContains(t, string(raw), `"alerts"`)
	}
}

func TestNormalizeAlertTitleKeepsBlankEvent(t *testing.T) {
	alerts := []any{map[string]any{"event": " ", "headline": "H"}}

	res, err := Normalize(decodePayload(t, buildPayload(1, alerts)))
	require.NoError(t, err)
	require.Len(t, res.Alerts, 1)
	require.Equal(t, " ", res.Alerts[0].Title)
}

func TestNormalizeAlerts(t *testing.T) {
	longDesc := strings.Repeat("a", 250)
	alerts := []any{
		map[string]any{"event": "Flood Warning", "headline": "Flood headline", "severity": "Severe", "desc": longDesc},
		map[string]any{"headline": "Wind advisory", "desc": "Gusts"},
		map[string]any{},
		map[string]any{"event": "Flood Warning", "headline": "dup", "severity": "Severe", "desc": longDesc},
	}

	res, err := Normalize(decodePayload(t, buildPayload(1, alerts)))
	require.NoError(t, err)
	require.Len(t, res.Alerts, 3)

	require.Equal(t, "Flood Warning", res.Alerts[0].Title)
	require.Equal(t, "Severe", res.Alerts[0].Severity)
	require.Len(t, res.Alerts[0].Description, 203)
	require.Equal(t, strings.Repeat("a", 200)+"...", res.Alerts[0].Description)

	require.Equal(t, Alert{Title: "Wind advisory", Description: "Gusts", Severity: "moderate"}, res.Alerts[1])
	require.Equal(t, Alert{Title: "Alert", Description: "", Severity: "moderate"}, res.Alerts[2])
}

func TestNormalizeAlertDescriptionExactLimit(t *testing.T) {
	desc := strings.Repeat("é", 200)
	res, err := Normalize(decodePayload(t, buildPayload(1, []any{map[string]any{"desc": desc}})))
	require.NoError(t, err)
	require.Equal(t, desc, res.Alerts[0].Description)
}

func TestNormalizeMissingBlocksAreBadPayload(t *testing.T) {
	cases := map[string]func(map[string]any){
		"no current":        func(p map[string]any) { delete(p, "current") },
		"no forecast days":  func(p map[string]any) { p["forecast"] = map[string]any{"forecastday": []any{}} },
		"current condition": func(p map[string]any) { delete(p["current"].(map[string]any), "condition") },
		"day condition": func(p map[string]any) {
			day := p["forecast"].(map[string]any)["forecastday"].([]any)[1].(map[string]any)
			delete(day["day"].(map[string]any), "condition")
		},
		"hour condition": func(p map[string]any) {
			day := p["forecast"].(map[string]any)["forecastday"].([]any)[0].(map[string]any)
			delete(day["hour"].([]any)[3].(map[string]any), "condition")
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			payload := buildPayload(2, nil)
			mutate(payload)
			_, err := Normalize(decodePayload(t, payload))
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, CodeBadPayload))
			require.Equal(t, MsgBadPayload, apperrors.MessageOf(err))
		})
	}
}

func TestClockTime(t *testing.T) {
	require.Equal(t, "13:00", clockTime("2024-07-01 13:00"))
	require.Equal(t, "13:00", clockTime("2024-07-01T13:00:00Z"))
	require.Equal(t, "13", clockTime("2024-07-01 13"))
	require.Equal(t, "", clockTime("2024-07-01"))
}

func decodePayload(t *testing.T, payload map[string]any) ProviderForecast {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	var out ProviderForecast
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func buildPayload(days int, alerts []any) map[string]any {
	forecastDays := make([]any, 0, days)
	for d := 0; d < days; d++ {
		hours := make([]any, 0, 24)
		for h := 0; h < 24; h++ {
			hours = append(hours, buildHour(d, h))
		}
		forecastDays = append(forecastDays, map[string]any{
			"date":       fmt.Sprintf("2023-11-%02d", 14+d),
			"date_epoch": 1700000000 + d*86400,
			"day": map[string]any{
				"maxtemp_c": 17.4 + float64(d),
				"mintemp_c": 7.6 + float64(d),
				"avgtemp_c": 12.2 + float64(d),
				"condition": map[string]any{
					"text": fmt.Sprintf("Sunny Day %d", d),
					"icon": "//cdn.weatherapi.com/weather/64x64/day/113.png",
					"code": 1000,
				},
			},
			"astro": map[string]any{"sunrise": "06:45 AM", "sunset": "07:30 PM"},
			"hour":  hours,
		})
	}

	payload := map[string]any{
		"location": map[string]any{
			"name":    "London",
			"country": "United Kingdom",
			"lat":     51.52,
			"lon":     -0.11,
			"tz_id":   "Europe/London",
		},
		"current": map[string]any{
			"temp_c":      13.1,
			"feelslike_c": 10.6,
			"humidity":    72,
			"wind_kph":    14.8,
			"wind_degree": 240,
			"uv":          3.0,
			"vis_km":      10.0,
			"pressure_mb": 1013.0,
			"condition":   map[string]any{"text": "Partly Cloudy", "icon": "//cdn/116.png", "code": 1003},
		},
		"forecast": map[string]any{"forecastday": forecastDays},
	}
	if alerts != nil {
		payload["alerts"] = map[string]any{"alert": alerts}
	}
	return payload
}

func buildHour(day, hour int) map[string]any {
	return map[string]any{
		"time_epoch": 1700000000 + day*86400 + hour*3600,
		"time":       fmt.Sprintf("2023-11-%02d %02d:00", 14+day, hour),
		"temp_c":     9.5 + float64(hour)*0.1,
		"humidity":   80,
		"wind_kph":   11.9,
		"condition":  map[string]any{"text": "Light Rain", "icon": "//cdn/296.png", "code": 1183},
	}
}
