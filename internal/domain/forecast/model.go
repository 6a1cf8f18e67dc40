package forecast

import (
	"bytes"
	"encoding/json"
)

// Request captures the raw query accepted by the forecast endpoint.
type Request struct {
	City string `form:"city"`
	Lat  string `form:"lat"`
	Lon  string `form:"lon"`
}

// Response is the normalized forecast serialized back to the dashboard.
type Response struct {
	City     string      `json:"city"`
	Country  string      `json:"country"`
	Timezone string      `json:"timezone"`
	Coord    Coordinates `json:"coord"`

	Temp          int    `json:"temp"`
	FeelsLike     int    `json:"feelsLike"`
	Condition     string `json:"condition"`
	Description   string `json:"description"`
	Humidity      int    `json:"humidity"`
	WindSpeed     int    `json:"windSpeed"`
	WindDirection int    `json:"windDirection"`
	UVIndex       int    `json:"uvIndex"`
	Visibility    int    `json:"visibility"`
	Pressure      int    `json:"pressure"`
	High          int    `json:"high"`
	Low           int    `json:"low"`
	Sunrise       string `json:"sunrise"`
	Sunset        string `json:"sunset"`

	HourlyForecast         []HourlyPoint   `json:"hourlyForecast"`
	TomorrowHourlyForecast []HourlyPoint   `json:"tomorrowHourlyForecast"`
	TomorrowDaySummary     *DaySummary     `json:"tomorrowDaySummary,omitempty"`
	DailyForecast          []DailyForecast `json:"dailyForecast"`
	// Alerts is nil, and therefore absent from JSON, when the provider reported none.
	Alerts []Alert `json:"alerts,omitempty"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HourlyPoint is one hour of the chart series.
type HourlyPoint struct {
	Time      string `json:"time"`
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
	Humidity  int    `json:"humidity"`
	WindSpeed int    `json:"windSpeed"`
}

// DaySummary aggregates one forecast day.
type DaySummary struct {
	Temp        int    `json:"temp"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// DailyForecast is a DaySummary stamped with the day's epoch.
type DailyForecast struct {
	Dt int64 `json:"dt"`
	DaySummary
}

// Alert is a trimmed provider weather alert.
type Alert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ProviderForecast is the decoded weatherapi.com forecast payload.
// Blocks are pointers so a missing section can be told apart from a zero one.
type ProviderForecast struct {
	Location *ProviderLocation `json:"location"`
	Current  *ProviderCurrent  `json:"current"`
	Forecast *ProviderDays     `json:"forecast"`
	Alerts   *ProviderAlerts   `json:"alerts"`
}

// HasRequiredSections reports whether the location, current and forecast-day blocks are present.
func (p ProviderForecast) HasRequiredSections() bool {
	return p.Location != nil && p.Current != nil && p.Forecast != nil && p.Forecast.ForecastDay != nil
}

type ProviderLocation struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	TzID    string  `json:"tz_id"`
}

type ProviderCurrent struct {
	TempC      float64            `json:"temp_c"`
	FeelsLikeC float64            `json:"feelslike_c"`
	Humidity   float64            `json:"humidity"`
	WindKph    float64            `json:"wind_kph"`
	WindDegree float64            `json:"wind_degree"`
	UV         float64            `json:"uv"`
	VisKm      float64            `json:"vis_km"`
	PressureMb float64            `json:"pressure_mb"`
	Condition  *ProviderCondition `json:"condition"`
}

type ProviderCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type ProviderDays struct {
	ForecastDay []ProviderDay `json:"forecastday"`
}

type ProviderDay struct {
	Date      string             `json:"date"`
	DateEpoch int64              `json:"date_epoch"`
	Day       *ProviderDayTotals `json:"day"`
	Astro     *ProviderAstro     `json:"astro"`
	Hour      ProviderHours      `json:"hour"`
}

type ProviderDayTotals struct {
	MaxTempC  float64            `json:"maxtemp_c"`
	MinTempC  float64            `json:"mintemp_c"`
	AvgTempC  float64            `json:"avgtemp_c"`
	Condition *ProviderCondition `json:"condition"`
}

type ProviderAstro struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

type ProviderHour struct {
	TimeEpoch int64              `json:"time_epoch"`
	Time      string             `json:"time"`
	TempC     float64            `json:"temp_c"`
	Humidity  float64            `json:"humidity"`
	WindKph   float64            `json:"wind_kph"`
	Condition *ProviderCondition `json:"condition"`
}

// ProviderHours tolerates a missing or non-list "hour" field by decoding it as empty.
type ProviderHours []ProviderHour

func (h *ProviderHours) UnmarshalJSON(data []byte) error {
	var hours []ProviderHour
	ok, err := decodeList(data, &hours)
	if err != nil || !ok {
		*h = nil
		return err
	}
	*h = hours
	return nil
}

type ProviderAlerts struct {
	Alert ProviderAlertList `json:"alert"`
}

// UnmarshalJSON treats an "alerts" value that is not an object as carrying no alerts.
func (a *ProviderAlerts) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*a = ProviderAlerts{}
		return nil
	}
	type plain ProviderAlerts
	var decoded plain
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return err
	}
	*a = ProviderAlerts(decoded)
	return nil
}

type ProviderAlert struct {
	Headline    string `json:"headline"`
	Event       string `json:"event"`
	Severity    string `json:"severity"`
	Desc        string `json:"desc"`
	Description string `json:"description"`
}

// ProviderAlertList decodes like ProviderHours: anything but a list becomes empty.
type ProviderAlertList []ProviderAlert

func (l *ProviderAlertList) UnmarshalJSON(data []byte) error {
	var alerts []ProviderAlert
	ok, err := decodeList(data, &alerts)
	if err != nil || !ok {
		*l = nil
		return err
	}
	*l = alerts
	return nil
}

// decodeList unmarshals data into dst only when it is a JSON array.
func decodeList(data []byte, dst any) (bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false, nil
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return false, err
	}
	return true, nil
}
