package forecast

import (
	"errors"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Query is a validated location: a city name or a coordinate pair, never both.
type Query struct {
	City        string
	Coordinates *Coordinates
}

// Value renders the provider "q" parameter.
func (q Query) Value() string {
	if q.Coordinates != nil {
		return formatCoord(q.Coordinates.Lat) + "," + formatCoord(q.Coordinates.Lon)
	}
	return q.City
}

// Kind labels the query form for logs and spans.
func (q Query) Kind() string {
	if q.Coordinates != nil {
		return "coordinates"
	}
	return "city"
}

// ParseQuery accepts exactly one of a city or a full lat/lon pair.
func ParseQuery(req Request) (Query, error) {
	city := strings.TrimSpace(req.City)
	lat := strings.TrimSpace(req.Lat)
	lon := strings.TrimSpace(req.Lon)

	switch {
	case city != "" && lat == "" && lon == "":
		return Query{City: city}, nil
	case city == "" && lat != "" && lon != "":
		coords, err := parseCoordinates(lat, lon)
		if err != nil {
			return Query{}, apperrors.Wrap(CodeInvalidInput, MsgInvalidInput, err)
		}
		return Query{Coordinates: &coords}, nil
	default:
		return Query{}, apperrors.Wrap(CodeInvalidInput, MsgInvalidInput, nil)
	}
}

func parseCoordinates(lat, lon string) (Coordinates, error) {
	latVal, err := parseFinite(lat)
	if err != nil {
		return Coordinates{}, errors.New("lat must be numeric")
	}
	lonVal, err := parseFinite(lon)
	if err != nil {
		return Coordinates{}, errors.New("lon must be numeric")
	}
	if latVal < -90 || latVal > 90 {
		return Coordinates{}, errors.New("lat out of range")
	}
	if lonVal < -180 || lonVal > 180 {
		return Coordinates{}, errors.New("lon out of range")
	}
	return Coordinates{Lat: latVal, Lon: lonVal}, nil
}

func parseFinite(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
