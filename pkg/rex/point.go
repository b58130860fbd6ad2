package rex

import (
	"math"
	"regexp"
	"strconv"
)

// Location is a coordinate pair decoded from a POINT value. Both fields are nil
// when the value could not be parsed.
type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

var pointPattern = regexp.MustCompile(
	`(?i)^\s*POINT\s*\(\s*([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)\s+([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)\s*\)\s*$`,
)

// PointToLocation parses `POINT(lat lng)` into a Location. Malformed input yields
// a Location with nil coordinates rather than an error.
func PointToLocation(raw string) Location {
	matches := pointPattern.FindStringSubmatch(raw)
	if len(matches) != 3 {
		return Location{}
	}

	lat, err := parseCoordinate(matches[1])
	if err != nil {
		return Location{}
	}
	lng, err := parseCoordinate(matches[2])
	if err != nil {
		return Location{}
	}

	return Location{Lat: &lat, Lng: &lng}
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

// Valid reports whether both coordinates are present.
func (l Location) Valid() bool {
	return l.Lat != nil && l.Lng != nil
}

// String renders the location back into POINT form, or "" when invalid.
func (l Location) String() string {
	if !l.Valid() {
		return ""
	}
	return "POINT(" + strconv.FormatFloat(*l.Lat, 'f', -1, 64) + " " + strconv.FormatFloat(*l.Lng, 'f', -1, 64) + ")"
}
