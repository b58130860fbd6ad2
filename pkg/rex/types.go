package rex

import (
	"encoding/json"
	"math"
	"strconv"
)

// Params are the arguments of a single API call, sent as the JSON request body.
type Params map[string]interface{}

// Merge returns a new Params holding p overlaid with every entry of others.
func (p Params) Merge(others ...Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Credentials are exchanged for a session token and never stored.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Record is an opaque resource returned by the API.
type Record map[string]interface{}

// ID returns the numeric `_id` of the record.
func (r Record) ID() (int64, bool) {
	return toInt64(r["_id"])
}

// SearchResult is the page returned by a search call.
type SearchResult struct {
	Rows  []Record `json:"rows"`
	Total int      `json:"total"`
}

// Description is the service metadata returned by describe.
type Description struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Methods     map[string]interface{} `json:"methods"`
}

// MethodNames lists the methods the server reports for the service.
func (d Description) MethodNames() []string {
	names := make([]string, 0, len(d.Methods))
	for name := range d.Methods {
		names = append(names, name)
	}
	return names
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is out of range
		if n >= float64(math.MaxInt64) || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
