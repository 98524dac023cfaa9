package model

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// wire.go — decoding helpers for document fields. encoding/json hands back
// float64 for numbers and string for everything textual; older documents may
// also carry numeric strings. All helpers are strict about shape but lenient
// about representation.

func wireString(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func wireInt(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

func wireDecimal(fields map[string]any, key string) (decimal.Decimal, bool) {
	switch v := fields[key].(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

func wireTime(fields map[string]any, key string) time.Time {
	s, ok := wireString(fields, key)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
