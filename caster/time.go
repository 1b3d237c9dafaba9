package caster

import (
	"encoding/json"
	"math"
	"time"

	jdto "github.com/jdto/jdto"
)

// TimeCaster parses time.Time targets from strings (RFC3339 plus common date
// layouts), unix-second numbers and time.Time values.
type TimeCaster struct{}

// looseLayouts are tried in order after RFC3339Nano/RFC3339.
var looseLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (TimeCaster) Name() string { return "time" }

func (TimeCaster) Supports(p jdto.PropertyMeta, _ any) bool { return p.Type.IsTime }

func (TimeCaster) Cast(p jdto.PropertyMeta, v any, c jdto.Context) (any, error) {
	mode := effectiveMode(p, c)
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	if mode == jdto.CastStrict {
		return nil, jdto.CastError("time.Time", v, nil)
	}
	switch t := v.(type) {
	case string:
		parsed, err := parseTime(t)
		if err != nil {
			if mode == jdto.CastPermissive {
				return time.Time{}, nil
			}
			return nil, jdto.CastError("time.Time", v, err)
		}
		return parsed, nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return time.Unix(n, 0).UTC(), nil
		}
	default:
		if f, ok := numericValue(v); ok && f == math.Trunc(f) {
			return time.Unix(int64(f), 0).UTC(), nil
		}
	}
	if mode == jdto.CastPermissive {
		return time.Time{}, nil
	}
	return nil, jdto.CastError("time.Time", v, nil)
}

func parseTime(s string) (time.Time, error) {
	// RFC3339Nano first (trailing zeros optional), then the loose layouts.
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return t2, nil
	}
	for _, layout := range looseLayouts {
		if t2, err2 := time.Parse(layout, s); err2 == nil {
			return t2, nil
		}
	}
	return time.Time{}, err
}
