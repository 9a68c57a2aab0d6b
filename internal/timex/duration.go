// Package timex extends time.Duration parsing with a day suffix so token
// lifetimes can be written as "30d" in env files and JSON config.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Day is 24 hours; calendar effects are ignored.
const Day = 24 * time.Hour

// ErrOverflow is returned for values outside the time.Duration range.
var ErrOverflow = errors.New("duration out of range")

// ParseDuration accepts everything time.ParseDuration does plus:
//   - "<n>d" for whole days, optionally combined with a Go suffix ("1d12h")
//   - a bare integer, interpreted as seconds
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return scale(s, n, time.Second)
	}

	if i := strings.IndexByte(s, 'd'); i > 0 {
		days, err := strconv.ParseInt(s[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d, err := scale(s, days, Day)
		if err != nil {
			return 0, err
		}
		if rest := s[i+1:]; rest != "" {
			extra, err := time.ParseDuration(rest)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			if (extra > 0 && d > math.MaxInt64-extra) || (extra < 0 && d < math.MinInt64-extra) {
				return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
			}
			d += extra
		}
		return d, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// scale returns n*unit or ErrOverflow when the product does not fit.
func scale(s string, n int64, unit time.Duration) (time.Duration, error) {
	if n > math.MaxInt64/int64(unit) || n < math.MinInt64/int64(unit) {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return time.Duration(n) * unit, nil
}

// Duration is a JSON-friendly time.Duration. It unmarshals from either a
// string understood by ParseDuration or an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}
