package entity

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Millis is a Unix timestamp in milliseconds, the canonical time unit of stored records.
//
// Devices report lastUpdate either as a JSON number of milliseconds or as a
// string of seconds. Decoding converts both to milliseconds so no read site has
// to branch on the representation.
type Millis int64

// MillisOf converts t to Millis.
func MillisOf(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time returns the timestamp as a time.Time in UTC.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m)).UTC()
}

// IsZero reports whether the timestamp is unset.
func (m Millis) IsZero() bool {
	return m == 0
}

// Add returns m shifted by d.
func (m Millis) Add(d time.Duration) Millis {
	return m + Millis(d.Milliseconds())
}

// Key renders m as a record key, used for history entries.
func (m Millis) Key() string {
	return strconv.FormatInt(int64(m), 10)
}

// UnmarshalJSON accepts a number of milliseconds or a string of seconds.
func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WithStack(err)
		}
		if s == "" {
			*m = 0

			return nil
		}
		seconds, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.Wrapf(err, "parse timestamp %q", s)
		}
		*m = Millis(math.Round(seconds * 1000))

		return nil
	}

	millis, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return errors.Wrapf(err, "parse timestamp %s", data)
	}
	*m = Millis(math.Round(millis))

	return nil
}

// ParseMillisKey parses a history key back into Millis.
func ParseMillisKey(key string) (Millis, bool) {
	v, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, false
	}

	return Millis(v), true
}
