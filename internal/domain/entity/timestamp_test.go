package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMillis_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Millis
	}{
		{name: "number is milliseconds", input: `1752494400000`, want: 1752494400000},
		{name: "string is seconds", input: `"1752494400"`, want: 1752494400000},
		{name: "fractional seconds", input: `"1752494400.5"`, want: 1752494400500},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Millis
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMillis_UnmarshalJSON_Invalid(t *testing.T) {
	var got Millis
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &got))
}

func TestSensorSnapshot_MixedUnits(t *testing.T) {
	now := time.Date(2026, 7, 14, 12, 0, 0, 0, time.UTC)

	var fromSeconds SensorSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"lastUpdate":"1784030160"}`), &fromSeconds))

	var fromMillis SensorSnapshot
	require.NoError(t, json.Unmarshal([]byte(`{"lastUpdate":1784030160000}`), &fromMillis))

	assert.Equal(t, fromSeconds.LastUpdate, fromMillis.LastUpdate)
	assert.Equal(t, DeriveNodeStatus(fromSeconds.LastUpdate, now), DeriveNodeStatus(fromMillis.LastUpdate, now))
}

func TestNewID_SortsByCreation(t *testing.T) {
	earlier := NewID(IDPrefixAlert, time.UnixMilli(999))
	later := NewID(IDPrefixAlert, time.UnixMilli(1752494400000))

	assert.Regexp(t, `^alert_\d{13}_[0-9a-f]{9}$`, earlier)
	assert.Less(t, earlier, later)
	assert.NotEqual(t, NewID(IDPrefixLog, time.UnixMilli(5)), NewID(IDPrefixLog, time.UnixMilli(5)))
}
