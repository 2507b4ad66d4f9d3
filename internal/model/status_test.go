package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"on track, delayed, completed", []Status{StatusOnTrack, StatusDelayed, StatusCompleted}, StatusDelayed},
		{"on track, at risk", []Status{StatusOnTrack, StatusAtRisk}, StatusAtRisk},
		{"completed, completed", []Status{StatusCompleted, StatusCompleted}, StatusCompleted},
		{"on track, completed", []Status{StatusOnTrack, StatusCompleted}, StatusOnTrack},
		{"at risk, delayed", []Status{StatusAtRisk, StatusDelayed}, StatusDelayed},
		{"single at risk", []Status{StatusAtRisk}, StatusAtRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(tt.statuses))
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, st := range AllStatuses {
		parsed, err := ParseStatus(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	parsed, err := ParseStatus("  on track ")
	require.NoError(t, err)
	assert.Equal(t, StatusOnTrack, parsed)

	_, err = ParseStatus("Blocked")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatusJSON(t *testing.T) {
	b, err := json.Marshal(StatusAtRisk)
	require.NoError(t, err)
	assert.Equal(t, `"At Risk"`, string(b))

	var st Status
	require.NoError(t, json.Unmarshal([]byte(`"Delayed"`), &st))
	assert.Equal(t, StatusDelayed, st)

	assert.ErrorIs(t, json.Unmarshal([]byte(`"Paused"`), &st), ErrUnknownStatus)
	assert.ErrorIs(t, json.Unmarshal([]byte(`3`), &st), ErrUnknownStatus)

	_, err = json.Marshal(Status(42))
	assert.Error(t, err)
}

func TestStatusUnknownIsZeroValue(t *testing.T) {
	var st Status
	assert.Equal(t, StatusUnknown, st)
	assert.False(t, st.Valid())
	assert.NotContains(t, AllStatuses, StatusUnknown)

	_, err := json.Marshal(st)
	assert.ErrorIs(t, err, ErrUnknownStatus)

	parsed, err := ParseStatus("")
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Equal(t, StatusUnknown, parsed)
}
