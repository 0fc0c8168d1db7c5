package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	maxAge := 24 * time.Hour

	tests := []struct {
		name        string
		lastUpdated time.Time
		want        bool
	}{
		{"zero timestamp", time.Time{}, true},
		{"just updated", now, false},
		{"within window", now.Add(-23 * time.Hour), false},
		{"exactly at max age", now.Add(-24 * time.Hour), true},
		{"past max age", now.Add(-25 * time.Hour), true},
		{"future timestamp", now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsStale(tt.lastUpdated, now, maxAge))
		})
	}
}
