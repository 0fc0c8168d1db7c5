package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateDistance(t *testing.T) {
	// Mumbai to Pune is roughly 120 km as the crow flies.
	d := CalculateDistance(19.0760, 72.8777, 18.5204, 73.8567)
	require.InDelta(t, 120, d, 5)

	require.Zero(t, CalculateDistance(26.9124, 75.7873, 26.9124, 75.7873))

	// Symmetric in its endpoints.
	forward := CalculateDistance(28.6519, 77.2315, 22.5726, 88.3639)
	backward := CalculateDistance(22.5726, 88.3639, 28.6519, 77.2315)
	require.InDelta(t, forward, backward, 0.0001)
}
