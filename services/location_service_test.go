package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mgnrega_api/config"
)

func newTestLocationService(t *testing.T) *LocationService {
	t.Helper()
	config.InitCache()
	return NewLocationService()
}

func TestValidateCoordinates(t *testing.T) {
	svc := newTestLocationService(t)

	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"jaipur", 26.9124, 75.7873, false},
		{"southern tip", 8.0, 77.5, false},
		{"latitude too low", 4.0, 77.0, true},
		{"latitude too high", 40.0, 77.0, true},
		{"longitude too low", 20.0, 60.0, true},
		{"longitude too high", 20.0, 99.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateCoordinates(tt.lat, tt.lon)
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetDistrictFromCoordinates(t *testing.T) {
	svc := newTestLocationService(t)

	detected, err := svc.GetDistrictFromCoordinates(26.9124, 75.7873)
	require.NoError(t, err)
	require.NotNil(t, detected)
	require.Equal(t, "RJ001", detected.DistrictCode)
	require.Equal(t, "Jaipur", detected.District)
	require.Equal(t, "Rajasthan", detected.State)
	require.Less(t, detected.DistanceKm, 1.0)

	// Repeat lookups hit the memo cache and agree.
	cached, err := svc.GetDistrictFromCoordinates(26.9124, 75.7873)
	require.NoError(t, err)
	require.Equal(t, detected, cached)
}

func TestGetDistrictFromCoordinatesOutsideIndia(t *testing.T) {
	svc := newTestLocationService(t)

	_, err := svc.GetDistrictFromCoordinates(48.8566, 2.3522)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGetDistrictFromCoordinatesNoNearbyDistrict(t *testing.T) {
	svc := newTestLocationService(t)

	// Inside the bounding box but far from every directory entry.
	detected, err := svc.GetDistrictFromCoordinates(34.15, 77.57)
	require.NoError(t, err)
	require.Nil(t, detected)
}

func TestGetDistrictsByState(t *testing.T) {
	svc := newTestLocationService(t)

	districts := svc.GetDistrictsByState("maharashtra")
	require.Len(t, districts, 4)
	for _, d := range districts {
		require.Equal(t, "Maharashtra", d.State)
	}
	// Sorted by name.
	require.Equal(t, "Mumbai", districts[0].Name)
	require.Equal(t, "Pune", districts[3].Name)

	require.Empty(t, svc.GetDistrictsByState("Atlantis"))
}

func TestFindDistrictCode(t *testing.T) {
	svc := newTestLocationService(t)

	require.Equal(t, "MH002", svc.FindDistrictCode("Pune", "Maharashtra"))
	require.Equal(t, "KA001", svc.FindDistrictCode("banga", "karnataka"))
	require.Empty(t, svc.FindDistrictCode("Gotham", "Wayne"))
}
