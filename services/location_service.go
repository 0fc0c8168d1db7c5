package services

import (
	"fmt"
	"log"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"mgnrega_api/config"
	"mgnrega_api/models"
	"mgnrega_api/utils"
)

// India's approximate bounding box.
const (
	indiaMinLatitude  = 6.0
	indiaMaxLatitude  = 37.6
	indiaMinLongitude = 68.0
	indiaMaxLongitude = 97.25
)

// nearestDistrictMaxKm bounds how far a coordinate may be from a known
// district center and still resolve to it.
const nearestDistrictMaxKm = 100.0

// LocationService resolves coordinates to districts against a static
// directory, memoizing results in the process-wide geo cache.
type LocationService struct {
	districts []models.District
}

func NewLocationService() *LocationService {
	return &LocationService{districts: indianDistricts}
}

// GetDistrictFromCoordinates resolves GPS coordinates to the nearest
// known district. Coordinates outside India fail validation.
func (s *LocationService) GetDistrictFromCoordinates(latitude, longitude float64) (*models.DetectedDistrict, error) {
	if err := s.ValidateCoordinates(latitude, longitude); err != nil {
		return nil, err
	}

	cacheKey := config.GetCacheKey("geo", fmt.Sprintf("%.4f", latitude), fmt.Sprintf("%.4f", longitude))
	if config.GeoCache != nil {
		if cached, found := config.GeoCache.Get(cacheKey); found {
			log.Printf("Returning cached district for coordinates %.4f, %.4f", latitude, longitude)
			return cached.(*models.DetectedDistrict), nil
		}
	}

	var nearest *models.District
	minDistance := nearestDistrictMaxKm
	for i := range s.districts {
		d := &s.districts[i]
		distance := utils.CalculateDistance(latitude, longitude, d.Latitude, d.Longitude)
		if distance < minDistance {
			minDistance = distance
			nearest = d
		}
	}

	if nearest == nil {
		log.Printf("Could not determine district for coordinates %.4f, %.4f", latitude, longitude)
		return nil, nil
	}

	result := &models.DetectedDistrict{
		District:     nearest.Name,
		State:        nearest.State,
		DistrictCode: nearest.Code,
		DistanceKm:   round2(minDistance),
	}
	if config.GeoCache != nil {
		config.GeoCache.Set(cacheKey, result, gocache.DefaultExpiration)
	}

	log.Printf("Found district %s, %s for coordinates %.4f, %.4f", result.District, result.State, latitude, longitude)
	return result, nil
}

// GetDistrictsByState lists the known districts of a state, sorted by
// name. Matching is case-insensitive.
func (s *LocationService) GetDistrictsByState(state string) []models.District {
	cacheKey := config.GetCacheKey("districts", strings.ToLower(state))
	if config.DistrictListCache != nil {
		if cached, found := config.DistrictListCache.Get(cacheKey); found {
			return cached.([]models.District)
		}
	}

	var result []models.District
	for _, d := range s.districts {
		if strings.EqualFold(d.State, state) {
			result = append(result, d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	if config.DistrictListCache != nil {
		config.DistrictListCache.Set(cacheKey, result, gocache.DefaultExpiration)
	}
	return result
}

// ValidateCoordinates checks that the coordinates fall inside India's
// bounding box.
func (s *LocationService) ValidateCoordinates(latitude, longitude float64) error {
	if latitude < indiaMinLatitude || latitude > indiaMaxLatitude {
		return NewValidationError(fmt.Sprintf("latitude %.4f is outside India", latitude))
	}
	if longitude < indiaMinLongitude || longitude > indiaMaxLongitude {
		return NewValidationError(fmt.Sprintf("longitude %.4f is outside India", longitude))
	}
	return nil
}

// FindDistrictCode looks up a district code by name and state,
// tolerating partial matches.
func (s *LocationService) FindDistrictCode(district, state string) string {
	for _, d := range s.districts {
		if strings.EqualFold(d.Name, district) && strings.EqualFold(d.State, state) {
			return d.Code
		}
	}
	districtLower := strings.ToLower(district)
	stateLower := strings.ToLower(state)
	for _, d := range s.districts {
		if strings.Contains(strings.ToLower(d.Name), districtLower) &&
			strings.Contains(strings.ToLower(d.State), stateLower) {
			return d.Code
		}
	}
	return ""
}

// indianDistricts is the static district directory with headquarters
// coordinates.
var indianDistricts = []models.District{
	{Code: "AP001", Name: "Anantapur", State: "Andhra Pradesh", Latitude: 14.6819, Longitude: 77.6006},
	{Code: "AP002", Name: "Chittoor", State: "Andhra Pradesh", Latitude: 13.2172, Longitude: 79.1003},
	{Code: "AP003", Name: "Visakhapatnam", State: "Andhra Pradesh", Latitude: 17.6868, Longitude: 83.2185},
	{Code: "AS001", Name: "Kamrup", State: "Assam", Latitude: 26.1445, Longitude: 91.7362},
	{Code: "AS002", Name: "Dibrugarh", State: "Assam", Latitude: 27.4728, Longitude: 94.9120},
	{Code: "BR001", Name: "Patna", State: "Bihar", Latitude: 25.5941, Longitude: 85.1376},
	{Code: "BR002", Name: "Gaya", State: "Bihar", Latitude: 24.7914, Longitude: 85.0002},
	{Code: "CG001", Name: "Raipur", State: "Chhattisgarh", Latitude: 21.2514, Longitude: 81.6296},
	{Code: "CG002", Name: "Bilaspur", State: "Chhattisgarh", Latitude: 22.0797, Longitude: 82.1391},
	{Code: "DL001", Name: "Central Delhi", State: "Delhi", Latitude: 28.6519, Longitude: 77.2315},
	{Code: "GJ001", Name: "Ahmedabad", State: "Gujarat", Latitude: 23.0225, Longitude: 72.5714},
	{Code: "GJ002", Name: "Surat", State: "Gujarat", Latitude: 21.1702, Longitude: 72.8311},
	{Code: "GJ003", Name: "Jamnagar", State: "Gujarat", Latitude: 22.4707, Longitude: 70.0577},
	{Code: "HR001", Name: "Gurgaon", State: "Haryana", Latitude: 28.4595, Longitude: 77.0266},
	{Code: "HR002", Name: "Faridabad", State: "Haryana", Latitude: 28.4089, Longitude: 77.3178},
	{Code: "HP001", Name: "Shimla", State: "Himachal Pradesh", Latitude: 31.1048, Longitude: 77.1734},
	{Code: "HP002", Name: "Kangra", State: "Himachal Pradesh", Latitude: 32.0998, Longitude: 76.2691},
	{Code: "JH001", Name: "Ranchi", State: "Jharkhand", Latitude: 23.3441, Longitude: 85.3096},
	{Code: "JH002", Name: "Dhanbad", State: "Jharkhand", Latitude: 23.7957, Longitude: 86.4304},
	{Code: "KA001", Name: "Bangalore Urban", State: "Karnataka", Latitude: 12.9716, Longitude: 77.5946},
	{Code: "KA002", Name: "Mysuru", State: "Karnataka", Latitude: 12.2958, Longitude: 76.6394},
	{Code: "KL001", Name: "Thiruvananthapuram", State: "Kerala", Latitude: 8.5241, Longitude: 76.9366},
	{Code: "KL002", Name: "Kozhikode", State: "Kerala", Latitude: 11.2588, Longitude: 75.7804},
	{Code: "MP001", Name: "Bhopal", State: "Madhya Pradesh", Latitude: 23.2599, Longitude: 77.4126},
	{Code: "MP002", Name: "Indore", State: "Madhya Pradesh", Latitude: 22.7196, Longitude: 75.8577},
	{Code: "MH001", Name: "Mumbai", State: "Maharashtra", Latitude: 19.0760, Longitude: 72.8777},
	{Code: "MH002", Name: "Pune", State: "Maharashtra", Latitude: 18.5204, Longitude: 73.8567},
	{Code: "MH003", Name: "Nagpur", State: "Maharashtra", Latitude: 21.1458, Longitude: 79.0882},
	{Code: "MH004", Name: "Nashik", State: "Maharashtra", Latitude: 19.9975, Longitude: 73.7898},
	{Code: "OR001", Name: "Khordha", State: "Odisha", Latitude: 20.2961, Longitude: 85.8245},
	{Code: "OR002", Name: "Sambalpur", State: "Odisha", Latitude: 21.4669, Longitude: 83.9812},
	{Code: "PB001", Name: "Ludhiana", State: "Punjab", Latitude: 30.9010, Longitude: 75.8573},
	{Code: "PB002", Name: "Amritsar", State: "Punjab", Latitude: 31.6340, Longitude: 74.8723},
	{Code: "RJ001", Name: "Jaipur", State: "Rajasthan", Latitude: 26.9124, Longitude: 75.7873},
	{Code: "RJ002", Name: "Jodhpur", State: "Rajasthan", Latitude: 26.2389, Longitude: 73.0243},
	{Code: "TN001", Name: "Chennai", State: "Tamil Nadu", Latitude: 13.0827, Longitude: 80.2707},
	{Code: "TN002", Name: "Coimbatore", State: "Tamil Nadu", Latitude: 11.0168, Longitude: 76.9558},
	{Code: "TG001", Name: "Hyderabad", State: "Telangana", Latitude: 17.3850, Longitude: 78.4867},
	{Code: "TG002", Name: "Warangal", State: "Telangana", Latitude: 17.9689, Longitude: 79.5941},
	{Code: "UP001", Name: "Lucknow", State: "Uttar Pradesh", Latitude: 26.8467, Longitude: 80.9462},
	{Code: "UP002", Name: "Kanpur Nagar", State: "Uttar Pradesh", Latitude: 26.4499, Longitude: 80.3319},
	{Code: "UP003", Name: "Varanasi", State: "Uttar Pradesh", Latitude: 25.3176, Longitude: 82.9739},
	{Code: "WB001", Name: "Kolkata", State: "West Bengal", Latitude: 22.5726, Longitude: 88.3639},
	{Code: "WB002", Name: "Darjeeling", State: "West Bengal", Latitude: 27.0360, Longitude: 88.2627},
}
