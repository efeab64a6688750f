package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const hospitalLocationKey = "hospitals:locations"

// HospitalDistance is a geo search hit.
type HospitalDistance struct {
	HospitalID string
	DistanceKm float64
}

// LocationStore handles the hospital geo index in Redis.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// IndexHospital stores a hospital's position using GEOADD.
func (s *LocationStore) IndexHospital(ctx context.Context, hospitalID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, hospitalLocationKey, &redis.GeoLocation{
		Name:      hospitalID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearbyHospitals returns hospitals within radiusKm, nearest first.
func (s *LocationStore) FindNearbyHospitals(ctx context.Context, lat, lng, radiusKm float64) ([]HospitalDistance, error) {
	results, err := s.client.GeoRadius(ctx, hospitalLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:   radiusKm,
		Unit:     "km",
		WithDist: true,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	hits := make([]HospitalDistance, 0, len(results))
	for _, r := range results {
		hits = append(hits, HospitalDistance{HospitalID: r.Name, DistanceKm: r.Dist})
	}
	return hits, nil
}

// RemoveHospital removes a hospital from the geo index.
func (s *LocationStore) RemoveHospital(ctx context.Context, hospitalID string) error {
	return s.client.ZRem(ctx, hospitalLocationKey, hospitalID).Err()
}
