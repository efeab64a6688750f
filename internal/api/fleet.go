package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ambulance/internal/domain"
	"ambulance/internal/wire"
)

// NearbyQuery restricts the hospital list to a radius around a point.
type NearbyQuery struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// ListHospitals fetches hospitals, optionally restricted to a radius.
func (c *Client) ListHospitals(ctx context.Context, near *NearbyQuery) ([]domain.Hospital, error) {
	path := "/api/hospitals"
	if near != nil {
		q := url.Values{}
		q.Set("lat", strconv.FormatFloat(near.Lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(near.Lng, 'f', -1, 64))
		if near.RadiusKm > 0 {
			q.Set("radiusKm", strconv.FormatFloat(near.RadiusKm, 'f', -1, 64))
		}
		path += "?" + q.Encode()
	}

	var out []wire.Hospital
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return wire.ToDomainHospitals(out), nil
}

// ListVehicles fetches the vehicles visible to the caller.
func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var out []wire.Vehicle
	if err := c.do(ctx, http.MethodGet, "/api/vehicles", nil, &out); err != nil {
		return nil, err
	}
	vehicles, err := wire.ToDomainVehicles(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return vehicles, nil
}

// UpdateVehicleStatus changes a vehicle's operational status.
func (c *Client) UpdateVehicleStatus(ctx context.Context, id string, status domain.VehicleStatus) (*domain.Vehicle, error) {
	var out wire.Vehicle
	path := "/api/vehicles/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, wire.VehicleStatusRequest{Status: string(status)}, &out); err != nil {
		return nil, err
	}
	return decodeVehicle(out)
}

// UpdateVehicleEquipment replaces a vehicle's equipment checklist.
func (c *Client) UpdateVehicleEquipment(ctx context.Context, id string, equipment []domain.Equipment) (*domain.Vehicle, error) {
	items := make([]wire.Equipment, 0, len(equipment))
	for _, e := range equipment {
		items = append(items, wire.Equipment(e))
	}
	var out wire.Vehicle
	path := "/api/vehicles/" + url.PathEscape(id) + "/equipment"
	if err := c.do(ctx, http.MethodPut, path, wire.EquipmentRequest{Equipment: items}, &out); err != nil {
		return nil, err
	}
	return decodeVehicle(out)
}

func decodeVehicle(in wire.Vehicle) (*domain.Vehicle, error) {
	v, err := in.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &v, nil
}
