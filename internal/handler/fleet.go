package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"ambulance/internal/service"
	"ambulance/internal/validation"
	"ambulance/internal/wire"
)

// FleetHandler handles HTTP requests for vehicles and hospitals.
type FleetHandler struct {
	vehicleService  *service.VehicleService
	hospitalService *service.HospitalService
}

// NewFleetHandler creates a new FleetHandler.
func NewFleetHandler(vehicleService *service.VehicleService, hospitalService *service.HospitalService) *FleetHandler {
	return &FleetHandler{
		vehicleService:  vehicleService,
		hospitalService: hospitalService,
	}
}

// ListHospitals handles GET /api/hospitals
// With lat and lng it returns hospitals within radiusKm, nearest first.
// radiusKm defaults and is capped in the service.
func (h *FleetHandler) ListHospitals(c *gin.Context) {
	ctx := c.Request.Context()

	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw == "" && lngRaw == "" {
		hospitals, err := h.hospitalService.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		respondJSON(c, http.StatusOK, wire.FromHospitals(hospitals))
		return
	}

	lat, err := cast.ToFloat64E(latRaw)
	if err != nil {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	lng, err := cast.ToFloat64E(lngRaw)
	if err != nil {
		respondError(c, service.ErrInvalidLocation)
		return
	}
	var radius float64
	if raw := c.Query("radiusKm"); raw != "" {
		radius, err = cast.ToFloat64E(raw)
		if err != nil || radius <= 0 {
			badRequest(c, "radiusKm must be a positive number")
			return
		}
	}

	hospitals, err := h.hospitalService.Nearby(ctx, service.NearbyRequest{Lat: lat, Lng: lng, RadiusKm: radius})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromHospitals(hospitals))
}

// ListVehicles handles GET /api/vehicles
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	vehicles, err := h.vehicleService.List(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromVehicles(vehicles))
}

// UpdateVehicleStatus handles PUT /api/vehicles/:id/status
func (h *FleetHandler) UpdateVehicleStatus(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req wire.VehicleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		respondError(c, err)
		return
	}

	v, err := h.vehicleService.UpdateStatus(c.Request.Context(), identity, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromVehicle(v))
}

// UpdateVehicleEquipment handles PUT /api/vehicles/:id/equipment
func (h *FleetHandler) UpdateVehicleEquipment(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req wire.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		respondError(c, err)
		return
	}

	v, err := h.vehicleService.UpdateEquipment(c.Request.Context(), identity, c.Param("id"), wire.ToDomainEquipment(req.Equipment))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromVehicle(v))
}
