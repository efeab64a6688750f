package tests

import (
	"context"
	"errors"
	"slices"
	"testing"

	"ambulance/internal/domain"
	internalRedis "ambulance/internal/redis"
	"ambulance/internal/service"
)

func fleetVehicles() []*domain.Vehicle {
	return []*domain.Vehicle{
		{ID: "v-1", DriverID: driver.ID, Registration: "AMB-001", Type: domain.VehicleTypeBasic, Status: domain.VehicleStatusAvailable},
		{ID: "v-2", DriverID: other.ID, Registration: "AMB-002", Type: domain.VehicleTypeAdvanced, Status: domain.VehicleStatusOffline},
	}
}

func TestVehicleList_ScopesByRole(t *testing.T) {
	svc := service.NewVehicleService(NewMockVehicleRepository(fleetVehicles()...), nil, nil)
	ctx := context.Background()

	mine, err := svc.List(ctx, driver)
	if err != nil {
		t.Fatalf("driver list: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "v-1" {
		t.Errorf("driver sees %+v", mine)
	}

	all, err := svc.List(ctx, admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d vehicles, want 2", len(all))
	}

	if _, err := svc.List(ctx, alice); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden for users, got %v", err)
	}
}

func TestVehicleUpdateStatus(t *testing.T) {
	repo := NewMockVehicleRepository(fleetVehicles()...)
	svc := service.NewVehicleService(repo, nil, nil)
	ctx := context.Background()

	v, err := svc.UpdateStatus(ctx, driver, "v-1", "maintenance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != domain.VehicleStatusMaintenance {
		t.Errorf("status = %s", v.Status)
	}

	if _, err := svc.UpdateStatus(ctx, driver, "v-2", "available"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("expected ErrForbidden on another driver's vehicle, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, admin, "v-2", "flying"); !errors.Is(err, service.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, admin, "", "available"); !errors.Is(err, service.ErrInvalidVehicleID) {
		t.Errorf("expected ErrInvalidVehicleID, got %v", err)
	}
}

func TestVehicleUpdateEquipment_PublishesFaults(t *testing.T) {
	publisher := &MockPublisher{}
	svc := service.NewVehicleService(
		NewMockVehicleRepository(fleetVehicles()...),
		service.NewNotificationService(publisher, nil),
		nil,
	)
	ctx := context.Background()

	if _, err := svc.UpdateEquipment(ctx, driver, "v-1", []domain.Equipment{{Name: "oxygen", Functional: true}}); err != nil {
		t.Fatalf("all functional: %v", err)
	}
	if len(publisher.RoutingKeys()) != 0 {
		t.Fatal("no fault event expected for a functional checklist")
	}

	v, err := svc.UpdateEquipment(ctx, driver, "v-1", []domain.Equipment{
		{Name: "oxygen", Functional: true},
		{Name: "defibrillator", Functional: false},
	})
	if err != nil {
		t.Fatalf("with fault: %v", err)
	}
	if got := v.FaultyEquipment(); !slices.Equal(got, []string{"defibrillator"}) {
		t.Errorf("faulty = %v", got)
	}
	if got := publisher.RoutingKeys(); !slices.Equal(got, []string{"vehicle.equipment_fault"}) {
		t.Errorf("events = %v", got)
	}
}

func TestHospitalNearby_KeepsDistanceOrder(t *testing.T) {
	hospitals := NewMockHospitalRepository(
		&domain.Hospital{ID: "h-1", Name: "General", Lat: 12.97, Lng: 77.59, Emergency: true},
		&domain.Hospital{ID: "h-2", Name: "Children's", Lat: 12.93, Lng: 77.62},
	)
	locator := NewMockLocationStore()
	locator.Results = []internalRedis.HospitalDistance{
		{HospitalID: "h-2", DistanceKm: 1.2},
		{HospitalID: "gone", DistanceKm: 2.0},
		{HospitalID: "h-1", DistanceKm: 4.5},
	}
	svc := service.NewHospitalService(hospitals, locator, nil)

	got, err := svc.Nearby(context.Background(), service.NearbyRequest{Lat: 12.95, Lng: 77.6, RadiusKm: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "h-2" || got[1].ID != "h-1" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].DistanceKm != 1.2 {
		t.Errorf("distance = %v, want 1.2", got[0].DistanceKm)
	}
}

func TestHospitalNearby_Errors(t *testing.T) {
	hospitals := NewMockHospitalRepository()

	withoutIndex := service.NewHospitalService(hospitals, nil, nil)
	if _, err := withoutIndex.Nearby(context.Background(), service.NearbyRequest{Lat: 1, Lng: 1}); !errors.Is(err, service.ErrNearbyUnavailable) {
		t.Errorf("expected ErrNearbyUnavailable, got %v", err)
	}

	withIndex := service.NewHospitalService(hospitals, NewMockLocationStore(), nil)
	if _, err := withIndex.Nearby(context.Background(), service.NearbyRequest{Lat: 91, Lng: 1}); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}
}

func TestHospitalSyncIndex(t *testing.T) {
	locator := NewMockLocationStore()
	svc := service.NewHospitalService(NewMockHospitalRepository(
		&domain.Hospital{ID: "h-1", Lat: 12.97, Lng: 77.59},
		&domain.Hospital{ID: "h-2", Lat: 12.93, Lng: 77.62},
	), locator, nil)

	n, err := svc.SyncIndex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || locator.Indexed() != 2 {
		t.Errorf("indexed %d (store has %d), want 2", n, locator.Indexed())
	}
}
