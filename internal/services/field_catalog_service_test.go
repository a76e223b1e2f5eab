package services

import (
	"testing"

	"fleetcore/internal/models"
)

func TestMergeFieldSetsOrdering(t *testing.T) {
	tenantID := uint(7)

	defaults := []models.VehicleTypeField{
		{Name: "Name", Key: "name", SortOrder: 1},
		{Name: "Mileage", Key: "mileage", SortOrder: 8},
	}
	customs := []models.VehicleTypeField{
		{Name: "Fleet Number", Key: "fleet_number", SortOrder: 5, TenantID: &tenantID},
		{Name: "Axle Count", Key: "axle_count", SortOrder: 8, TenantID: &tenantID},
	}

	merged := MergeFieldSets(defaults, customs)
	if len(merged) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(merged))
	}

	wantKeys := []string{"name", "fleet_number", "axle_count", "mileage"}
	for i, key := range wantKeys {
		if merged[i].Key != key {
			t.Fatalf("position %d: expected %s, got %s", i, key, merged[i].Key)
		}
	}
}

func TestMergeFieldSetsEmptyInputs(t *testing.T) {
	if merged := MergeFieldSets(nil, nil); len(merged) != 0 {
		t.Fatalf("expected empty merge, got %d fields", len(merged))
	}

	defaults := []models.VehicleTypeField{{Name: "Name", Key: "name", SortOrder: 1}}
	merged := MergeFieldSets(defaults, nil)
	if len(merged) != 1 || merged[0].Key != "name" {
		t.Fatalf("expected defaults to pass through unchanged")
	}
}

func TestFieldKeyPattern(t *testing.T) {
	for _, valid := range []string{"license_plate", "vin", "max_lifting_capacity", "year2"} {
		if !fieldKeyPattern.MatchString(valid) {
			t.Fatalf("expected %q to be a valid key", valid)
		}
	}
	for _, invalid := range []string{"License Plate", "license-plate", "车牌", "", "Key"} {
		if fieldKeyPattern.MatchString(invalid) {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}
