package services

import (
	"strings"
	"testing"

	"fleetcore/internal/models"
)

func TestExampleValue(t *testing.T) {
	cases := []struct {
		fieldType string
		want      string
	}{
		{models.FieldTypeNumber, "12345"},
		{models.FieldTypeDate, "2024-01-15"},
		{models.FieldTypeBoolean, "1"},
		{models.FieldTypeText, "Example Value"},
		{models.FieldTypeTextarea, "Example Value"},
	}
	for _, tc := range cases {
		field := &models.VehicleTypeField{FieldType: tc.fieldType}
		if got := exampleValue(field); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.fieldType, tc.want, got)
		}
	}

	// 有选项列表时第一个选项优先于类型默认值
	field := &models.VehicleTypeField{FieldType: models.FieldTypeSelect}
	if err := field.SetOptions([]string{"Diesel", "Gasoline"}); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	if got := exampleValue(field); got != "Diesel" {
		t.Fatalf("expected first option, got %q", got)
	}
}

func TestFieldDescription(t *testing.T) {
	field := &models.VehicleTypeField{
		Name:       "Fuel Type",
		FieldType:  models.FieldTypeSelect,
		IsRequired: true,
		Unit:       "L",
	}
	if err := field.SetOptions([]string{"Gasoline", "Diesel"}); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	desc := fieldDescription(field)
	for _, want := range []string{"select", "必填", "Gasoline, Diesel", "单位: L"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("expected description to contain %q, got %q", want, desc)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	s := &TemplateService{}
	grid := [][]string{
		{"Name *", "Mileage"},
		{"Ford F-150 XLT", "12345"},
	}

	data, err := s.WriteCSV(grid)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "Name *,Mileage" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
}
