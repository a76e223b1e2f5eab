package services

import (
	"testing"

	"fleetcore/internal/models"
)

func makeField(key, name, fieldType string, required bool) *models.VehicleTypeField {
	return &models.VehicleTypeField{
		Name:       name,
		Key:        key,
		FieldType:  fieldType,
		IsRequired: required,
		IsActive:   true,
	}
}

func TestValidateFieldValueRequired(t *testing.T) {
	field := makeField("name", "Name", models.FieldTypeText, true)

	errs := ValidateFieldValue(field, "")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for empty required field, got %d", len(errs))
	}
	if errs[0].Key != "name" {
		t.Fatalf("expected error key name, got %s", errs[0].Key)
	}

	// 纯空白等同于空
	if errs := ValidateFieldValue(field, "   "); len(errs) != 1 {
		t.Fatalf("expected whitespace-only value to fail required check")
	}

	if errs := ValidateFieldValue(field, "Ford F-150"); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateFieldValueOptionalEmpty(t *testing.T) {
	field := makeField("mileage", "Mileage", models.FieldTypeNumber, false)

	// 可选字段为空时不做类型检查
	if errs := ValidateFieldValue(field, ""); len(errs) != 0 {
		t.Fatalf("expected empty optional field to pass, got %v", errs)
	}
}

func TestValidateFieldValueNumber(t *testing.T) {
	field := makeField("mileage", "Mileage", models.FieldTypeNumber, false)

	for _, valid := range []string{"15000", "-3", "3.14", " 42 "} {
		if errs := ValidateFieldValue(field, valid); len(errs) != 0 {
			t.Fatalf("expected %q to be a valid number, got %v", valid, errs)
		}
	}
	for _, invalid := range []string{"abc", "12abc", "1,000"} {
		if errs := ValidateFieldValue(field, invalid); len(errs) != 1 {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}

func TestValidateFieldValueDate(t *testing.T) {
	field := makeField("purchase_date", "Purchase Date", models.FieldTypeDate, false)

	if errs := ValidateFieldValue(field, "2024-01-15"); len(errs) != 0 {
		t.Fatalf("expected valid date to pass, got %v", errs)
	}

	// 日历上不存在的日期必须被拒绝
	for _, invalid := range []string{"2024-02-30", "2024-13-01", "15/01/2024", "2024-1-5"} {
		if errs := ValidateFieldValue(field, invalid); len(errs) != 1 {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}

func TestValidateFieldValueSelect(t *testing.T) {
	field := makeField("fuel_type", "Fuel Type", models.FieldTypeSelect, false)
	if err := field.SetOptions([]string{"Gasoline", "Diesel", "Electric"}); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	if errs := ValidateFieldValue(field, "Diesel"); len(errs) != 0 {
		t.Fatalf("expected option member to pass, got %v", errs)
	}
	if errs := ValidateFieldValue(field, "Hydrogen"); len(errs) != 1 {
		t.Fatalf("expected non-member to be rejected")
	}
	// 选项匹配区分大小写
	if errs := ValidateFieldValue(field, "diesel"); len(errs) != 1 {
		t.Fatalf("expected case mismatch to be rejected")
	}
}

func TestValidateFieldValueBoolean(t *testing.T) {
	field := makeField("is_leased", "Is Leased", models.FieldTypeBoolean, false)

	for _, valid := range []string{"0", "1", "true", "false", "TRUE", "False"} {
		if errs := ValidateFieldValue(field, valid); len(errs) != 0 {
			t.Fatalf("expected %q to be a valid boolean, got %v", valid, errs)
		}
	}
	for _, invalid := range []string{"yes", "no", "2"} {
		if errs := ValidateFieldValue(field, invalid); len(errs) != 1 {
			t.Fatalf("expected %q to be rejected", invalid)
		}
	}
}

func TestValidateFieldValueText(t *testing.T) {
	field := makeField("notes", "Notes", models.FieldTypeTextarea, false)

	if errs := ValidateFieldValue(field, "any free text 任意文本"); len(errs) != 0 {
		t.Fatalf("expected text to pass, got %v", errs)
	}
}
