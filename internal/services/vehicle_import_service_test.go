package services

import (
	stderrors "errors"
	"strings"
	"testing"

	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
)

// importTestFields 批量导入测试用的字段集
func importTestFields() []models.VehicleTypeField {
	name := models.VehicleTypeField{Name: "Name", Key: "name", FieldType: models.FieldTypeText, IsRequired: true}
	name.ID = 1
	plate := models.VehicleTypeField{Name: "License Plate", Key: "license_plate", FieldType: models.FieldTypeText, IsUnique: true}
	plate.ID = 2
	mileage := models.VehicleTypeField{Name: "Mileage", Key: "mileage", FieldType: models.FieldTypeNumber}
	mileage.ID = 3
	return []models.VehicleTypeField{name, plate, mileage}
}

// importTestGrid 构造符合模板布局的表格：表头+3个说明行，数据从第5行开始
func importTestGrid(dataRows ...[]string) [][]string {
	grid := [][]string{
		{"Name *", "License Plate", "Mileage"},
		{"Ford F-150 XLT", "ABC-1234", "12345"},
		{"text（必填）", "text", "number"},
		{"Ford F-150 XLT", "ABC-1234", "15000"},
	}
	return append(grid, dataRows...)
}

func TestParseCSVGrid(t *testing.T) {
	grid, err := ParseCSVGrid(strings.NewReader("a,b\nc,d\n"))
	if err != nil {
		t.Fatalf("ParseCSVGrid: %v", err)
	}
	if len(grid) != 2 || grid[1][1] != "d" {
		t.Fatalf("unexpected grid: %v", grid)
	}

	if _, err := ParseCSVGrid(strings.NewReader("")); err == nil {
		t.Fatalf("expected empty file to be rejected")
	}
}

func TestMapHeaderColumns(t *testing.T) {
	fields := importTestFields()

	// 星号和大小写都不影响匹配，未知列被忽略
	headers := []string{"name *", "LICENSE PLATE", "Unknown Column", "mileage"}
	bindings := mapHeaderColumns(headers, fields)
	if len(bindings) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(bindings))
	}
	if bindings[0].column != 0 || bindings[0].field.Key != "name" {
		t.Fatalf("unexpected first binding: %+v", bindings[0])
	}
	if bindings[2].column != 3 || bindings[2].field.Key != "mileage" {
		t.Fatalf("unexpected last binding: %+v", bindings[2])
	}
}

func TestValidateGridRowsRowNumbers(t *testing.T) {
	fields := importTestFields()
	grid := importTestGrid(
		[]string{"Truck A", "AA-1111", "1000"},
		[]string{"", "", ""}, // 空行跳过
		[]string{"  Truck B  ", "BB-2222", "2000"},
	)

	results, err := validateGridRows(grid, fields, nil, nil)
	if err != nil {
		t.Fatalf("validateGridRows: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rows (blank skipped), got %d", len(results))
	}
	// 行号是文件中的1基位置，第一个数据行是第5行
	if results[0].RowNumber != 5 || results[1].RowNumber != 7 {
		t.Fatalf("unexpected row numbers: %d, %d", results[0].RowNumber, results[1].RowNumber)
	}
	for _, r := range results {
		if !r.IsValid {
			t.Fatalf("row %d: unexpected errors %v", r.RowNumber, r.Errors)
		}
	}
	// 单元格首尾空白统一剥除
	if results[1].Data["name"] != "Truck B" {
		t.Fatalf("unexpected mapped data: %v", results[1].Data)
	}
}

func TestValidateGridRowsCollectsAllErrors(t *testing.T) {
	fields := importTestFields()
	grid := importTestGrid(
		[]string{"", "AA-1111", "not-a-number"},
	)

	results, err := validateGridRows(grid, fields, nil, nil)
	if err != nil {
		t.Fatalf("validateGridRows: %v", err)
	}
	if len(results) != 1 || results[0].IsValid {
		t.Fatalf("expected one invalid row")
	}
	// 必填缺失和数字格式错误都要报出来
	if len(results[0].Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", results[0].Errors)
	}
}

func TestValidateGridRowsOverrides(t *testing.T) {
	fields := importTestFields()
	grid := importTestGrid(
		[]string{"Truck A", "AA-1111", "bad"},
	)

	// 不带覆盖时第5行非法
	results, err := validateGridRows(grid, fields, nil, nil)
	if err != nil {
		t.Fatalf("validateGridRows: %v", err)
	}
	if results[0].IsValid {
		t.Fatalf("expected row to be invalid before override")
	}

	// 覆盖修正后整行变合法
	overrides := map[int]map[string]string{
		5: {"mileage": "3000"},
	}
	results, err = validateGridRows(grid, fields, overrides, nil)
	if err != nil {
		t.Fatalf("validateGridRows with overrides: %v", err)
	}
	if !results[0].IsValid {
		t.Fatalf("expected override to fix row, got %v", results[0].Errors)
	}
	if results[0].Data["mileage"] != "3000" {
		t.Fatalf("expected override value in data, got %q", results[0].Data["mileage"])
	}
}

func TestValidateGridRowsMissingRequiredColumn(t *testing.T) {
	fields := importTestFields()
	// 表头里没有必填的Name列
	grid := [][]string{
		{"License Plate", "Mileage"},
		{"ABC-1234", "12345"},
		{"text", "number"},
		{"ABC-1234", "15000"},
		{"AA-1111", "1000"},
		{"BB-2222", "2000"},
	}

	results, err := validateGridRows(grid, fields, nil, nil)
	if err != nil {
		t.Fatalf("validateGridRows: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(results))
	}
	// 每一行都要报缺列
	for _, r := range results {
		if r.IsValid {
			t.Fatalf("row %d: expected missing column error", r.RowNumber)
		}
		found := false
		for _, e := range r.Errors {
			if e.Key == "name" {
				found = true
			}
		}
		if !found {
			t.Fatalf("row %d: expected error keyed to missing field, got %v", r.RowNumber, r.Errors)
		}
	}
}

func TestValidateGridRowsUniqueCheck(t *testing.T) {
	fields := importTestFields()
	grid := importTestGrid(
		[]string{"Truck A", "DUP-0001", "1000"},
		[]string{"Truck B", "NEW-0002", "2000"},
	)

	checker := func(fieldID uint, value string) (bool, error) {
		return fieldID == 2 && value == "DUP-0001", nil
	}

	results, err := validateGridRows(grid, fields, nil, checker)
	if err != nil {
		t.Fatalf("validateGridRows: %v", err)
	}
	if results[0].IsValid {
		t.Fatalf("expected duplicate plate to be rejected")
	}
	if !results[1].IsValid {
		t.Fatalf("expected unique plate to pass, got %v", results[1].Errors)
	}
}

func TestValidateGridRowsIntraBatchDuplicate(t *testing.T) {
	fields := importTestFields()
	grid := importTestGrid(
		[]string{"Truck A", "SAME-0001", "1000"},
		[]string{"Truck B", "SAME-0001", "2000"},
		[]string{"Truck C", "CC-3333", "3000"},
	)

	// 数据库查重为空，重复只存在于本批内
	checker := func(fieldID uint, value string) (bool, error) {
		return false, nil
	}

	results, err := validateGridRows(grid, fields, nil, checker)
	if err != nil {
		t.Fatalf("validateGridRows: %v", err)
	}
	if !results[0].IsValid {
		t.Fatalf("expected first occurrence to pass, got %v", results[0].Errors)
	}
	if results[1].IsValid {
		t.Fatalf("expected second occurrence of duplicate unique value to be rejected")
	}
	if results[1].Errors[0].Key != "license_plate" {
		t.Fatalf("expected error keyed to unique field, got %v", results[1].Errors)
	}
	// 错误消息指向首次出现的行号（第5行）
	if !strings.Contains(results[1].Errors[0].Message, "第5行") {
		t.Fatalf("expected message to reference first occurrence row, got %q", results[1].Errors[0].Message)
	}
	if !results[2].IsValid {
		t.Fatalf("expected distinct value to pass, got %v", results[2].Errors)
	}

	// 不提供查重钩子时批内重复同样要被发现（预览路径）
	results, err = validateGridRows(grid, fields, nil, nil)
	if err != nil {
		t.Fatalf("validateGridRows without checker: %v", err)
	}
	if results[1].IsValid {
		t.Fatalf("expected intra-batch duplicate to be caught without a checker")
	}
}

func TestValidateGridRowsEmptyGrid(t *testing.T) {
	_, err := validateGridRows(nil, importTestFields(), nil, nil)
	if err == nil {
		t.Fatalf("expected error for empty grid")
	}

	if !stderrors.Is(err, errors.ErrMalformedUpload) {
		t.Fatalf("expected malformed upload error, got %v", err)
	}
}
