package services

import (
	"encoding/csv"
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"
)

// 表格约定：第1行为表头，第2-4行为示例/说明/演示行，数据从第5行开始
const importDataStartIndex = 4

// VehicleImportService 批量导入服务。
// 把外部制作的表格文件与字段目录对账，分preview（只读）和import（落库）两段。
type VehicleImportService struct {
	db      *gorm.DB
	catalog *FieldCatalogService
	maxRows int
}

// NewVehicleImportService 创建批量导入服务实例
func NewVehicleImportService(db *gorm.DB, catalog *FieldCatalogService, maxRows int) *VehicleImportService {
	return &VehicleImportService{db: db, catalog: catalog, maxRows: maxRows}
}

// ImportRowResult 单行的解析与校验结果，行号为文件中的1基位置
type ImportRowResult struct {
	RowNumber int                     `json:"row_number"`
	Data      map[string]string       `json:"data"`
	Errors    errors.ValidationErrors `json:"errors"`
	IsValid   bool                    `json:"is_valid"`
}

// ImportPreview 预览结果
type ImportPreview struct {
	TotalRows   int               `json:"total_rows"`
	ValidRows   int               `json:"valid_rows"`
	InvalidRows int               `json:"invalid_rows"`
	Rows        []ImportRowResult `json:"rows"`
}

// RowOverride 预览后用户在界面上修正的行数据
type RowOverride struct {
	RowNumber int               `json:"row_number" binding:"required"`
	Data      map[string]string `json:"data" binding:"required"`
}

// UniqueValueChecker 唯一字段的查重钩子，返回值是否已存在
type UniqueValueChecker func(fieldID uint, value string) (bool, error)

// ParseCSVGrid 把CSV文件读成二维字符串表格
func ParseCSVGrid(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedUpload, err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: 文件为空", errors.ErrMalformedUpload)
	}
	return grid, nil
}

// columnBinding 列号到字段定义的绑定
type columnBinding struct {
	column int
	field  *models.VehicleTypeField
}

// mapHeaderColumns 按清洗后的表头（去掉必填星号、忽略大小写）
// 精确匹配字段显示名，建立列到字段的映射；匹配不上的列被忽略。
func mapHeaderColumns(headers []string, fields []models.VehicleTypeField) []columnBinding {
	var bindings []columnBinding
	for col, header := range headers {
		clean := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(header, "*", "")))
		if clean == "" {
			continue
		}
		for i := range fields {
			name := fields[i].Name
			if name == "" {
				name = fields[i].Key
			}
			if strings.ToLower(name) == clean {
				bindings = append(bindings, columnBinding{column: col, field: &fields[i]})
				break
			}
		}
	}
	return bindings
}

// isBlankRow 是否为全空行
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// validateGridRows 对每个非空数据行做字段映射、逐格校验和必填列缺失检查。
// overrides按行号覆盖对应单元格的值；checkUnique为nil时只查批内重复，
// 不查已落库的数据。唯一字段在批内出现重复值时，后出现的行报错并指向
// 首次出现的行号。与存储的耦合全部收在钩子里，函数本身可脱离数据库测试。
func validateGridRows(grid [][]string, fields []models.VehicleTypeField, overrides map[int]map[string]string, checkUnique UniqueValueChecker) ([]ImportRowResult, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: 缺少表头行", errors.ErrMalformedUpload)
	}

	bindings := mapHeaderColumns(grid[0], fields)

	// 上传文件中完全没有出现的必填字段，每一行都要报缺失
	mappedKeys := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		mappedKeys[b.field.Key] = true
	}
	var missingRequired []*models.VehicleTypeField
	for i := range fields {
		if fields[i].IsRequired && !mappedKeys[fields[i].Key] {
			missingRequired = append(missingRequired, &fields[i])
		}
	}

	// 唯一字段在本批内已出现过的值：字段ID -> 值 -> 首次出现行号
	seenUnique := make(map[uint]map[string]int)

	var results []ImportRowResult
	for i := importDataStartIndex; i < len(grid); i++ {
		row := grid[i]
		if isBlankRow(row) {
			continue
		}

		rowNumber := i + 1
		rowOverride := overrides[rowNumber]

		data := make(map[string]string)
		var rowErrors errors.ValidationErrors

		for _, b := range bindings {
			value := ""
			if b.column < len(row) {
				value = strings.TrimSpace(row[b.column])
			}
			if rowOverride != nil {
				if edited, ok := rowOverride[b.field.Key]; ok {
					value = strings.TrimSpace(edited)
				}
			}
			data[b.field.Key] = value

			if errs := ValidateFieldValue(b.field, value); len(errs) > 0 {
				rowErrors = append(rowErrors, errs...)
				continue
			}

			if value != "" && b.field.IsUnique {
				if seenUnique[b.field.ID] == nil {
					seenUnique[b.field.ID] = make(map[string]int)
				}
				if firstRow, dup := seenUnique[b.field.ID][value]; dup {
					rowErrors = append(rowErrors, errors.FieldError{
						Key:     b.field.Key,
						Message: fmt.Sprintf("%s '%s' 与第%d行重复", b.field.Name, value, firstRow),
					})
					continue
				}
				seenUnique[b.field.ID][value] = rowNumber

				if checkUnique != nil {
					exists, err := checkUnique(b.field.ID, value)
					if err != nil {
						return nil, err
					}
					if exists {
						rowErrors = append(rowErrors, errors.FieldError{
							Key:     b.field.Key,
							Message: fmt.Sprintf("%s '%s' 已存在", b.field.Name, value),
						})
					}
				}
			}
		}

		for _, f := range missingRequired {
			rowErrors = append(rowErrors, errors.FieldError{
				Key:     f.Key,
				Message: fmt.Sprintf("%s 为必填项，但上传文件中缺少该列", f.Name),
			})
		}

		results = append(results, ImportRowResult{
			RowNumber: rowNumber,
			Data:      data,
			Errors:    rowErrors,
			IsValid:   len(rowErrors) == 0,
		})
	}

	return results, nil
}

// uniqueChecker 构造基于数据库的唯一字段查重钩子
func (s *VehicleImportService) uniqueChecker(tenantID uint) UniqueValueChecker {
	return func(fieldID uint, value string) (bool, error) {
		var count int64
		err := s.db.Model(&models.VehicleFieldValue{}).
			Joins("JOIN vehicles ON vehicles.id = vehicle_field_values.vehicle_id").
			Where("vehicles.tenant_id = ? AND vehicles.deleted_at IS NULL", tenantID).
			Where("vehicle_field_values.vehicle_type_field_id = ? AND vehicle_field_values.value = ?", fieldID, value).
			Count(&count).Error
		return count > 0, err
	}
}

// resolveImportFields 校验车辆类型并解析字段集
func (s *VehicleImportService) resolveImportFields(vehicleTypeID, tenantID uint) ([]models.VehicleTypeField, error) {
	var vehicleType models.VehicleType
	err := s.db.Where("id = ? AND is_active = ?", vehicleTypeID, true).First(&vehicleType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return s.catalog.ResolveFields(vehicleTypeID, tenantID, true)
}

// Preview 预览导入数据。只读操作，可对同一份上传反复调用。
func (s *VehicleImportService) Preview(grid [][]string, vehicleTypeID, tenantID uint, page, pageSize int) (*ImportPreview, error) {
	fields, err := s.resolveImportFields(vehicleTypeID, tenantID)
	if err != nil {
		return nil, err
	}

	results, err := validateGridRows(grid, fields, nil, s.uniqueChecker(tenantID))
	if err != nil {
		return nil, err
	}

	preview := &ImportPreview{TotalRows: len(results)}
	for _, r := range results {
		if r.IsValid {
			preview.ValidRows++
		} else {
			preview.InvalidRows++
		}
	}

	// 切片分页
	offset := (page - 1) * pageSize
	if offset >= len(results) {
		preview.Rows = []ImportRowResult{}
		return preview, nil
	}
	end := offset + pageSize
	if end > len(results) {
		end = len(results)
	}
	preview.Rows = results[offset:end]

	return preview, nil
}

// Import 执行批量导入。
// 应用行覆盖后重新做完整校验，任何一行仍有错误则整批中止、零车辆落库；
// 全部通过时在单个事务内为每行创建车辆（状态默认active）及其字段值。
func (s *VehicleImportService) Import(grid [][]string, vehicleTypeID, tenantID uint, overrides []RowOverride) (int, error) {
	fields, err := s.resolveImportFields(vehicleTypeID, tenantID)
	if err != nil {
		return 0, err
	}

	overrideMap := make(map[int]map[string]string, len(overrides))
	for _, o := range overrides {
		overrideMap[o.RowNumber] = o.Data
	}

	results, err := validateGridRows(grid, fields, overrideMap, s.uniqueChecker(tenantID))
	if err != nil {
		return 0, err
	}

	if len(results) == 0 {
		return 0, fmt.Errorf("%w: 没有可导入的数据行", errors.ErrMalformedUpload)
	}
	if s.maxRows > 0 && len(results) > s.maxRows {
		return 0, fmt.Errorf("单次最多导入 %d 行，当前 %d 行", s.maxRows, len(results))
	}

	// 整批校验：错误消息带上行号，便于界面定位
	var batchErrors errors.ValidationErrors
	for _, r := range results {
		for _, e := range r.Errors {
			batchErrors = append(batchErrors, errors.FieldError{
				Key:     e.Key,
				Message: fmt.Sprintf("第%d行: %s", r.RowNumber, e.Message),
			})
		}
	}
	if len(batchErrors) > 0 {
		return 0, batchErrors
	}

	fieldByKey := make(map[string]*models.VehicleTypeField, len(fields))
	for i := range fields {
		fieldByKey[fields[i].Key] = &fields[i]
	}

	imported := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			vehicle := &models.Vehicle{
				TenantID:      tenantID,
				VehicleTypeID: vehicleTypeID,
				Status:        models.VehicleStatusActive,
				QRCodeToken:   newQRCodeToken(),
			}
			if err := tx.Create(vehicle).Error; err != nil {
				return fmt.Errorf("第%d行: 创建车辆失败 - %v", r.RowNumber, err)
			}

			for key, value := range r.Data {
				if value == "" {
					continue
				}
				field, ok := fieldByKey[key]
				if !ok {
					continue
				}
				fv := models.VehicleFieldValue{
					VehicleID:          vehicle.ID,
					VehicleTypeFieldID: field.ID,
					Value:              value,
				}
				if err := tx.Create(&fv).Error; err != nil {
					return fmt.Errorf("第%d行: 保存字段值失败 - %v", r.RowNumber, err)
				}
			}

			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return imported, nil
}
