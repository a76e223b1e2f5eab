package services

import (
	"bytes"
	"encoding/csv"
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// TemplateService 导入模板生成服务。
// 只读字段目录，不产生任何持久化副作用。
type TemplateService struct {
	db      *gorm.DB
	catalog *FieldCatalogService
}

// NewTemplateService 创建模板生成服务实例
func NewTemplateService(db *gorm.DB, catalog *FieldCatalogService) *TemplateService {
	return &TemplateService{db: db, catalog: catalog}
}

// 常见字段key的演示值查找表
var demoValues = map[string]string{
	"name":           "Ford F-150 XLT",
	"license_plate":  "ABC-1234",
	"vin":            "1FTFW1E84MFC12345",
	"model":          "F-150",
	"make":           "Ford",
	"year":           "2023",
	"color":          "Blue",
	"mileage":        "15000",
	"purchase_date":  "2023-01-15",
	"purchase_price": "45000",
}

// GenerateTemplate 为车辆类型生成导入模板表格。
// 每个解析出的字段一列，列序与字段目录一致（sort_order、name）；
// 第1行为带必填星号的标签，第2-4行为示例值、说明和演示数据。
func (s *TemplateService) GenerateTemplate(vehicleTypeID, tenantID uint) (string, [][]string, error) {
	var vehicleType models.VehicleType
	err := s.db.Where("id = ? AND is_active = ?", vehicleTypeID, true).First(&vehicleType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, errors.ErrNotFound
		}
		return "", nil, err
	}

	fields, err := s.catalog.ResolveFields(vehicleTypeID, tenantID, true)
	if err != nil {
		return "", nil, err
	}

	labels := make([]string, 0, len(fields))
	examples := make([]string, 0, len(fields))
	descriptions := make([]string, 0, len(fields))
	demos := make([]string, 0, len(fields))

	for i := range fields {
		field := &fields[i]

		label := field.Name
		if field.IsRequired {
			label += " *"
		}
		labels = append(labels, label)

		example := exampleValue(field)
		examples = append(examples, example)

		description := field.Description
		if description == "" {
			description = fieldDescription(field)
		}
		descriptions = append(descriptions, description)

		demo, ok := demoValues[strings.ToLower(field.Key)]
		if !ok {
			demo = example
		}
		demos = append(demos, demo)
	}

	grid := [][]string{labels, examples, descriptions, demos}
	fileName := strings.ReplaceAll(vehicleType.Name, " ", "_") + "_import_template.csv"

	return fileName, grid, nil
}

// WriteCSV 把表格序列化成CSV字节流，供下载
func (s *TemplateService) WriteCSV(grid [][]string) ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	for _, row := range grid {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// exampleValue 按字段类型生成示例字面量；有选项列表时优先取第一个选项
func exampleValue(field *models.VehicleTypeField) string {
	if options := field.OptionList(); len(options) > 0 {
		return options[0]
	}

	switch field.FieldType {
	case models.FieldTypeNumber:
		return "12345"
	case models.FieldTypeDate:
		return "2024-01-15"
	case models.FieldTypeBoolean:
		return "1"
	default:
		return "Example Value"
	}
}

// fieldDescription 拼装字段的人读说明：类型、必填性和选项列表
func fieldDescription(field *models.VehicleTypeField) string {
	desc := field.FieldType
	if field.IsRequired {
		desc += "（必填）"
	}
	if options := field.OptionList(); len(options) > 0 {
		desc += fmt.Sprintf(" - 可选值: %s", strings.Join(options, ", "))
	}
	if field.Unit != "" {
		desc += fmt.Sprintf("，单位: %s", field.Unit)
	}
	return desc
}
