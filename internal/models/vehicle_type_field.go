package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// VehicleTypeField 车辆类型的动态字段定义。
// 同一张表同时保存默认字段（tenant_id = NULL，所有租户可见）
// 和自定义字段（tenant_id = 租户ID，仅该租户可见）。
type VehicleTypeField struct {
	BaseModel
	VehicleTypeID uint           `json:"vehicle_type_id" gorm:"not null;uniqueIndex:uniq_type_tenant_key;index:idx_field_lookup"`
	TenantID      *uint          `json:"tenant_id" gorm:"uniqueIndex:uniq_type_tenant_key;index:idx_field_lookup"`
	Name          string         `json:"name" gorm:"not null;size:255"`
	Key           string         `json:"key" gorm:"not null;size:255;uniqueIndex:uniq_type_tenant_key"`
	FieldType     string         `json:"field_type" gorm:"not null;default:'text';size:20"`
	Unit          string         `json:"unit" gorm:"size:50"`
	Options       datatypes.JSON `json:"options" gorm:"type:json"` // select类型的选项列表，保序
	IsRequired    bool           `json:"is_required" gorm:"default:false"`
	IsUnique      bool           `json:"is_unique" gorm:"default:false"` // 租户内字段值唯一（如车牌号、VIN）
	IsActive      bool           `json:"is_active" gorm:"default:true;index:idx_field_lookup"`
	SortOrder     int            `json:"sort_order" gorm:"default:0;index:idx_field_lookup"`
	Description   string         `json:"description" gorm:"type:text"`

	VehicleType VehicleType `json:"vehicle_type,omitempty" gorm:"foreignKey:VehicleTypeID"`
}

// TableName 表名
func (f *VehicleTypeField) TableName() string {
	return "vehicle_type_fields"
}

// 字段值类型常量
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeBoolean  = "boolean"
	FieldTypeTextarea = "textarea"
)

// ValidFieldTypes 封闭的字段类型枚举
var ValidFieldTypes = []string{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeSelect,
	FieldTypeBoolean,
	FieldTypeTextarea,
}

// IsValidFieldType 判断字段类型是否合法
func IsValidFieldType(fieldType string) bool {
	for _, t := range ValidFieldTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}

// IsDefault 是否为默认字段
func (f *VehicleTypeField) IsDefault() bool {
	return f.TenantID == nil
}

// IsCustom 是否为租户自定义字段
func (f *VehicleTypeField) IsCustom() bool {
	return f.TenantID != nil
}

// OptionList 解析select类型的选项列表，保持存储顺序
func (f *VehicleTypeField) OptionList() []string {
	if len(f.Options) == 0 {
		return nil
	}
	var options []string
	if err := json.Unmarshal(f.Options, &options); err != nil {
		return nil
	}
	return options
}

// SetOptions 序列化选项列表
func (f *VehicleTypeField) SetOptions(options []string) error {
	if options == nil {
		f.Options = nil
		return nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return err
	}
	f.Options = datatypes.JSON(data)
	return nil
}
