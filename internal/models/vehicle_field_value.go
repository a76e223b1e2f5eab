package models

// VehicleFieldValue 车辆字段值（EAV行），每辆车每个字段至多一行。
// 值统一以文本存储，语义类型在读取时由关联字段定义的field_type决定。
type VehicleFieldValue struct {
	BaseModel
	VehicleID          uint   `json:"vehicle_id" gorm:"not null;uniqueIndex:uniq_vehicle_field"`
	VehicleTypeFieldID uint   `json:"vehicle_type_field_id" gorm:"not null;uniqueIndex:uniq_vehicle_field;index"`
	Value              string `json:"value" gorm:"type:text"`

	Field VehicleTypeField `json:"field,omitempty" gorm:"foreignKey:VehicleTypeFieldID"`
}

// TableName 表名
func (v *VehicleFieldValue) TableName() string {
	return "vehicle_field_values"
}
