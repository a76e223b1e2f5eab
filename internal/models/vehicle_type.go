package models

// VehicleType 车辆类型 - 平台级全局参考数据，租户只读
type VehicleType struct {
	BaseModel
	Name        string `json:"name" gorm:"not null;size:100;index"`
	Description string `json:"description" gorm:"type:text"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
}

// TableName 表名
func (t *VehicleType) TableName() string {
	return "vehicle_types"
}
