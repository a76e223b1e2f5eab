package models

import (
	"gorm.io/gorm"
)

// Vehicle 车辆模型。除状态和归属外不携带任何描述性属性，
// 名称、品牌、VIN等数据全部存放在动态字段值中。
type Vehicle struct {
	BaseModel
	TenantID      uint           `json:"tenant_id" gorm:"not null;index"`
	VehicleTypeID uint           `json:"vehicle_type_id" gorm:"not null;index"`
	Status        string         `json:"status" gorm:"not null;default:'active';size:20"`
	QRCodeToken   string         `json:"qr_code_token" gorm:"unique;not null;size:64"` // 创建时生成，不可变
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant      Tenant              `json:"-" gorm:"foreignKey:TenantID"`
	VehicleType VehicleType         `json:"vehicle_type,omitempty" gorm:"foreignKey:VehicleTypeID"`
	FieldValues []VehicleFieldValue `json:"field_values,omitempty" gorm:"foreignKey:VehicleID"`
}

// TableName 表名
func (v *Vehicle) TableName() string {
	return "vehicles"
}

// 车辆状态常量
const (
	VehicleStatusActive      = "active"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusInactive    = "inactive"
	VehicleStatusSold        = "sold"
)

// ValidVehicleStatuses 封闭的车辆状态枚举
var ValidVehicleStatuses = []string{
	VehicleStatusActive,
	VehicleStatusMaintenance,
	VehicleStatusInactive,
	VehicleStatusSold,
}

// IsValidVehicleStatus 判断车辆状态是否合法
func IsValidVehicleStatus(status string) bool {
	for _, s := range ValidVehicleStatuses {
		if s == status {
			return true
		}
	}
	return false
}
