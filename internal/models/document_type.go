package models

// DocumentType 文档类型。作用域三层结构与字段定义相同的模式：
// 全局（两者皆空）、按车辆类型（仅vehicle_type_id）、租户自定义（tenant_id）。
type DocumentType struct {
	BaseModel
	TenantID      *uint  `json:"tenant_id" gorm:"index"`
	VehicleTypeID *uint  `json:"vehicle_type_id" gorm:"index"`
	Name          string `json:"name" gorm:"not null;size:255"`
	Description   string `json:"description" gorm:"type:text"`
	IsRequired    bool   `json:"is_required" gorm:"default:false"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
}

// TableName 表名
func (d *DocumentType) TableName() string {
	return "document_types"
}

// IsGlobal 是否为全局文档类型
func (d *DocumentType) IsGlobal() bool {
	return d.TenantID == nil && d.VehicleTypeID == nil
}
