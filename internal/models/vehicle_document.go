package models

import (
	"time"
)

// VehicleDocument 车辆合规文档。文件本体存放在外部Blob存储，
// 这里只保存路径、大小、类型的契约信息和有效期。
type VehicleDocument struct {
	BaseModel
	VehicleID      uint       `json:"vehicle_id" gorm:"not null;index"`
	DocumentTypeID uint       `json:"document_type_id" gorm:"not null;index"`
	DocumentName   string     `json:"document_name" gorm:"not null;size:255"`
	DocumentNumber string     `json:"document_number" gorm:"size:100"`
	FilePath       string     `json:"file_path" gorm:"not null;size:500"`
	FileType       string     `json:"file_type" gorm:"size:100"`
	FileSize       int64      `json:"file_size"`
	IssueDate      *time.Time `json:"issue_date"`
	ExpiryDate     *time.Time `json:"expiry_date" gorm:"index"`
	IsExpired      bool       `json:"is_expired" gorm:"default:false"`

	Vehicle      Vehicle      `json:"-" gorm:"foreignKey:VehicleID"`
	DocumentType DocumentType `json:"document_type,omitempty" gorm:"foreignKey:DocumentTypeID"`
}

// TableName 表名
func (d *VehicleDocument) TableName() string {
	return "vehicle_documents"
}

// CheckExpired 根据有效期计算是否过期
func (d *VehicleDocument) CheckExpired(now time.Time) bool {
	if d.ExpiryDate == nil {
		return false
	}
	return d.ExpiryDate.Before(now)
}
