package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"time"

	"gorm.io/gorm"
)

// VehicleDocumentService 车辆合规文档服务。
// 文件本体由外部Blob存储管理，这里只维护路径/大小/类型契约和有效期。
type VehicleDocumentService struct {
	db *gorm.DB
}

// NewVehicleDocumentService 创建车辆文档服务实例
func NewVehicleDocumentService(db *gorm.DB) *VehicleDocumentService {
	return &VehicleDocumentService{db: db}
}

// VehicleDocumentInput 文档录入参数
type VehicleDocumentInput struct {
	DocumentTypeID uint       `json:"document_type_id" binding:"required"`
	DocumentName   string     `json:"document_name" binding:"required,max=255"`
	DocumentNumber string     `json:"document_number" binding:"max=100"`
	FilePath       string     `json:"file_path" binding:"required,max=500"`
	FileType       string     `json:"file_type" binding:"max=100"`
	FileSize       int64      `json:"file_size"`
	IssueDate      *time.Time `json:"issue_date"`
	ExpiryDate     *time.Time `json:"expiry_date"`
}

// findVehicle 确认车辆存在且属于该租户
func (s *VehicleDocumentService) findVehicle(tenantID, vehicleID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.Where("id = ? AND tenant_id = ?", vehicleID, tenantID).First(&vehicle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// List 列出车辆的全部文档
func (s *VehicleDocumentService) List(tenantID, vehicleID uint) ([]models.VehicleDocument, error) {
	if _, err := s.findVehicle(tenantID, vehicleID); err != nil {
		return nil, err
	}

	var docs []models.VehicleDocument
	err := s.db.Preload("DocumentType").
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// Create 为车辆录入文档
func (s *VehicleDocumentService) Create(tenantID, vehicleID uint, input *VehicleDocumentInput) (*models.VehicleDocument, error) {
	if _, err := s.findVehicle(tenantID, vehicleID); err != nil {
		return nil, err
	}

	// 文档类型必须对该租户可见
	var docType models.DocumentType
	err := s.db.Where("id = ? AND (tenant_id IS NULL OR tenant_id = ?)", input.DocumentTypeID, tenantID).
		First(&docType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}

	doc := &models.VehicleDocument{
		VehicleID:      vehicleID,
		DocumentTypeID: input.DocumentTypeID,
		DocumentName:   input.DocumentName,
		DocumentNumber: input.DocumentNumber,
		FilePath:       input.FilePath,
		FileType:       input.FileType,
		FileSize:       input.FileSize,
		IssueDate:      input.IssueDate,
		ExpiryDate:     input.ExpiryDate,
	}
	doc.IsExpired = doc.CheckExpired(time.Now())

	if err := s.db.Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// Update 更新文档信息
func (s *VehicleDocumentService) Update(tenantID, vehicleID, docID uint, input *VehicleDocumentInput) (*models.VehicleDocument, error) {
	if _, err := s.findVehicle(tenantID, vehicleID); err != nil {
		return nil, err
	}

	var doc models.VehicleDocument
	err := s.db.Where("id = ? AND vehicle_id = ?", docID, vehicleID).First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}

	doc.DocumentTypeID = input.DocumentTypeID
	doc.DocumentName = input.DocumentName
	doc.DocumentNumber = input.DocumentNumber
	doc.FilePath = input.FilePath
	doc.FileType = input.FileType
	doc.FileSize = input.FileSize
	doc.IssueDate = input.IssueDate
	doc.ExpiryDate = input.ExpiryDate
	doc.IsExpired = doc.CheckExpired(time.Now())

	if err := s.db.Save(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// Delete 删除文档记录（Blob存储中的文件由调用方另行清理）
func (s *VehicleDocumentService) Delete(tenantID, vehicleID, docID uint) error {
	if _, err := s.findVehicle(tenantID, vehicleID); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND vehicle_id = ?", docID, vehicleID).
		Delete(&models.VehicleDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// ListExpiring 列出租户即将过期的文档
func (s *VehicleDocumentService) ListExpiring(tenantID uint, within time.Duration) ([]models.VehicleDocument, error) {
	deadline := time.Now().Add(within)

	var docs []models.VehicleDocument
	err := s.db.Preload("DocumentType").
		Joins("JOIN vehicles ON vehicles.id = vehicle_documents.vehicle_id").
		Where("vehicles.tenant_id = ? AND vehicles.deleted_at IS NULL", tenantID).
		Where("vehicle_documents.expiry_date IS NOT NULL AND vehicle_documents.expiry_date <= ?", deadline).
		Order("vehicle_documents.expiry_date").
		Find(&docs).Error
	return docs, err
}

// MarkExpired 把有效期已过的文档标记为过期，返回更新条数
func (s *VehicleDocumentService) MarkExpired(now time.Time) (int64, error) {
	result := s.db.Model(&models.VehicleDocument{}).
		Where("is_expired = ? AND expiry_date IS NOT NULL AND expiry_date < ?", false, now).
		Update("is_expired", true)
	return result.RowsAffected, result.Error
}
