package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"fmt"

	"gorm.io/gorm"
)

// DocumentTypeService 文档类型服务。
// 作用域三层结构与字段目录同一套模式：全局、按车辆类型、租户自定义。
type DocumentTypeService struct {
	db *gorm.DB
}

// NewDocumentTypeService 创建文档类型服务实例
func NewDocumentTypeService(db *gorm.DB) *DocumentTypeService {
	return &DocumentTypeService{db: db}
}

// DocumentTypeInput 自定义文档类型的创建参数
type DocumentTypeInput struct {
	Name          string `json:"name" binding:"required,max=255"`
	Description   string `json:"description"`
	VehicleTypeID *uint  `json:"vehicle_type_id"`
	IsRequired    bool   `json:"is_required"`
}

// List 列出租户可见的文档类型：全局 + 按车辆类型 + 本租户自定义
func (s *DocumentTypeService) List(tenantID uint, vehicleTypeID *uint) ([]models.DocumentType, error) {
	query := s.db.Model(&models.DocumentType{}).
		Where("is_active = ?", true).
		Where("tenant_id IS NULL OR tenant_id = ?", tenantID)
	if vehicleTypeID != nil {
		query = query.Where("vehicle_type_id IS NULL OR vehicle_type_id = ?", *vehicleTypeID)
	}

	var types []models.DocumentType
	err := query.Order("name").Find(&types).Error
	return types, err
}

// Create 为租户创建自定义文档类型
func (s *DocumentTypeService) Create(tenantID uint, input *DocumentTypeInput) (*models.DocumentType, error) {
	if input.VehicleTypeID != nil {
		var vehicleType models.VehicleType
		if err := s.db.First(&vehicleType, *input.VehicleTypeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrNotFound
			}
			return nil, err
		}
	}

	docType := &models.DocumentType{
		TenantID:      &tenantID,
		VehicleTypeID: input.VehicleTypeID,
		Name:          input.Name,
		Description:   input.Description,
		IsRequired:    input.IsRequired,
		IsActive:      true,
	}
	if err := s.db.Create(docType).Error; err != nil {
		return nil, err
	}
	return docType, nil
}

// findOwned 查找属于该租户的自定义文档类型，全局类型返回Forbidden
func (s *DocumentTypeService) findOwned(tenantID, id uint) (*models.DocumentType, error) {
	var docType models.DocumentType
	err := s.db.First(&docType, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	if docType.TenantID == nil {
		return nil, errors.ErrForbidden
	}
	if *docType.TenantID != tenantID {
		return nil, errors.ErrNotFound
	}
	return &docType, nil
}

// Update 更新租户自己的自定义文档类型
func (s *DocumentTypeService) Update(tenantID, id uint, input *DocumentTypeInput) (*models.DocumentType, error) {
	docType, err := s.findOwned(tenantID, id)
	if err != nil {
		return nil, err
	}

	docType.Name = input.Name
	docType.Description = input.Description
	docType.VehicleTypeID = input.VehicleTypeID
	docType.IsRequired = input.IsRequired

	if err := s.db.Save(docType).Error; err != nil {
		return nil, err
	}
	return docType, nil
}

// Delete 删除租户自己的自定义文档类型。
// 仍有文档引用时拒绝删除。
func (s *DocumentTypeService) Delete(tenantID, id uint) error {
	docType, err := s.findOwned(tenantID, id)
	if err != nil {
		return err
	}

	var docCount int64
	err = s.db.Model(&models.VehicleDocument{}).
		Where("document_type_id = ?", docType.ID).
		Count(&docCount).Error
	if err != nil {
		return err
	}
	if docCount > 0 {
		return fmt.Errorf("%w: 仍有 %d 份文档使用该类型，无法删除", errors.ErrForbidden, docCount)
	}

	return s.db.Delete(docType).Error
}
