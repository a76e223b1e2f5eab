package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"

	"gorm.io/gorm"
)

// VehicleTypeService 车辆类型服务。
// 车辆类型是平台级全局参考数据，租户只读；创建和维护走种子数据。
type VehicleTypeService struct {
	db      *gorm.DB
	catalog *FieldCatalogService
}

// NewVehicleTypeService 创建车辆类型服务实例
func NewVehicleTypeService(db *gorm.DB, catalog *FieldCatalogService) *VehicleTypeService {
	return &VehicleTypeService{db: db, catalog: catalog}
}

// List 获取所有启用的车辆类型，按名称排序
func (s *VehicleTypeService) List() ([]models.VehicleType, error) {
	var types []models.VehicleType
	err := s.db.Where("is_active = ?", true).Order("name").Find(&types).Error
	return types, err
}

// GetByID 获取单个车辆类型
func (s *VehicleTypeService) GetByID(id uint) (*models.VehicleType, error) {
	var vehicleType models.VehicleType
	err := s.db.First(&vehicleType, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &vehicleType, nil
}

// Fields 获取车辆类型的字段集。
// includeCustom为false时只返回默认字段。
func (s *VehicleTypeService) Fields(vehicleTypeID, tenantID uint, includeCustom bool) ([]models.VehicleTypeField, error) {
	if _, err := s.GetByID(vehicleTypeID); err != nil {
		return nil, err
	}

	if includeCustom {
		return s.catalog.ResolveFields(vehicleTypeID, tenantID, true)
	}

	var defaults []models.VehicleTypeField
	err := s.db.Where("vehicle_type_id = ? AND tenant_id IS NULL AND is_active = ?", vehicleTypeID, true).
		Order("sort_order").Order("name").
		Find(&defaults).Error
	return defaults, err
}
