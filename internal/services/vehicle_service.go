package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VehicleService 车辆服务。
// 负责车辆生命周期，并把字段值的校验与持久化编排为一个原子单元。
type VehicleService struct {
	db      *gorm.DB
	catalog *FieldCatalogService
}

// NewVehicleService 创建车辆服务实例
func NewVehicleService(db *gorm.DB, catalog *FieldCatalogService) *VehicleService {
	return &VehicleService{db: db, catalog: catalog}
}

// CreateVehicleInput 创建车辆参数
type CreateVehicleInput struct {
	VehicleTypeID uint              `json:"vehicle_type_id" binding:"required"`
	Status        string            `json:"status"`
	FieldValues   map[string]string `json:"field_values"`
}

// UpdateVehicleInput 更新车辆参数，nil表示不修改
type UpdateVehicleInput struct {
	VehicleTypeID *uint             `json:"vehicle_type_id"`
	Status        *string           `json:"status"`
	FieldValues   map[string]string `json:"field_values"`
}

// VehicleStats 车辆状态统计
type VehicleStats struct {
	Total       int64 `json:"total"`
	Active      int64 `json:"active"`
	Maintenance int64 `json:"maintenance"`
	Inactive    int64 `json:"inactive"`
	Sold        int64 `json:"sold"`
}

// newQRCodeToken 生成车辆的全局唯一公开查询令牌，创建后不可变
func newQRCodeToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Create 创建车辆及其字段值。
// 任一字段校验失败则整体失败，车辆行和字段值都不落库。
func (s *VehicleService) Create(tenantID uint, input *CreateVehicleInput) (*models.Vehicle, error) {
	status := input.Status
	if status == "" {
		status = models.VehicleStatusActive
	}
	if !models.IsValidVehicleStatus(status) {
		return nil, fmt.Errorf("非法的车辆状态: %s", status)
	}

	// 车辆类型必须存在且启用
	var vehicleType models.VehicleType
	err := s.db.Where("id = ? AND is_active = ?", input.VehicleTypeID, true).
		First(&vehicleType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}

	fields, err := s.catalog.ResolveFields(input.VehicleTypeID, tenantID, true)
	if err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		TenantID:      tenantID,
		VehicleTypeID: input.VehicleTypeID,
		Status:        status,
		QRCodeToken:   newQRCodeToken(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vehicle).Error; err != nil {
			return err
		}
		// 创建时必填字段缺失视同空值，进入校验并报错
		return s.saveFieldValues(tx, tenantID, vehicle, fields, input.FieldValues, true)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(tenantID, vehicle.ID)
}

// Update 更新车辆及其字段值，只处理patch中出现的key，原子性与创建相同
func (s *VehicleService) Update(tenantID, vehicleID uint, input *UpdateVehicleInput) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.Where("id = ? AND tenant_id = ?", vehicleID, tenantID).First(&vehicle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}

	if input.Status != nil {
		if !models.IsValidVehicleStatus(*input.Status) {
			return nil, fmt.Errorf("非法的车辆状态: %s", *input.Status)
		}
		vehicle.Status = *input.Status
	}
	if input.VehicleTypeID != nil {
		var vehicleType models.VehicleType
		err := s.db.Where("id = ? AND is_active = ?", *input.VehicleTypeID, true).
			First(&vehicleType).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrNotFound
			}
			return nil, err
		}
		vehicle.VehicleTypeID = *input.VehicleTypeID
	}

	fields, err := s.catalog.ResolveFields(vehicle.VehicleTypeID, tenantID, true)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&vehicle).Error; err != nil {
			return err
		}
		return s.saveFieldValues(tx, tenantID, &vehicle, fields, input.FieldValues, false)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(tenantID, vehicle.ID)
}

// saveFieldValues 校验并写入字段值。
// 按解析后的字段顺序遍历，未匹配任何字段的key静默忽略；
// 先收集全部错误再决定提交，保证错误列表完整。
// requireMissing为true时，必填字段未出现在patch中按空值处理。
func (s *VehicleService) saveFieldValues(tx *gorm.DB, tenantID uint, vehicle *models.Vehicle, fields []models.VehicleTypeField, values map[string]string, requireMissing bool) error {
	var fieldErrors errors.ValidationErrors
	type pending struct {
		fieldID uint
		value   string
	}
	var accepted []pending

	for i := range fields {
		field := &fields[i]
		raw, present := values[field.Key]
		if !present {
			if requireMissing && field.IsRequired {
				fieldErrors = append(fieldErrors, ValidateFieldValue(field, "")...)
			}
			continue
		}

		if errs := ValidateFieldValue(field, raw); len(errs) > 0 {
			fieldErrors = append(fieldErrors, errs...)
			continue
		}

		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}

		// 唯一字段在租户内查重，排除当前车辆自身
		if field.IsUnique {
			exists, err := s.uniqueValueExists(tx, tenantID, field.ID, value, vehicle.ID)
			if err != nil {
				return err
			}
			if exists {
				fieldErrors = append(fieldErrors, errors.FieldError{
					Key:     field.Key,
					Message: fmt.Sprintf("%s '%s' 已存在", field.Name, value),
				})
				continue
			}
		}

		accepted = append(accepted, pending{fieldID: field.ID, value: value})
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}

	for _, p := range accepted {
		fv := models.VehicleFieldValue{
			VehicleID:          vehicle.ID,
			VehicleTypeFieldID: p.fieldID,
			Value:              p.value,
		}
		// 单语句原子upsert，依赖(vehicle_id, field_id)唯一约束防并发重复
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vehicle_id"}, {Name: "vehicle_type_field_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&fv).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// uniqueValueExists 检查唯一字段值在租户内是否已被其他车辆使用
func (s *VehicleService) uniqueValueExists(tx *gorm.DB, tenantID, fieldID uint, value string, excludeVehicleID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.VehicleFieldValue{}).
		Joins("JOIN vehicles ON vehicles.id = vehicle_field_values.vehicle_id").
		Where("vehicles.tenant_id = ? AND vehicles.deleted_at IS NULL", tenantID).
		Where("vehicle_field_values.vehicle_type_field_id = ? AND vehicle_field_values.value = ?", fieldID, value).
		Where("vehicle_field_values.vehicle_id != ?", excludeVehicleID).
		Count(&count).Error
	return count > 0, err
}

// GetByID 获取车辆及其读取投影：类型名称加上带字段元数据的字段值
func (s *VehicleService) GetByID(tenantID, vehicleID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.Preload("VehicleType").Preload("FieldValues.Field").
		Where("id = ? AND tenant_id = ?", vehicleID, tenantID).
		First(&vehicle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// GetByToken 根据公开令牌获取车辆（公开访问，不校验租户）
func (s *VehicleService) GetByToken(token string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.Preload("VehicleType").Preload("FieldValues.Field").
		Where("qr_code_token = ?", token).
		First(&vehicle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// List 获取车辆列表
func (s *VehicleService) List(tenantID uint, page, pageSize int, filters map[string]interface{}) ([]models.Vehicle, int64, error) {
	query := s.db.Model(&models.Vehicle{}).Where("tenant_id = ?", tenantID)

	// 应用过滤条件
	if vehicleTypeID, ok := filters["vehicle_type_id"]; ok {
		query = query.Where("vehicle_type_id = ?", vehicleTypeID)
	}
	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if dateFrom, ok := filters["date_from"]; ok {
		query = query.Where("created_at >= ?", dateFrom)
	}
	if dateTo, ok := filters["date_to"]; ok {
		query = query.Where("created_at <= ?", dateTo)
	}
	// 名称搜索走name字段的EAV值
	if name, ok := filters["name"]; ok {
		nameFieldIDs := s.nameFieldIDs(tenantID)
		if len(nameFieldIDs) > 0 {
			sub := s.db.Model(&models.VehicleFieldValue{}).
				Select("vehicle_id").
				Where("vehicle_type_field_id IN ? AND value ILIKE ?", nameFieldIDs, "%"+name.(string)+"%")
			query = query.Where("id IN (?)", sub)
		} else {
			return nil, 0, nil
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	var vehicles []models.Vehicle
	err := query.Preload("VehicleType").Preload("FieldValues.Field").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

// ListPublic 公开车辆列表：排除已售车辆，供无需登录的展示页使用
func (s *VehicleService) ListPublic(tenantID uint, page, pageSize int) ([]models.Vehicle, int64, error) {
	query := s.db.Model(&models.Vehicle{}).
		Where("tenant_id = ? AND status <> ?", tenantID, models.VehicleStatusSold)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	var vehicles []models.Vehicle
	err := query.Preload("VehicleType").Preload("FieldValues.Field").
		Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

// nameFieldIDs 查找租户可见的name字段定义ID
func (s *VehicleService) nameFieldIDs(tenantID uint) []uint {
	var ids []uint
	s.db.Model(&models.VehicleTypeField{}).
		Where("key = ? AND is_active = ?", "name", true).
		Where("tenant_id IS NULL OR tenant_id = ?", tenantID).
		Pluck("id", &ids)
	return ids
}

// Delete 删除车辆并级联删除字段值和文档
func (s *VehicleService) Delete(tenantID, vehicleID uint) error {
	var vehicle models.Vehicle
	err := s.db.Where("id = ? AND tenant_id = ?", vehicleID, tenantID).First(&vehicle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ?", vehicleID).Delete(&models.VehicleFieldValue{}).Error; err != nil {
			return fmt.Errorf("删除车辆字段值失败: %v", err)
		}
		if err := tx.Where("vehicle_id = ?", vehicleID).Delete(&models.VehicleDocument{}).Error; err != nil {
			return fmt.Errorf("删除车辆文档失败: %v", err)
		}
		if err := tx.Delete(&vehicle).Error; err != nil {
			return fmt.Errorf("删除车辆失败: %v", err)
		}
		return nil
	})
}

// BulkDelete 批量删除车辆，只删除属于该租户的记录
func (s *VehicleService) BulkDelete(tenantID uint, ids []uint) (int64, error) {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var vehicles []models.Vehicle
		if err := tx.Where("id IN ? AND tenant_id = ?", ids, tenantID).Find(&vehicles).Error; err != nil {
			return err
		}
		for _, v := range vehicles {
			if err := tx.Where("vehicle_id = ?", v.ID).Delete(&models.VehicleFieldValue{}).Error; err != nil {
				return err
			}
			if err := tx.Where("vehicle_id = ?", v.ID).Delete(&models.VehicleDocument{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&v).Error; err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}

// Stats 车辆状态统计
func (s *VehicleService) Stats(tenantID uint, filters map[string]interface{}) (*VehicleStats, error) {
	base := s.db.Model(&models.Vehicle{}).Where("tenant_id = ?", tenantID)
	if vehicleTypeID, ok := filters["vehicle_type_id"]; ok {
		base = base.Where("vehicle_type_id = ?", vehicleTypeID)
	}

	stats := &VehicleStats{}
	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		status string
		dest   *int64
	}{
		{models.VehicleStatusActive, &stats.Active},
		{models.VehicleStatusMaintenance, &stats.Maintenance},
		{models.VehicleStatusInactive, &stats.Inactive},
		{models.VehicleStatusSold, &stats.Sold},
	}
	for _, c := range counts {
		if err := base.Session(&gorm.Session{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// AutocompleteNames 车辆名称自动补全
func (s *VehicleService) AutocompleteNames(tenantID uint, keyword string) ([]string, error) {
	if len(keyword) < 2 {
		return []string{}, nil
	}

	nameFieldIDs := s.nameFieldIDs(tenantID)
	if len(nameFieldIDs) == 0 {
		return []string{}, nil
	}

	var suggestions []string
	err := s.db.Model(&models.VehicleFieldValue{}).
		Joins("JOIN vehicles ON vehicles.id = vehicle_field_values.vehicle_id").
		Where("vehicles.tenant_id = ? AND vehicles.deleted_at IS NULL", tenantID).
		Where("vehicle_field_values.vehicle_type_field_id IN ?", nameFieldIDs).
		Where("vehicle_field_values.value ILIKE ?", "%"+keyword+"%").
		Distinct().
		Limit(10).
		Pluck("vehicle_field_values.value", &suggestions).Error
	if err != nil {
		return nil, err
	}

	return suggestions, nil
}
