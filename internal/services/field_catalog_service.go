package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/cache"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/logger"
	"fmt"
	"regexp"
	"sort"

	"gorm.io/gorm"
)

// 字段key的合法格式：小写字母、数字、下划线
var fieldKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// FieldCatalogService 字段目录服务。
// 负责解析(车辆类型, 租户)对可见的有效字段集，以及自定义字段的CRUD。
type FieldCatalogService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewFieldCatalogService 创建字段目录服务实例
func NewFieldCatalogService(db *gorm.DB, cache *cache.RedisCache) *FieldCatalogService {
	return &FieldCatalogService{db: db, cache: cache}
}

// CustomFieldInput 自定义字段的创建参数
type CustomFieldInput struct {
	VehicleTypeID uint     `json:"vehicle_type_id" binding:"required"`
	Name          string   `json:"name" binding:"required,max=255"`
	Key           string   `json:"key" binding:"required,max=255"`
	FieldType     string   `json:"field_type" binding:"required,fieldtype"`
	Unit          string   `json:"unit" binding:"max=50"`
	Options       []string `json:"options"`
	IsRequired    bool     `json:"is_required"`
	IsUnique      bool     `json:"is_unique"`
	IsActive      *bool    `json:"is_active"`
	SortOrder     *int     `json:"sort_order"`
	Description   string   `json:"description"`
}

// CustomFieldPatch 自定义字段的更新参数，nil表示不修改
type CustomFieldPatch struct {
	Name        *string   `json:"name" binding:"omitempty,max=255"`
	Key         *string   `json:"key" binding:"omitempty,max=255"`
	FieldType   *string   `json:"field_type" binding:"omitempty,fieldtype"`
	Unit        *string   `json:"unit" binding:"omitempty,max=50"`
	Options     *[]string `json:"options"`
	IsRequired  *bool     `json:"is_required"`
	IsUnique    *bool     `json:"is_unique"`
	IsActive    *bool     `json:"is_active"`
	SortOrder   *int      `json:"sort_order"`
	Description *string   `json:"description"`
}

// MergeFieldSets 合并默认字段与租户自定义字段，
// 按sort_order、name排序，结果稳定且确定。
// 两层覆盖规则作为独立函数实现，便于脱离存储单测。
func MergeFieldSets(defaults, customs []models.VehicleTypeField) []models.VehicleTypeField {
	merged := make([]models.VehicleTypeField, 0, len(defaults)+len(customs))
	merged = append(merged, defaults...)
	merged = append(merged, customs...)

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].SortOrder != merged[j].SortOrder {
			return merged[i].SortOrder < merged[j].SortOrder
		}
		return merged[i].Name < merged[j].Name
	})

	return merged
}

// ResolveFields 解析(车辆类型, 租户)对可见的有效字段集：
// 默认字段（tenant_id为空）加上该租户的自定义字段。
func (s *FieldCatalogService) ResolveFields(vehicleTypeID, tenantID uint, activeOnly bool) ([]models.VehicleTypeField, error) {
	cacheKey := fmt.Sprintf("fields:%d:%d:%t", vehicleTypeID, tenantID, activeOnly)
	if s.cache != nil {
		var cached []models.VehicleTypeField
		if hit, err := s.cache.Get(cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	var defaults []models.VehicleTypeField
	query := s.db.Where("vehicle_type_id = ? AND tenant_id IS NULL", vehicleTypeID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&defaults).Error; err != nil {
		return nil, err
	}

	var customs []models.VehicleTypeField
	query = s.db.Where("vehicle_type_id = ? AND tenant_id = ?", vehicleTypeID, tenantID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&customs).Error; err != nil {
		return nil, err
	}

	fields := MergeFieldSets(defaults, customs)

	if s.cache != nil {
		if err := s.cache.Set(cacheKey, fields); err != nil {
			logger.GetLogger().Warnf("字段目录缓存写入失败: %v", err)
		}
	}

	return fields, nil
}

// ResolveFieldsByKey 解析字段集并按key索引
func (s *FieldCatalogService) ResolveFieldsByKey(vehicleTypeID, tenantID uint) (map[string]*models.VehicleTypeField, []models.VehicleTypeField, error) {
	fields, err := s.ResolveFields(vehicleTypeID, tenantID, true)
	if err != nil {
		return nil, nil, err
	}
	byKey := make(map[string]*models.VehicleTypeField, len(fields))
	for i := range fields {
		byKey[fields[i].Key] = &fields[i]
	}
	return byKey, fields, nil
}

// CreateCustomField 为租户创建自定义字段。
// tenant_id无条件取调用方租户，租户无法创建默认字段。
func (s *FieldCatalogService) CreateCustomField(tenantID uint, input *CustomFieldInput) (*models.VehicleTypeField, error) {
	if !models.IsValidFieldType(input.FieldType) {
		return nil, fmt.Errorf("非法的字段类型: %s", input.FieldType)
	}
	if !fieldKeyPattern.MatchString(input.Key) {
		return nil, fmt.Errorf("字段key只能包含小写字母、数字和下划线")
	}
	if input.FieldType == models.FieldTypeSelect && len(input.Options) == 0 {
		return nil, fmt.Errorf("select类型字段必须提供选项列表")
	}

	// 车辆类型必须存在
	var vehicleType models.VehicleType
	if err := s.db.First(&vehicleType, input.VehicleTypeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}

	// key在(车辆类型, 租户)内唯一；存储层唯一约束兜底并发穿插
	var count int64
	err := s.db.Model(&models.VehicleTypeField{}).
		Where("vehicle_type_id = ? AND tenant_id = ? AND key = ?", input.VehicleTypeID, tenantID, input.Key).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.ErrDuplicateKey
	}

	field := &models.VehicleTypeField{
		VehicleTypeID: input.VehicleTypeID,
		TenantID:      &tenantID,
		Name:          input.Name,
		Key:           input.Key,
		FieldType:     input.FieldType,
		Unit:          input.Unit,
		IsRequired:    input.IsRequired,
		IsUnique:      input.IsUnique,
		IsActive:      true,
		SortOrder:     100,
		Description:   input.Description,
	}
	if input.IsActive != nil {
		field.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		field.SortOrder = *input.SortOrder
	}
	if err := field.SetOptions(input.Options); err != nil {
		return nil, err
	}

	if err := s.db.Create(field).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrDuplicateKey
		}
		return nil, err
	}

	s.invalidateCache(input.VehicleTypeID)
	return field, nil
}

// GetByID 获取单个字段（默认字段或本租户自定义字段）
func (s *FieldCatalogService) GetByID(tenantID, fieldID uint) (*models.VehicleTypeField, error) {
	var field models.VehicleTypeField
	err := s.db.Where("id = ? AND (tenant_id IS NULL OR tenant_id = ?)", fieldID, tenantID).
		First(&field).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &field, nil
}

// findOwnedCustomField 查找属于该租户的自定义字段。
// 默认字段返回Forbidden；不存在或属于其他租户统一返回NotFound，
// 避免租户探测他人记录是否存在。
func (s *FieldCatalogService) findOwnedCustomField(tenantID, fieldID uint) (*models.VehicleTypeField, error) {
	var field models.VehicleTypeField
	err := s.db.Where("id = ?", fieldID).First(&field).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	if field.IsDefault() {
		return nil, errors.ErrForbidden
	}
	if *field.TenantID != tenantID {
		return nil, errors.ErrNotFound
	}
	return &field, nil
}

// UpdateCustomField 更新租户自己的自定义字段
func (s *FieldCatalogService) UpdateCustomField(tenantID, fieldID uint, patch *CustomFieldPatch) (*models.VehicleTypeField, error) {
	field, err := s.findOwnedCustomField(tenantID, fieldID)
	if err != nil {
		return nil, err
	}

	if patch.Key != nil && *patch.Key != field.Key {
		if !fieldKeyPattern.MatchString(*patch.Key) {
			return nil, fmt.Errorf("字段key只能包含小写字母、数字和下划线")
		}
		// key变更时重新检查唯一性，排除自身
		var count int64
		err := s.db.Model(&models.VehicleTypeField{}).
			Where("vehicle_type_id = ? AND tenant_id = ? AND key = ? AND id != ?",
				field.VehicleTypeID, tenantID, *patch.Key, field.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.ErrDuplicateKey
		}
		field.Key = *patch.Key
	}

	if patch.FieldType != nil {
		if !models.IsValidFieldType(*patch.FieldType) {
			return nil, fmt.Errorf("非法的字段类型: %s", *patch.FieldType)
		}
		field.FieldType = *patch.FieldType
	}
	if patch.Name != nil {
		field.Name = *patch.Name
	}
	if patch.Unit != nil {
		field.Unit = *patch.Unit
	}
	if patch.Options != nil {
		if err := field.SetOptions(*patch.Options); err != nil {
			return nil, err
		}
	}
	if patch.IsRequired != nil {
		field.IsRequired = *patch.IsRequired
	}
	if patch.IsUnique != nil {
		field.IsUnique = *patch.IsUnique
	}
	if patch.IsActive != nil {
		field.IsActive = *patch.IsActive
	}
	if patch.SortOrder != nil {
		field.SortOrder = *patch.SortOrder
	}
	if patch.Description != nil {
		field.Description = *patch.Description
	}

	if field.FieldType == models.FieldTypeSelect && len(field.OptionList()) == 0 {
		return nil, fmt.Errorf("select类型字段必须提供选项列表")
	}

	if err := s.db.Save(field).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrDuplicateKey
		}
		return nil, err
	}

	s.invalidateCache(field.VehicleTypeID)
	return field, nil
}

// DeleteCustomField 删除租户自己的自定义字段。
// 字段仍被车辆字段值引用时拒绝删除，与文档类型的删除保护保持一致；
// 需要下线字段时应使用is_active软停用。
func (s *FieldCatalogService) DeleteCustomField(tenantID, fieldID uint) error {
	field, err := s.findOwnedCustomField(tenantID, fieldID)
	if err != nil {
		return err
	}

	var valueCount int64
	err = s.db.Model(&models.VehicleFieldValue{}).
		Where("vehicle_type_field_id = ?", field.ID).
		Count(&valueCount).Error
	if err != nil {
		return err
	}
	if valueCount > 0 {
		return fmt.Errorf("%w: 字段仍被 %d 条车辆数据引用，请先停用该字段", errors.ErrForbidden, valueCount)
	}

	if err := s.db.Delete(field).Error; err != nil {
		return err
	}

	s.invalidateCache(field.VehicleTypeID)
	return nil
}

// ListFields 列出租户可见的字段（默认+自定义），可按车辆类型过滤
func (s *FieldCatalogService) ListFields(tenantID uint, vehicleTypeID *uint, activeOnly bool) ([]models.VehicleTypeField, error) {
	query := s.db.Model(&models.VehicleTypeField{}).
		Where("tenant_id IS NULL OR tenant_id = ?", tenantID)
	if vehicleTypeID != nil {
		query = query.Where("vehicle_type_id = ?", *vehicleTypeID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var fields []models.VehicleTypeField
	err := query.Order("sort_order").Order("name").Find(&fields).Error
	return fields, err
}

// invalidateCache 字段定义变更后失效该车辆类型的全部缓存
func (s *FieldCatalogService) invalidateCache(vehicleTypeID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(fmt.Sprintf("fields:%d:*", vehicleTypeID)); err != nil {
		logger.GetLogger().Warnf("字段目录缓存失效失败: %v", err)
	}
}
