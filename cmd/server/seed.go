package main

import (
	"fleetcore/internal/database"
	"fleetcore/internal/models"
	"fleetcore/pkg/logger"
	"fmt"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 创建默认租户
	if err := createDefaultTenant(db); err != nil {
		return fmt.Errorf("创建默认租户失败: %v", err)
	}

	// 2. 创建默认管理员用户
	if err := createDefaultAdmin(db); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	// 3. 初始化车辆类型
	if err := initializeVehicleTypes(db); err != nil {
		return fmt.Errorf("初始化车辆类型失败: %v", err)
	}

	// 4. 初始化默认字段定义
	if err := initializeDefaultFields(db); err != nil {
		return fmt.Errorf("初始化默认字段失败: %v", err)
	}

	// 5. 初始化默认文档类型
	if err := initializeDocumentTypes(db); err != nil {
		return fmt.Errorf("初始化文档类型失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// createDefaultTenant 创建默认租户
func createDefaultTenant(db *gorm.DB) error {
	var count int64
	db.Model(&models.Tenant{}).Where("code = ?", "default").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认租户已存在，跳过创建")
		return nil
	}

	tenant := &models.Tenant{
		Name:   "默认租户",
		Code:   "default",
		Status: models.TenantStatusActive,
	}

	if err := db.Create(tenant).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认租户创建成功")
	return nil
}

// createDefaultAdmin 创建默认管理员用户
func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("email = ?", "admin@fleetcore.local").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	var tenant models.Tenant
	if err := db.Where("code = ?", "default").First(&tenant).Error; err != nil {
		return err
	}

	admin := &models.User{
		TenantID:      tenant.ID,
		Email:         "admin@fleetcore.local",
		Name:          "系统管理员",
		Status:        models.UserStatusActive,
		IsTenantAdmin: true,
	}
	if err := admin.SetPassword("Admin@123"); err != nil {
		return err
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认管理员创建成功（请尽快修改初始密码）")
	return nil
}

// initializeVehicleTypes 初始化车辆类型
func initializeVehicleTypes(db *gorm.DB) error {
	vehicleTypes := []models.VehicleType{
		{Name: "Crane", Description: "起重机/吊车", IsActive: true},
		{Name: "Light Vehicle", Description: "轻型车辆（轿车、皮卡）", IsActive: true},
		{Name: "Truck", Description: "卡车/货车", IsActive: true},
		{Name: "Van", Description: "厢式车", IsActive: true},
	}

	for _, vt := range vehicleTypes {
		var count int64
		db.Model(&models.VehicleType{}).Where("name = ?", vt.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&vt).Error; err != nil {
			return err
		}
	}

	logger.GetLogger().Info("车辆类型初始化完成")
	return nil
}

// defaultFieldSeed 默认字段定义的种子描述
type defaultFieldSeed struct {
	Name       string
	Key        string
	FieldType  string
	Unit       string
	Options    []string
	IsRequired bool
	IsUnique   bool
	SortOrder  int
}

// commonFieldSeeds 所有车辆类型共有的默认字段
var commonFieldSeeds = []defaultFieldSeed{
	{Name: "Name", Key: "name", FieldType: models.FieldTypeText, IsRequired: true, SortOrder: 1},
	{Name: "License Plate", Key: "license_plate", FieldType: models.FieldTypeText, IsUnique: true, SortOrder: 2},
	{Name: "VIN", Key: "vin", FieldType: models.FieldTypeText, IsUnique: true, SortOrder: 3},
	{Name: "Make", Key: "make", FieldType: models.FieldTypeText, SortOrder: 4},
	{Name: "Model", Key: "model", FieldType: models.FieldTypeText, SortOrder: 5},
	{Name: "Year", Key: "year", FieldType: models.FieldTypeNumber, SortOrder: 6},
	{Name: "Color", Key: "color", FieldType: models.FieldTypeText, SortOrder: 7},
	{Name: "Mileage", Key: "mileage", FieldType: models.FieldTypeNumber, Unit: "km", SortOrder: 8},
	{Name: "Fuel Type", Key: "fuel_type", FieldType: models.FieldTypeSelect,
		Options: []string{"Gasoline", "Diesel", "Electric", "Hybrid"}, SortOrder: 9},
	{Name: "Purchase Date", Key: "purchase_date", FieldType: models.FieldTypeDate, SortOrder: 10},
	{Name: "Purchase Price", Key: "purchase_price", FieldType: models.FieldTypeNumber, SortOrder: 11},
	{Name: "Notes", Key: "notes", FieldType: models.FieldTypeTextarea, SortOrder: 99},
}

// extraFieldSeeds 按车辆类型追加的默认字段
var extraFieldSeeds = map[string][]defaultFieldSeed{
	"Crane": {
		{Name: "Max Lifting Capacity", Key: "max_lifting_capacity", FieldType: models.FieldTypeNumber, Unit: "t", SortOrder: 20},
		{Name: "Boom Length", Key: "boom_length", FieldType: models.FieldTypeNumber, Unit: "m", SortOrder: 21},
	},
	"Truck": {
		{Name: "Payload Capacity", Key: "payload_capacity", FieldType: models.FieldTypeNumber, Unit: "t", SortOrder: 20},
		{Name: "Axle Count", Key: "axle_count", FieldType: models.FieldTypeNumber, SortOrder: 21},
	},
	"Van": {
		{Name: "Cargo Volume", Key: "cargo_volume", FieldType: models.FieldTypeNumber, Unit: "m³", SortOrder: 20},
	},
	"Light Vehicle": {
		{Name: "Seats", Key: "seats", FieldType: models.FieldTypeNumber, SortOrder: 20},
	},
}

// initializeDefaultFields 为每个车辆类型创建默认字段定义（tenant_id为空）
func initializeDefaultFields(db *gorm.DB) error {
	var vehicleTypes []models.VehicleType
	if err := db.Find(&vehicleTypes).Error; err != nil {
		return err
	}

	for _, vt := range vehicleTypes {
		seeds := append([]defaultFieldSeed{}, commonFieldSeeds...)
		seeds = append(seeds, extraFieldSeeds[vt.Name]...)

		for _, seed := range seeds {
			var count int64
			db.Model(&models.VehicleTypeField{}).
				Where("vehicle_type_id = ? AND tenant_id IS NULL AND key = ?", vt.ID, seed.Key).
				Count(&count)
			if count > 0 {
				continue
			}

			field := models.VehicleTypeField{
				VehicleTypeID: vt.ID,
				TenantID:      nil,
				Name:          seed.Name,
				Key:           seed.Key,
				FieldType:     seed.FieldType,
				Unit:          seed.Unit,
				IsRequired:    seed.IsRequired,
				IsUnique:      seed.IsUnique,
				IsActive:      true,
				SortOrder:     seed.SortOrder,
			}
			if seed.Options != nil {
				if err := field.SetOptions(seed.Options); err != nil {
					return err
				}
			}

			if err := db.Create(&field).Error; err != nil {
				return err
			}
		}
	}

	logger.GetLogger().Info("默认字段定义初始化完成")
	return nil
}

// initializeDocumentTypes 初始化全局默认文档类型
func initializeDocumentTypes(db *gorm.DB) error {
	documentTypes := []models.DocumentType{
		{Name: "Registration", Description: "车辆登记证", IsRequired: true, IsActive: true},
		{Name: "Insurance", Description: "保险单", IsRequired: true, IsActive: true},
		{Name: "Inspection Report", Description: "年检报告", IsActive: true},
		{Name: "Purchase Invoice", Description: "购车发票", IsActive: true},
	}

	for _, dt := range documentTypes {
		var count int64
		db.Model(&models.DocumentType{}).
			Where("tenant_id IS NULL AND vehicle_type_id IS NULL AND name = ?", dt.Name).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&dt).Error; err != nil {
			return err
		}
	}

	logger.GetLogger().Info("默认文档类型初始化完成")
	return nil
}
