package database

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		// 车辆类型与动态字段
		&models.VehicleType{},
		&models.VehicleTypeField{},
		// 车辆与字段值（EAV）
		&models.Vehicle{},
		&models.VehicleFieldValue{},
		// 合规文档
		&models.DocumentType{},
		&models.VehicleDocument{},
	)

	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")

	return nil
}
