package services

import (
	"fleetcore/pkg/logger"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DocumentExpiryScheduler 文档过期标记调度器。
// 每天凌晨扫描一次有效期已过但未标记的文档。
type DocumentExpiryScheduler struct {
	cron *cron.Cron
	docs *VehicleDocumentService
}

// NewDocumentExpiryScheduler 创建文档过期调度器
func NewDocumentExpiryScheduler(db *gorm.DB) *DocumentExpiryScheduler {
	return &DocumentExpiryScheduler{
		cron: cron.New(),
		docs: NewVehicleDocumentService(db),
	}
}

// Start 启动调度器，并先执行一次补扫
func (s *DocumentExpiryScheduler) Start() error {
	appLogger := logger.GetLogger()

	_, err := s.cron.AddFunc("0 2 * * *", s.sweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	appLogger.Info("文档过期调度器已启动")

	// 启动时补扫一次，覆盖停机期间过期的文档
	go s.sweep()

	return nil
}

// Stop 停止调度器
func (s *DocumentExpiryScheduler) Stop() {
	s.cron.Stop()
	logger.GetLogger().Info("文档过期调度器已停止")
}

// sweep 执行一次过期标记
func (s *DocumentExpiryScheduler) sweep() {
	appLogger := logger.GetLogger()

	count, err := s.docs.MarkExpired(time.Now())
	if err != nil {
		appLogger.Errorf("文档过期标记失败: %v", err)
		return
	}
	if count > 0 {
		appLogger.Infof("已标记 %d 份过期文档", count)
	}
}
