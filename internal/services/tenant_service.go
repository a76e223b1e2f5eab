package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"
)

// TenantService 租户服务
type TenantService struct {
	db *gorm.DB
}

// NewTenantService 创建租户服务实例
func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// RegisterBusinessInput 企业注册参数
type RegisterBusinessInput struct {
	Name          string `json:"name" binding:"required,max=100"`
	Code          string `json:"code" binding:"required,max=50"`
	AdminName     string `json:"admin_name" binding:"required,max=100"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// ValidateCreateParams 校验租户创建参数
func (s *TenantService) ValidateCreateParams(name, code string) error {
	if l := utf8.RuneCountInString(name); l < 2 || l > 100 {
		return fmt.Errorf("租户名称长度必须在2-100之间")
	}
	if l := len(code); l < 2 || l > 50 {
		return fmt.Errorf("租户代码长度必须在2-50之间")
	}
	return nil
}

// RegisterBusiness 企业注册：在一个事务内创建租户和管理员用户
func (s *TenantService) RegisterBusiness(input *RegisterBusinessInput) (*models.Tenant, *models.User, error) {
	if err := s.ValidateCreateParams(input.Name, input.Code); err != nil {
		return nil, nil, err
	}

	var count int64
	s.db.Model(&models.Tenant{}).Where("code = ?", input.Code).Count(&count)
	if count > 0 {
		return nil, nil, errors.ErrDuplicateKey
	}

	tenant := &models.Tenant{
		Name:   input.Name,
		Code:   input.Code,
		Status: models.TenantStatusActive,
	}
	admin := &models.User{
		Email:         input.AdminEmail,
		Name:          input.AdminName,
		Status:        models.UserStatusActive,
		IsTenantAdmin: true,
	}
	if err := admin.SetPassword(input.AdminPassword); err != nil {
		return nil, nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		admin.TenantID = tenant.ID
		return tx.Create(admin).Error
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, nil, errors.ErrDuplicateKey
		}
		return nil, nil, err
	}

	return tenant, admin, nil
}

// GetByID 根据ID获取租户
func (s *TenantService) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.First(&tenant, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// GetByCode 根据代码获取租户
func (s *TenantService) GetByCode(code string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Where("code = ?", code).First(&tenant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// Update 更新租户信息
func (s *TenantService) Update(id uint, name string) (*models.Tenant, error) {
	tenant, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		if l := utf8.RuneCountInString(name); l < 2 || l > 100 {
			return nil, fmt.Errorf("租户名称长度必须在2-100之间")
		}
		tenant.Name = name
	}

	if err := s.db.Save(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}
