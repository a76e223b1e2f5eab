package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/jwt"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UserService 用户服务，提供登录和当前用户信息等认证胶水
type UserService struct {
	db         *gorm.DB
	jwtManager *jwt.JWTManager
}

// NewUserService 创建用户服务实例
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:         db,
		jwtManager: jwt.GetJWTManager(),
	}
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"user"`
}

// Login 邮箱密码登录，签发携带租户身份的JWT
func (s *UserService) Login(email, password string) (*LoginResult, error) {
	var user models.User
	err := s.db.Preload("Tenant").Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("邮箱或密码错误")
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("邮箱或密码错误")
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("账号已停用")
	}
	if user.Tenant.Status != models.TenantStatusActive {
		return nil, fmt.Errorf("租户已停用")
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.TenantID, user.Email, user.IsTenantAdmin)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	s.db.Model(&user).Update("last_login_at", now)

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.jwtManager.GetTokenDuration().Seconds()),
		User:      &user,
	}, nil
}

// GetByID 获取用户，校验租户归属
func (s *UserService) GetByID(tenantID, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Tenant").Where("id = ? AND tenant_id = ?", userID, tenantID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
