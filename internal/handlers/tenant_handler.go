package handlers

import (
	stderrors "errors"

	"fleetcore/internal/middleware"
	"fleetcore/internal/services"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/response"

	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	service *services.TenantService
}

func NewTenantHandler(service *services.TenantService) *TenantHandler {
	return &TenantHandler{
		service: service,
	}
}

// Register 企业自助注册：创建租户并生成管理员账号
func (h *TenantHandler) Register(c *gin.Context) {
	var req services.RegisterBusinessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.service.ValidateCreateParams(req.Name, req.Code); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tenant, admin, err := h.service.RegisterBusiness(&req)
	if err != nil {
		if stderrors.Is(err, errors.ErrDuplicateKey) {
			response.Conflict(c, "租户编码已被使用")
			return
		}
		response.ServerError(c, "注册失败")
		return
	}

	response.Success(c, gin.H{
		"tenant": tenant,
		"admin":  admin,
	})
}

// GetCurrent 获取当前租户信息
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	tenant, err := h.service.GetByID(tenantID)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "租户不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, tenant)
}

// UpdateTenantRequest 更新租户请求
type UpdateTenantRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// UpdateCurrent 更新当前租户名称（仅管理员）
func (h *TenantHandler) UpdateCurrent(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenant, err := h.service.Update(tenantID, req.Name)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "租户不存在")
			return
		}
		response.ServerError(c, "更新失败")
		return
	}

	response.Success(c, tenant)
}
