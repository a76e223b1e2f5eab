package handlers

import (
	stderrors "errors"
	"strconv"

	"fleetcore/internal/middleware"
	"fleetcore/internal/services"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/response"

	"github.com/gin-gonic/gin"
)

type DocumentTypeHandler struct {
	service *services.DocumentTypeService
}

func NewDocumentTypeHandler(service *services.DocumentTypeService) *DocumentTypeHandler {
	return &DocumentTypeHandler{
		service: service,
	}
}

// List 获取文档类型列表
func (h *DocumentTypeHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var vehicleTypeID *uint
	if raw := c.Query("vehicle_type_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "车辆类型ID格式错误")
			return
		}
		typeID := uint(id)
		vehicleTypeID = &typeID
	}

	types, err := h.service.List(tenantID, vehicleTypeID)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, types)
}

// Create 创建租户自定义文档类型
func (h *DocumentTypeHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.DocumentTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	docType, err := h.service.Create(tenantID, &req)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		response.ServerError(c, "创建文档类型失败")
		return
	}

	response.Success(c, docType)
}

// Update 更新租户自定义文档类型
func (h *DocumentTypeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	var req services.DocumentTypeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	docType, err := h.service.Update(tenantID, uint(id), &req)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "文档类型不存在")
			return
		}
		if stderrors.Is(err, errors.ErrForbidden) {
			response.Forbidden(c, "默认文档类型不允许修改")
			return
		}
		response.ServerError(c, "更新文档类型失败")
		return
	}

	response.Success(c, docType)
}

// Delete 删除租户自定义文档类型
func (h *DocumentTypeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	if err := h.service.Delete(tenantID, uint(id)); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "文档类型不存在")
			return
		}
		if stderrors.Is(err, errors.ErrForbidden) {
			response.Forbidden(c, err.Error())
			return
		}
		response.ServerError(c, "删除文档类型失败")
		return
	}

	response.Success(c, nil)
}
