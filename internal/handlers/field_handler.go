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

type FieldHandler struct {
	service *services.FieldCatalogService
}

func NewFieldHandler(service *services.FieldCatalogService) *FieldHandler {
	return &FieldHandler{
		service: service,
	}
}

// List 获取字段定义列表，支持按车辆类型过滤
func (h *FieldHandler) List(c *gin.Context) {
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

	activeOnly := c.Query("active_only") == "true"

	fields, err := h.service.ListFields(tenantID, vehicleTypeID, activeOnly)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, fields)
}

// Create 创建租户自定义字段
func (h *FieldHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.CustomFieldInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	field, err := h.service.CreateCustomField(tenantID, &req)
	if err != nil {
		if fieldErrors, ok := errors.AsValidationErrors(err); ok {
			response.ValidationFailed(c, fieldErrors)
			return
		}
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		if stderrors.Is(err, errors.ErrDuplicateKey) {
			response.Conflict(c, "该车辆类型下字段key已存在")
			return
		}
		response.ServerError(c, "创建字段失败")
		return
	}

	response.Success(c, field)
}

// GetByID 获取字段定义详情
func (h *FieldHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	field, err := h.service.GetByID(tenantID, uint(id))
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "字段不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, field)
}

// Update 更新租户自定义字段
func (h *FieldHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	var req services.CustomFieldPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	field, err := h.service.UpdateCustomField(tenantID, uint(id), &req)
	if err != nil {
		if fieldErrors, ok := errors.AsValidationErrors(err); ok {
			response.ValidationFailed(c, fieldErrors)
			return
		}
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "字段不存在")
			return
		}
		if stderrors.Is(err, errors.ErrForbidden) {
			response.Forbidden(c, "默认字段不允许修改")
			return
		}
		if stderrors.Is(err, errors.ErrDuplicateKey) {
			response.Conflict(c, "该车辆类型下字段key已存在")
			return
		}
		response.ServerError(c, "更新字段失败")
		return
	}

	response.Success(c, field)
}

// Delete 删除租户自定义字段
func (h *FieldHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	if err := h.service.DeleteCustomField(tenantID, uint(id)); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "字段不存在")
			return
		}
		if stderrors.Is(err, errors.ErrForbidden) {
			response.Forbidden(c, err.Error())
			return
		}
		response.ServerError(c, "删除字段失败")
		return
	}

	response.Success(c, nil)
}
