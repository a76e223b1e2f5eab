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

type VehicleTypeHandler struct {
	service *services.VehicleTypeService
}

func NewVehicleTypeHandler(service *services.VehicleTypeService) *VehicleTypeHandler {
	return &VehicleTypeHandler{
		service: service,
	}
}

// List 获取车辆类型列表
func (h *VehicleTypeHandler) List(c *gin.Context) {
	types, err := h.service.List()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, types)
}

// GetByID 获取车辆类型详情
func (h *VehicleTypeHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	vehicleType, err := h.service.GetByID(uint(id))
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, vehicleType)
}

// Fields 获取车辆类型的字段定义（默认字段+本租户自定义字段合并后）
func (h *VehicleTypeHandler) Fields(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	// include_custom=false 时只返回默认字段
	includeCustom := c.DefaultQuery("include_custom", "true") != "false"

	fields, err := h.service.Fields(uint(id), tenantID, includeCustom)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, fields)
}
