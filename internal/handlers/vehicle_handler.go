package handlers

import (
	stderrors "errors"
	"strconv"

	"fleetcore/internal/middleware"
	"fleetcore/internal/services"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/pagination"
	"fleetcore/pkg/response"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	service *services.VehicleService
}

func NewVehicleHandler(service *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		service: service,
	}
}

// parseListFilters 从查询参数组装列表过滤条件
func parseListFilters(c *gin.Context) map[string]interface{} {
	filters := make(map[string]interface{})
	if raw := c.Query("vehicle_type_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filters["vehicle_type_id"] = uint(id)
		}
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		filters["date_from"] = dateFrom
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		filters["date_to"] = dateTo
	}
	return filters
}

// List 分页查询车辆列表
func (h *VehicleHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	params := pagination.ParsePageParams(c)
	filters := parseListFilters(c)

	vehicles, total, err := h.service.List(tenantID, params.Page, params.PageSize, filters)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, vehicles, pageInfo)
}

// Create 创建车辆
func (h *VehicleHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.CreateVehicleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	vehicle, err := h.service.Create(tenantID, &req)
	if err != nil {
		if fieldErrors, ok := errors.AsValidationErrors(err); ok {
			response.ValidationFailed(c, fieldErrors)
			return
		}
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		response.ServerError(c, "创建车辆失败")
		return
	}

	response.Success(c, vehicle)
}

// GetByID 获取车辆详情（含全部字段值）
func (h *VehicleHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	vehicle, err := h.service.GetByID(tenantID, uint(id))
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, vehicle)
}

// Update 更新车辆
func (h *VehicleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	var req services.UpdateVehicleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	vehicle, err := h.service.Update(tenantID, uint(id), &req)
	if err != nil {
		if fieldErrors, ok := errors.AsValidationErrors(err); ok {
			response.ValidationFailed(c, fieldErrors)
			return
		}
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆不存在")
			return
		}
		response.ServerError(c, "更新车辆失败")
		return
	}

	response.Success(c, vehicle)
}

// Delete 删除车辆及其字段值和文档
func (h *VehicleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	if err := h.service.Delete(tenantID, uint(id)); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆不存在")
			return
		}
		response.ServerError(c, "删除车辆失败")
		return
	}

	response.Success(c, nil)
}

// BulkDeleteRequest 批量删除请求
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// BulkDelete 批量删除车辆
func (h *VehicleHandler) BulkDelete(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	deleted, err := h.service.BulkDelete(tenantID, req.IDs)
	if err != nil {
		response.ServerError(c, "批量删除失败")
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// Stats 按状态统计车辆数量
func (h *VehicleHandler) Stats(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	filters := parseListFilters(c)

	stats, err := h.service.Stats(tenantID, filters)
	if err != nil {
		response.ServerError(c, "统计失败")
		return
	}

	response.Success(c, stats)
}

// AutocompleteNames 车辆名称自动补全
func (h *VehicleHandler) AutocompleteNames(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	keyword := c.Query("keyword")

	names, err := h.service.AutocompleteNames(tenantID, keyword)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, names)
}
