package handlers

import (
	stderrors "errors"
	"strconv"
	"time"

	"fleetcore/internal/middleware"
	"fleetcore/internal/services"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/response"

	"github.com/gin-gonic/gin"
)

type VehicleDocumentHandler struct {
	service *services.VehicleDocumentService
}

func NewVehicleDocumentHandler(service *services.VehicleDocumentService) *VehicleDocumentHandler {
	return &VehicleDocumentHandler{
		service: service,
	}
}

// vehicleIDParam 解析路径中的车辆ID
func vehicleIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return 0, false
	}
	return uint(id), true
}

// List 获取车辆的文档列表
func (h *VehicleDocumentHandler) List(c *gin.Context) {
	vehicleID, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	tenantID := middleware.GetTenantID(c)

	docs, err := h.service.List(tenantID, vehicleID)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, docs)
}

// Create 为车辆登记文档
func (h *VehicleDocumentHandler) Create(c *gin.Context) {
	vehicleID, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	tenantID := middleware.GetTenantID(c)

	var req services.VehicleDocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	doc, err := h.service.Create(tenantID, vehicleID, &req)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆或文档类型不存在")
			return
		}
		response.ServerError(c, "创建文档失败")
		return
	}

	response.Success(c, doc)
}

// Update 更新车辆文档
func (h *VehicleDocumentHandler) Update(c *gin.Context) {
	vehicleID, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	docID, err := strconv.ParseUint(c.Param("doc_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "文档ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	var req services.VehicleDocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	doc, err := h.service.Update(tenantID, vehicleID, uint(docID), &req)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "文档不存在")
			return
		}
		response.ServerError(c, "更新文档失败")
		return
	}

	response.Success(c, doc)
}

// Delete 删除车辆文档
func (h *VehicleDocumentHandler) Delete(c *gin.Context) {
	vehicleID, ok := vehicleIDParam(c)
	if !ok {
		return
	}

	docID, err := strconv.ParseUint(c.Param("doc_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "文档ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	if err := h.service.Delete(tenantID, vehicleID, uint(docID)); err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "文档不存在")
			return
		}
		response.ServerError(c, "删除文档失败")
		return
	}

	response.Success(c, nil)
}

// ListExpiring 列出即将过期的文档，days默认30天
func (h *VehicleDocumentHandler) ListExpiring(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(c, "days参数格式错误")
			return
		}
		days = parsed
	}

	docs, err := h.service.ListExpiring(tenantID, time.Duration(days)*24*time.Hour)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, docs)
}
