package handlers

import (
	"encoding/json"
	stderrors "errors"
	"strconv"

	"fleetcore/internal/middleware"
	"fleetcore/internal/services"
	"fleetcore/pkg/config"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/pagination"
	"fleetcore/pkg/response"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importService   *services.VehicleImportService
	templateService *services.TemplateService
}

func NewImportHandler(importService *services.VehicleImportService, templateService *services.TemplateService) *ImportHandler {
	return &ImportHandler{
		importService:   importService,
		templateService: templateService,
	}
}

// DownloadTemplate 下载指定车辆类型的CSV导入模板
func (h *ImportHandler) DownloadTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenantID := middleware.GetTenantID(c)

	fileName, grid, err := h.templateService.GenerateTemplate(uint(id), tenantID)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		response.ServerError(c, "生成模板失败")
		return
	}

	content, err := h.templateService.WriteCSV(grid)
	if err != nil {
		response.ServerError(c, "生成模板失败")
		return
	}

	// 设置响应头
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+fileName)

	// 写入BOM以支持Excel正确识别UTF-8
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})
	c.Writer.Write(content)
}

// parseUploadedGrid 读取上传的CSV文件并解析成表格
func (h *ImportHandler) parseUploadedGrid(c *gin.Context) ([][]string, bool) {
	cfg := config.GetConfig()

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请上传CSV文件")
		return nil, false
	}

	if file.Size > cfg.Import.MaxFileSize {
		response.BadRequest(c, "文件大小超过限制")
		return nil, false
	}

	f, err := file.Open()
	if err != nil {
		response.ServerError(c, "读取文件失败")
		return nil, false
	}
	defer f.Close()

	grid, err := services.ParseCSVGrid(f)
	if err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}

	return grid, true
}

// formVehicleTypeID 从表单读取车辆类型ID
func formVehicleTypeID(c *gin.Context) (uint, bool) {
	raw := c.PostForm("vehicle_type_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "车辆类型ID格式错误")
		return 0, false
	}
	return uint(id), true
}

// Preview 预览导入文件：逐行校验但不写库
func (h *ImportHandler) Preview(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	vehicleTypeID, ok := formVehicleTypeID(c)
	if !ok {
		return
	}

	grid, ok := h.parseUploadedGrid(c)
	if !ok {
		return
	}

	params := pagination.ParsePageParams(c)

	preview, err := h.importService.Preview(grid, vehicleTypeID, tenantID, params.Page, params.PageSize)
	if err != nil {
		if stderrors.Is(err, errors.ErrMalformedUpload) {
			response.BadRequest(c, err.Error())
			return
		}
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		response.ServerError(c, "预览失败")
		return
	}

	response.Success(c, preview)
}

// Import 执行批量导入。
// edited_rows为预览后用户修正的行数据，导入前会对全部行重新校验，
// 任一行校验失败则整批不落库。
func (h *ImportHandler) Import(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	vehicleTypeID, ok := formVehicleTypeID(c)
	if !ok {
		return
	}

	grid, ok := h.parseUploadedGrid(c)
	if !ok {
		return
	}

	var overrides []services.RowOverride
	if raw := c.PostForm("edited_rows"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			response.BadRequest(c, "edited_rows格式错误")
			return
		}
	}

	imported, err := h.importService.Import(grid, vehicleTypeID, tenantID, overrides)
	if err != nil {
		if fieldErrors, ok := errors.AsValidationErrors(err); ok {
			response.ValidationFailed(c, fieldErrors)
			return
		}
		if stderrors.Is(err, errors.ErrMalformedUpload) {
			response.BadRequest(c, err.Error())
			return
		}
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆类型不存在")
			return
		}
		response.ServerError(c, "导入失败")
		return
	}

	response.SuccessWithMessage(c, "批量导入完成", gin.H{"imported": imported})
}
