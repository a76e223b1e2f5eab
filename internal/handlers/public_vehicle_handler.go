package handlers

import (
	stderrors "errors"
	"sort"

	"fleetcore/internal/models"
	"fleetcore/internal/services"
	"fleetcore/pkg/errors"
	"fleetcore/pkg/pagination"
	"fleetcore/pkg/response"

	"github.com/gin-gonic/gin"
)

// PublicVehicleHandler 无需登录的公开查询接口（二维码扫码页、展示页）
type PublicVehicleHandler struct {
	vehicleService *services.VehicleService
	tenantService  *services.TenantService
}

func NewPublicVehicleHandler(vehicleService *services.VehicleService, tenantService *services.TenantService) *PublicVehicleHandler {
	return &PublicVehicleHandler{
		vehicleService: vehicleService,
		tenantService:  tenantService,
	}
}

// PublicFieldView 公开视图中的单个字段
type PublicFieldView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// PublicVehicleView 车辆公开视图，只暴露展示所需信息
type PublicVehicleView struct {
	VehicleType string            `json:"vehicle_type"`
	Status      string            `json:"status"`
	Fields      []PublicFieldView `json:"fields"`
}

// toPublicView 把车辆转换为公开视图，字段按sort_order排序
func toPublicView(vehicle *models.Vehicle) *PublicVehicleView {
	values := make([]models.VehicleFieldValue, len(vehicle.FieldValues))
	copy(values, vehicle.FieldValues)
	sort.SliceStable(values, func(i, j int) bool {
		if values[i].Field.SortOrder != values[j].Field.SortOrder {
			return values[i].Field.SortOrder < values[j].Field.SortOrder
		}
		return values[i].Field.Name < values[j].Field.Name
	})

	view := &PublicVehicleView{
		VehicleType: vehicle.VehicleType.Name,
		Status:      vehicle.Status,
		Fields:      make([]PublicFieldView, 0, len(values)),
	}
	for _, v := range values {
		if !v.Field.IsActive || v.Value == "" {
			continue
		}
		view.Fields = append(view.Fields, PublicFieldView{
			Name:  v.Field.Name,
			Value: v.Value,
			Unit:  v.Field.Unit,
		})
	}
	return view
}

// GetByToken 根据二维码令牌查询车辆公开信息
func (h *PublicVehicleHandler) GetByToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.BadRequest(c, "令牌不能为空")
		return
	}

	vehicle, err := h.vehicleService.GetByToken(token)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "车辆不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, toPublicView(vehicle))
}

// ListByTenantCode 租户公开车辆列表（排除已售车辆）
func (h *PublicVehicleHandler) ListByTenantCode(c *gin.Context) {
	code := c.Param("code")

	tenant, err := h.tenantService.GetByCode(code)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			response.NotFound(c, "租户不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	params := pagination.ParsePageParams(c)

	vehicles, total, err := h.vehicleService.ListPublic(tenant.ID, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	views := make([]*PublicVehicleView, 0, len(vehicles))
	for i := range vehicles {
		views = append(views, toPublicView(&vehicles[i]))
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, views, pageInfo)
}
