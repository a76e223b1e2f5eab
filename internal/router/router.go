package router

import (
	"time"

	"fleetcore/internal/database"
	"fleetcore/internal/handlers"
	"fleetcore/internal/middleware"
	"fleetcore/internal/models"
	"fleetcore/internal/services"
	"fleetcore/pkg/config"
	"fleetcore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	registerBindingValidators()

	// 注册路由
	registerRoutes(router)
	return router
}

// registerBindingValidators 注册自定义的请求参数校验规则
func registerBindingValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// fieldtype: 字段类型必须是受支持的枚举值
		v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
			return models.IsValidFieldType(fl.Field().String())
		})
	}
}

// 注册所有路由
func registerRoutes(router *gin.Engine) {
	db := database.GetDB()
	cfg := config.GetConfig()

	auth := middleware.NewAuthMiddleware(db)

	catalogService := services.NewFieldCatalogService(db, database.GetRedisCache())
	vehicleService := services.NewVehicleService(db, catalogService)
	tenantService := services.NewTenantService(db)

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// 认证路由（无需认证）
		authHandler := handlers.NewAuthHandler(services.NewUserService(db))
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login) // 用户登录

			// 🔒 获取当前用户完整信息
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 租户路由
		tenantHandler := handlers.NewTenantHandler(tenantService)
		tenants := api.Group("/tenants")
		{
			tenants.POST("/register", tenantHandler.Register) // 企业自助注册（无需认证）

			// 🔒 当前租户信息
			tenants.GET("/current", auth.RequireLogin(), tenantHandler.GetCurrent)
			tenants.PUT("/current", auth.RequireLogin(), auth.RequireTenantAdmin(), tenantHandler.UpdateCurrent)
		}

		// 车辆类型路由
		vehicleTypeHandler := handlers.NewVehicleTypeHandler(services.NewVehicleTypeService(db, catalogService))
		importHandler := handlers.NewImportHandler(
			services.NewVehicleImportService(db, catalogService, cfg.Import.MaxRows),
			services.NewTemplateService(db, catalogService),
		)
		vehicleTypes := api.Group("/vehicle-types")
		vehicleTypes.Use(auth.RequireLogin())
		{
			vehicleTypes.GET("", vehicleTypeHandler.List)
			vehicleTypes.GET("/:id", vehicleTypeHandler.GetByID)
			vehicleTypes.GET("/:id/fields", vehicleTypeHandler.Fields)
			vehicleTypes.GET("/:id/import-template", importHandler.DownloadTemplate) // 下载CSV导入模板
		}

		// 字段定义路由
		fieldHandler := handlers.NewFieldHandler(catalogService)
		fields := api.Group("/fields")
		fields.Use(auth.RequireLogin())
		{
			fields.GET("", fieldHandler.List)
			fields.GET("/:id", fieldHandler.GetByID)

			// 🔒 字段定义变更仅限管理员
			fields.POST("", auth.RequireTenantAdmin(), fieldHandler.Create)
			fields.PUT("/:id", auth.RequireTenantAdmin(), fieldHandler.Update)
			fields.DELETE("/:id", auth.RequireTenantAdmin(), fieldHandler.Delete)
		}

		// 车辆路由
		vehicleHandler := handlers.NewVehicleHandler(vehicleService)
		documentHandler := handlers.NewVehicleDocumentHandler(services.NewVehicleDocumentService(db))
		vehicles := api.Group("/vehicles")
		vehicles.Use(auth.RequireLogin())
		{
			vehicles.GET("", vehicleHandler.List)
			vehicles.POST("", vehicleHandler.Create)
			vehicles.GET("/stats", vehicleHandler.Stats)
			vehicles.GET("/autocomplete", vehicleHandler.AutocompleteNames)
			vehicles.POST("/bulk-delete", vehicleHandler.BulkDelete)
			vehicles.GET("/:id", vehicleHandler.GetByID)
			vehicles.PUT("/:id", vehicleHandler.Update)
			vehicles.DELETE("/:id", vehicleHandler.Delete)

			// 批量导入
			vehicles.POST("/import/preview", importHandler.Preview)
			vehicles.POST("/import", importHandler.Import)

			// 车辆文档
			vehicles.GET("/:id/documents", documentHandler.List)
			vehicles.POST("/:id/documents", documentHandler.Create)
			vehicles.PUT("/:id/documents/:doc_id", documentHandler.Update)
			vehicles.DELETE("/:id/documents/:doc_id", documentHandler.Delete)
		}

		// 文档路由
		documentTypeHandler := handlers.NewDocumentTypeHandler(services.NewDocumentTypeService(db))
		documents := api.Group("/documents")
		documents.Use(auth.RequireLogin())
		{
			documents.GET("/expiring", documentHandler.ListExpiring)

			documents.GET("/types", documentTypeHandler.List)
			documents.POST("/types", auth.RequireTenantAdmin(), documentTypeHandler.Create)
			documents.PUT("/types/:id", auth.RequireTenantAdmin(), documentTypeHandler.Update)
			documents.DELETE("/types/:id", auth.RequireTenantAdmin(), documentTypeHandler.Delete)
		}

		// 公开路由（扫码页与展示页，无需认证）
		publicHandler := handlers.NewPublicVehicleHandler(vehicleService, tenantService)
		public := api.Group("/public")
		{
			public.GET("/vehicles/:token", publicHandler.GetByToken)
			public.GET("/tenants/:code/vehicles", publicHandler.ListByTenantCode)
		}
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "FleetCore",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
