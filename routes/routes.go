package routes

import (
	"laundrypro-backend/config"
	"laundrypro-backend/controllers"
	"laundrypro-backend/services"
	"laundrypro-backend/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the router needs. Session stores are shared with the
// sweeper started in main.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Metrics   *config.Metrics
	Catalog   store.Catalog
	Studios   store.StudioStore
	Messenger services.Messenger
	IDs       services.IDProvider

	Forms    *services.SessionStore[*services.ServiceForm]
	Browsers *services.SessionStore[*services.CatalogBrowser]
	Drafts   *services.SessionStore[*services.StudioForm]
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := d.Config.Server.CORSOrigins
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(d.Log))
	r.Use(d.Metrics.Middleware())

	health := controllers.HealthController{Catalog: d.Catalog}
	r.GET("/healthz", health.Health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	formController := controllers.ServiceFormController{
		Catalog: d.Catalog,
		Forms:   d.Forms,
		Drafts:  d.Drafts,
		IDs:     d.IDs,
		Metrics: d.Metrics,
		Log:     d.Log,
	}
	catalogController := controllers.CatalogController{
		Catalog:  d.Catalog,
		Browsers: d.Browsers,
		Metrics:  d.Metrics,
		Log:      d.Log,
	}
	studioController := controllers.StudioController{
		Catalog:   d.Catalog,
		Studios:   d.Studios,
		Drafts:    d.Drafts,
		Forms:     d.Forms,
		Messenger: d.Messenger,
		Metrics:   d.Metrics,
		Log:       d.Log,
	}

	api := r.Group("/api")
	{
		// Service form routes
		forms := api.Group("/service-forms")
		{
			forms.POST("", formController.CreateForm)
			forms.GET("/:id", formController.GetForm)
			forms.DELETE("/:id", formController.DeleteForm)
			forms.PUT("/:id/name", formController.SetServiceName)
			forms.POST("/:id/service", formController.SelectService)
			forms.POST("/:id/subservices", formController.AddSubservice)
			forms.PATCH("/:id/subservices/:index", formController.EditSubservice)
			forms.DELETE("/:id/subservices/:index", formController.RemoveSubservice)
			forms.POST("/:id/subservices/:index/template", formController.SelectTemplate)
			forms.POST("/:id/subservices/:index/toggle", formController.ToggleItemsPanel)
			forms.DELETE("/:id/subservices/:index/items/:item", formController.RemoveItem)
			forms.PUT("/:id/new-item", formController.SetNewItemField)
			forms.POST("/:id/items", formController.AddItem)
			forms.POST("/:id/save", formController.Save)
			forms.POST("/:id/cancel", formController.Cancel)
		}

		catalog := api.Group("/catalog")
		{
			browsers := catalog.Group("/browsers")
			{
				browsers.POST("", catalogController.CreateBrowser)
				browsers.GET("/:id", catalogController.GetBrowser)
				browsers.POST("/:id/services/:serviceId/expand", catalogController.ToggleServiceExpand)
				browsers.POST("/:id/subservices/:subId/expand", catalogController.ToggleSubserviceExpand)
			}

			svcs := catalog.Group("/services")
			{
				svcs.GET("", catalogController.GetServices)
				svcs.POST("/:id/toggle", catalogController.ToggleService)
				svcs.POST("/:id/subservices/:subId/toggle", catalogController.ToggleSubservice)
				svcs.POST("/:id/subservices/:subId/items", catalogController.AddItem)

				svcs.PUT("/:id", catalogController.ComingSoon("Edit service"))
				svcs.DELETE("/:id", catalogController.ComingSoon("Delete service"))
				svcs.POST("/:id/subservices", catalogController.ComingSoon("Add subservice"))
				svcs.PUT("/:id/subservices/:subId", catalogController.ComingSoon("Edit subservice"))
				svcs.DELETE("/:id/subservices/:subId", catalogController.ComingSoon("Delete subservice"))
			}
		}

		// Studio onboarding routes
		drafts := api.Group("/studios/drafts")
		{
			drafts.POST("", studioController.CreateDraft)
			drafts.GET("/:id", studioController.GetDraft)
			drafts.POST("/:id/services", studioController.AddService)
			drafts.DELETE("/:id/services/:serviceId", studioController.RemoveService)
			drafts.POST("/:id/submit", studioController.Submit)
		}
	}

	return r
}
