// controllers/catalog.go
package controllers

import (
	"net/http"

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/services"
	"laundrypro-backend/store"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogController serves the catalog browser and the catalog toggles.
type CatalogController struct {
	Catalog  store.Catalog
	Browsers *services.SessionStore[*services.CatalogBrowser]
	Metrics  *config.Metrics
	Log      *zap.Logger
}

type BrowserResponse struct {
	ID            string                  `json:"id"`
	View          *services.CatalogView   `json:"view"`
	Expanded      *bool                   `json:"expanded,omitempty"`
	Notifications []services.Notification `json:"notifications"`
}

// AddItemInput is a clothing item added from the browser's item panel
type AddItemInput struct {
	Name          string  `json:"name"`
	StandardPrice float64 `json:"standardPrice" binding:"min=0"`
	ExpressPrice  float64 `json:"expressPrice" binding:"min=0"`
}

// CreateBrowser opens a browser with every service collapsed
func (cc *CatalogController) CreateBrowser(c *gin.Context) {
	rec := services.NewRecorder()
	browser := services.NewCatalogBrowser(cc.Catalog, services.MultiNotifier(rec, services.NewLogNotifier(cc.Log)))
	sess := cc.Browsers.Create(browser, rec)
	cc.Metrics.ActiveSessions.WithLabelValues("catalog_browser").Set(float64(cc.Browsers.Len()))

	view, err := browser.View(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, cc.Log, err, nil, "Failed to load catalog")
		return
	}
	c.JSON(http.StatusCreated, BrowserResponse{ID: sess.ID, View: view, Notifications: noNotifications()})
}

func (cc *CatalogController) GetBrowser(c *gin.Context) {
	cc.browse(c, func(b *services.CatalogBrowser) *bool { return nil })
}

func (cc *CatalogController) ToggleServiceExpand(c *gin.Context) {
	id, ok := uuidParam(c, "serviceId")
	if !ok {
		return
	}
	cc.browse(c, func(b *services.CatalogBrowser) *bool {
		expanded := b.ToggleServiceExpand(id)
		return &expanded
	})
}

func (cc *CatalogController) ToggleSubserviceExpand(c *gin.Context) {
	id, ok := uuidParam(c, "subId")
	if !ok {
		return
	}
	cc.browse(c, func(b *services.CatalogBrowser) *bool {
		expanded := b.ToggleSubserviceExpand(id)
		return &expanded
	})
}

func (cc *CatalogController) browse(c *gin.Context, op func(b *services.CatalogBrowser) *bool) {
	sess, err := cc.Browsers.Get(c.Param("id"))
	if err != nil {
		respondError(c, cc.Log, err, nil, "Failed to load catalog")
		return
	}

	ctx := c.Request.Context()
	resp := BrowserResponse{ID: sess.ID}
	notes, err := sess.Do(func(b *services.CatalogBrowser) error {
		resp.Expanded = op(b)
		view, err := b.View(ctx, c.Query("search"))
		resp.View = view
		return err
	})
	if err != nil {
		respondError(c, cc.Log, err, notes, "Failed to load catalog")
		return
	}
	resp.Notifications = notes
	c.JSON(http.StatusOK, resp)
}

// GetServices lists catalog services matching ?search=
func (cc *CatalogController) GetServices(c *gin.Context) {
	all, err := cc.Catalog.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, cc.Log, err, nil, "Failed to retrieve services")
		return
	}
	filtered := services.FilterServices(all, c.Query("search"))
	if filtered == nil {
		filtered = []models.Service{}
	}
	c.JSON(http.StatusOK, gin.H{"services": filtered})
}

func (cc *CatalogController) ToggleService(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	svc, err := cc.Catalog.ToggleService(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.Log, err, nil, "Failed to update service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc, "notifications": noNotifications()})
}

func (cc *CatalogController) ToggleSubservice(c *gin.Context) {
	serviceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	subID, ok := uuidParam(c, "subId")
	if !ok {
		return
	}
	sub, err := cc.Catalog.ToggleSubservice(c.Request.Context(), serviceID, subID)
	if err != nil {
		respondError(c, cc.Log, err, nil, "Failed to update subservice")
		return
	}
	c.JSON(http.StatusOK, gin.H{"subservice": sub, "notifications": noNotifications()})
}

func (cc *CatalogController) AddItem(c *gin.Context) {
	serviceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	subID, ok := uuidParam(c, "subId")
	if !ok {
		return
	}
	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	rec := services.NewRecorder()
	browser := services.NewCatalogBrowser(cc.Catalog, rec)
	item, err := browser.AddItem(c.Request.Context(), serviceID, subID, models.ItemDraft{
		Name:          input.Name,
		StandardPrice: input.StandardPrice,
		ExpressPrice:  input.ExpressPrice,
	})
	if err != nil {
		respondError(c, cc.Log, err, rec.Drain(), "Failed to add item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "notifications": rec.Drain()})
}

// ComingSoon answers catalog actions that are not available yet.
func (cc *CatalogController) ComingSoon(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := services.NewRecorder()
		services.NewCatalogBrowser(cc.Catalog, rec).ComingSoon(feature)
		utils.RespondWithErrorAndNotes(c, http.StatusNotImplemented, feature+" is not available yet", rec.Drain())
	}
}
