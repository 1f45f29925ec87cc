// controllers/service_form.go
package controllers

import (
	"context"
	"net/http"

	"laundrypro-backend/config"
	"laundrypro-backend/models"
	"laundrypro-backend/services"
	"laundrypro-backend/store"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceFormController serves the add-service editor. Each form lives in a
// session addressed by :id.
type ServiceFormController struct {
	Catalog store.Catalog
	Forms   *services.SessionStore[*services.ServiceForm]
	Drafts  *services.SessionStore[*services.StudioForm]
	IDs     services.IDProvider
	Metrics *config.Metrics
	Log     *zap.Logger
}

type ServiceFormResponse struct {
	ID                   string                    `json:"id"`
	Form                 services.ServiceFormState `json:"form"`
	AvailableSubservices []models.Subservice       `json:"availableSubservices"`
	Notifications        []services.Notification   `json:"notifications"`
}

type SetNameInput struct {
	Name string `json:"name"`
}

type SelectServiceInput struct {
	Service string `json:"service" binding:"required"`
}

type SelectTemplateInput struct {
	Subservice string `json:"subservice" binding:"required"`
}

// FieldInput sets one field of a subservice row or of the pending item.
// Values are strings, as typed; prices that do not parse become 0.
type FieldInput struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// SaveFormInput optionally names the studio draft the service is saved into,
// or an existing studio to file it under.
type SaveFormInput struct {
	StudioDraftID string `json:"studioDraftId"`
	StudioID      string `json:"studioId"`
}

// CreateForm opens a new service form
func (fc *ServiceFormController) CreateForm(c *gin.Context) {
	rec := services.NewRecorder()
	form := services.NewServiceForm(fc.Catalog, fc.IDs, services.MultiNotifier(rec, services.NewLogNotifier(fc.Log)))
	sess := fc.Forms.Create(form, rec)
	fc.Metrics.ActiveSessions.WithLabelValues("service_form").Set(float64(fc.Forms.Len()))

	c.JSON(http.StatusCreated, ServiceFormResponse{
		ID:                   sess.ID,
		Form:                 form.State(),
		AvailableSubservices: []models.Subservice{},
		Notifications:        noNotifications(),
	})
}

func (fc *ServiceFormController) GetForm(c *gin.Context) {
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error { return nil })
}

func (fc *ServiceFormController) DeleteForm(c *gin.Context) {
	if !fc.Forms.Delete(c.Param("id")) {
		utils.RespondWithError(c, http.StatusNotFound, "Service form not found")
		return
	}
	fc.Metrics.ActiveSessions.WithLabelValues("service_form").Set(float64(fc.Forms.Len()))
	c.JSON(http.StatusOK, gin.H{"message": "Service form discarded"})
}

func (fc *ServiceFormController) SetServiceName(c *gin.Context) {
	var input SetNameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		f.SetServiceName(input.Name)
		return nil
	})
}

// SelectService fills the service name from an existing catalog service
func (fc *ServiceFormController) SelectService(c *gin.Context) {
	var input SelectServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.SelectService(ctx, input.Service)
	})
}

func (fc *ServiceFormController) AddSubservice(c *gin.Context) {
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		f.AddSubservice()
		return nil
	})
}

func (fc *ServiceFormController) EditSubservice(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var input FieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.EditSubservice(index, services.SubserviceField(input.Field), input.Value)
	})
}

func (fc *ServiceFormController) RemoveSubservice(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.RemoveSubservice(index)
	})
}

// SelectTemplate copies an existing subservice of the selected service into a row
func (fc *ServiceFormController) SelectTemplate(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var input SelectTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.SelectExistingSubservice(ctx, index, input.Subservice)
	})
}

func (fc *ServiceFormController) ToggleItemsPanel(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.ToggleItemsPanel(index)
	})
}

func (fc *ServiceFormController) SetNewItemField(c *gin.Context) {
	var input FieldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.SetNewItemField(services.ItemField(input.Field), input.Value)
	})
}

// AddItem appends the pending item to the row whose panel is open
func (fc *ServiceFormController) AddItem(c *gin.Context) {
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.AddItem()
	})
}

func (fc *ServiceFormController) RemoveItem(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	item, ok := intParam(c, "item")
	if !ok {
		return
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		return f.RemoveItem(index, item)
	})
}

// Save validates the form and commits it, either into a studio draft or
// straight into the catalog.
func (fc *ServiceFormController) Save(c *gin.Context) {
	var input SaveFormInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	if input.StudioDraftID != "" {
		fc.saveIntoDraft(c, input.StudioDraftID)
		return
	}

	var studioID *uuid.UUID
	if input.StudioID != "" {
		id, err := uuid.Parse(input.StudioID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid studio ID format")
			return
		}
		studioID = &id
	}
	commit := func(ctx context.Context, name string, subs []models.SubserviceDraft) error {
		_, err := services.CommitToCatalog(ctx, fc.Catalog, studioID, name, subs)
		return err
	}
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		if err := f.Save(ctx, commit); err != nil {
			return err
		}
		fc.Metrics.ServicesCommitted.Inc()
		return nil
	})
}

func (fc *ServiceFormController) saveIntoDraft(c *gin.Context, draftID string) {
	draft, err := fc.Drafts.Get(draftID)
	if err != nil {
		respondError(c, fc.Log, err, nil, "Failed to add service")
		return
	}
	form, err := fc.Forms.Get(c.Param("id"))
	if err != nil {
		respondError(c, fc.Log, err, nil, "Failed to add service")
		return
	}

	state, notes, err := commitFormToDraft(c.Request.Context(), draft, form)
	if err != nil {
		respondError(c, fc.Log, err, notes, "Failed to add service")
		return
	}
	fc.Metrics.ServicesCommitted.Inc()
	c.JSON(http.StatusOK, ServiceFormResponse{
		ID:                   form.ID,
		Form:                 state,
		AvailableSubservices: []models.Subservice{},
		Notifications:        notes,
	})
}

func (fc *ServiceFormController) Cancel(c *gin.Context) {
	fc.do(c, http.StatusOK, func(ctx context.Context, f *services.ServiceForm) error {
		f.Cancel()
		return nil
	})
}

// do runs op on the form named by :id and writes the resulting state.
func (fc *ServiceFormController) do(c *gin.Context, status int, op func(ctx context.Context, f *services.ServiceForm) error) {
	sess, err := fc.Forms.Get(c.Param("id"))
	if err != nil {
		respondError(c, fc.Log, err, nil, "Failed to load service form")
		return
	}

	ctx := c.Request.Context()
	var resp ServiceFormResponse
	notes, err := sess.Do(func(f *services.ServiceForm) error {
		if err := op(ctx, f); err != nil {
			return err
		}
		available, err := f.AvailableSubservices(ctx)
		if err != nil {
			fc.Log.Warn("listing available subservices", zap.String("form", sess.ID), zap.Error(err))
			available = []models.Subservice{}
		}
		resp = ServiceFormResponse{ID: sess.ID, Form: f.State(), AvailableSubservices: available}
		return nil
	})
	if err != nil {
		respondError(c, fc.Log, err, notes, "Failed to update service form")
		return
	}
	resp.Notifications = notes
	c.JSON(status, resp)
}

// commitFormToDraft saves form into draft. The draft is locked before the
// form.
func commitFormToDraft(ctx context.Context, draft *services.Session[*services.StudioForm], form *services.Session[*services.ServiceForm]) (services.ServiceFormState, []services.Notification, error) {
	var (
		state     services.ServiceFormState
		formNotes []services.Notification
	)
	draftNotes, err := draft.Do(func(s *services.StudioForm) error {
		var ferr error
		formNotes, ferr = form.Do(func(f *services.ServiceForm) error {
			if err := f.Save(ctx, s.AddService); err != nil {
				return err
			}
			state = f.State()
			return nil
		})
		return ferr
	})
	return state, append(formNotes, draftNotes...), err
}
