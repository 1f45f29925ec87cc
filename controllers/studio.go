// controllers/studio.go
package controllers

import (
	"errors"
	"net/http"

	"laundrypro-backend/config"
	"laundrypro-backend/services"
	"laundrypro-backend/store"
	"laundrypro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StudioController serves studio onboarding drafts. A draft collects
// services from service forms and is submitted once.
type StudioController struct {
	Catalog   store.Catalog
	Studios   store.StudioStore
	Drafts    *services.SessionStore[*services.StudioForm]
	Forms     *services.SessionStore[*services.ServiceForm]
	Messenger services.Messenger
	Metrics   *config.Metrics
	Log       *zap.Logger
}

type DraftResponse struct {
	ID            string                  `json:"id"`
	StudioID      uuid.UUID               `json:"studioId"`
	Submitted     bool                    `json:"submitted"`
	Services      []services.AddedService `json:"services"`
	Notifications []services.Notification `json:"notifications"`
}

type AddDraftServiceInput struct {
	FormID string `json:"formId" binding:"required"`
}

func (sc *StudioController) CreateDraft(c *gin.Context) {
	rec := services.NewRecorder()
	opts := []services.StudioFormOption{services.WithLogger(sc.Log)}
	if sc.Messenger != nil {
		opts = append(opts, services.WithMessenger(sc.Messenger))
	}
	form := services.NewStudioForm(sc.Catalog, sc.Studios, services.MultiNotifier(rec, services.NewLogNotifier(sc.Log)), opts...)
	sess := sc.Drafts.Create(form, rec)
	sc.Metrics.ActiveSessions.WithLabelValues("studio_draft").Set(float64(sc.Drafts.Len()))

	c.JSON(http.StatusCreated, draftResponse(sess.ID, form, noNotifications()))
}

func (sc *StudioController) GetDraft(c *gin.Context) {
	sc.do(c, http.StatusOK, func(f *services.StudioForm) error { return nil })
}

// AddService saves the service form named in the body into the draft
func (sc *StudioController) AddService(c *gin.Context) {
	var input AddDraftServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	draft, err := sc.Drafts.Get(c.Param("id"))
	if err != nil {
		respondError(c, sc.Log, err, nil, "Failed to add service")
		return
	}
	form, err := sc.Forms.Get(input.FormID)
	if err != nil {
		respondError(c, sc.Log, err, nil, "Failed to add service")
		return
	}

	_, notes, err := commitFormToDraft(c.Request.Context(), draft, form)
	if err != nil {
		respondError(c, sc.Log, err, notes, "Failed to add service")
		return
	}
	sc.Metrics.ServicesCommitted.Inc()

	var resp DraftResponse
	_, _ = draft.Do(func(f *services.StudioForm) error {
		resp = draftResponse(draft.ID, f, notes)
		return nil
	})
	c.JSON(http.StatusOK, resp)
}

func (sc *StudioController) RemoveService(c *gin.Context) {
	serviceID, ok := uuidParam(c, "serviceId")
	if !ok {
		return
	}
	sc.do(c, http.StatusOK, func(f *services.StudioForm) error {
		return f.RemoveService(serviceID)
	})
}

// Submit validates the studio profile and creates the studio
func (sc *StudioController) Submit(c *gin.Context) {
	var input services.StudioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	sess, err := sc.Drafts.Get(c.Param("id"))
	if err != nil {
		respondError(c, sc.Log, err, nil, "Failed to add studio")
		return
	}

	var payload *services.StudioPayload
	notes, err := sess.Do(func(f *services.StudioForm) error {
		var serr error
		payload, serr = f.Submit(c.Request.Context(), input)
		return serr
	})
	var fields services.FieldErrors
	if errors.As(err, &fields) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Invalid studio details",
			"fields":        fields,
			"notifications": notes,
		})
		return
	}
	if err != nil {
		respondError(c, sc.Log, err, notes, "Failed to add studio")
		return
	}

	sc.Metrics.StudiosSubmitted.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"studio":        payload.Studio,
		"services":      payload.Services,
		"notifications": notes,
	})
}

func (sc *StudioController) do(c *gin.Context, status int, op func(f *services.StudioForm) error) {
	sess, err := sc.Drafts.Get(c.Param("id"))
	if err != nil {
		respondError(c, sc.Log, err, nil, "Failed to load studio draft")
		return
	}
	var resp DraftResponse
	notes, err := sess.Do(func(f *services.StudioForm) error {
		if err := op(f); err != nil {
			return err
		}
		resp = draftResponse(sess.ID, f, nil)
		return nil
	})
	if err != nil {
		respondError(c, sc.Log, err, notes, "Failed to update studio draft")
		return
	}
	resp.Notifications = notes
	c.JSON(status, resp)
}

func draftResponse(id string, f *services.StudioForm, notes []services.Notification) DraftResponse {
	return DraftResponse{
		ID:            id,
		StudioID:      f.ID(),
		Submitted:     f.Submitted(),
		Services:      f.AddedServices(),
		Notifications: notes,
	}
}
