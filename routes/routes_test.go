package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"laundrypro-backend/config"
	"laundrypro-backend/controllers"
	"laundrypro-backend/models"
	"laundrypro-backend/services"
	"laundrypro-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type errorBody struct {
	Error         string                  `json:"error"`
	Fields        map[string]string       `json:"fields"`
	Notifications []services.Notification `json:"notifications"`
}

type testServer struct {
	router  *gin.Engine
	catalog *store.MemoryCatalog
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	mem := store.NewMemoryCatalog(seed)

	r := SetupRouter(Deps{
		Config: &config.Config{Server: config.ServerConfig{
			Env:         "test",
			CORSOrigins: []string{"http://localhost:3000"},
		}},
		Log:      zap.NewNop(),
		Metrics:  config.NewMetrics("test"),
		Catalog:  mem,
		Studios:  mem,
		IDs:      &services.CounterProvider{},
		Forms:    services.NewSessionStore[*services.ServiceForm](time.Hour),
		Browsers: services.NewSessionStore[*services.CatalogBrowser](time.Hour),
		Drafts:   services.NewSessionStore[*services.StudioForm](time.Hour),
	})
	return &testServer{router: r, catalog: mem}
}

func (s *testServer) call(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func field(name, value string) gin.H {
	return gin.H{"field": name, "value": value}
}

// fillDryCleaning builds the "Dry Cleaning / Shirts / Formal Shirt" form.
func (s *testServer) fillDryCleaning(t *testing.T) string {
	t.Helper()
	w := s.call(t, http.MethodPost, "/api/service-forms", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[controllers.ServiceFormResponse](t, w).ID
	base := "/api/service-forms/" + id

	steps := []struct {
		method, path string
		body         any
	}{
		{http.MethodPut, base + "/name", gin.H{"name": "Dry Cleaning"}},
		{http.MethodPatch, base + "/subservices/0", field("name", "Shirts")},
		{http.MethodPost, base + "/subservices/0/toggle", nil},
		{http.MethodPut, base + "/new-item", field("name", "Formal Shirt")},
		{http.MethodPut, base + "/new-item", field("standardPrice", "50")},
		{http.MethodPut, base + "/new-item", field("expressPrice", "90")},
		{http.MethodPost, base + "/items", nil},
	}
	for _, st := range steps {
		w := s.call(t, st.method, st.path, st.body)
		require.Equal(t, http.StatusOK, w.Code, "%s %s: %s", st.method, st.path, w.Body.String())
	}
	return id
}

func TestServiceFormSaveFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.fillDryCleaning(t)

	w := s.call(t, http.MethodGet, "/api/service-forms/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	form := decode[controllers.ServiceFormResponse](t, w).Form
	require.Len(t, form.Subservices[0].Items, 1)
	assert.Equal(t, models.ItemDraft{ID: "temp-1", Name: "Formal Shirt", StandardPrice: 50, ExpressPrice: 90}, form.Subservices[0].Items[0])

	w = s.call(t, http.MethodPost, "/api/service-forms/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[controllers.ServiceFormResponse](t, w)
	assert.False(t, saved.Form.Open)
	assert.Len(t, saved.Form.Subservices, 1)

	all, err := s.catalog.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 5)
	added := all[4]
	assert.Equal(t, "Dry Cleaning", added.Name)
	require.Len(t, added.Subservices, 1)
	assert.Equal(t, "Formal Shirt", added.Subservices[0].Items[0].Name)
}

func TestServiceFormValidationResponses(t *testing.T) {
	s := newTestServer(t)
	w := s.call(t, http.MethodPost, "/api/service-forms", nil)
	id := decode[controllers.ServiceFormResponse](t, w).ID
	base := "/api/service-forms/" + id

	w = s.call(t, http.MethodDelete, base+"/subservices/0", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[errorBody](t, w)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "Cannot remove", body.Notifications[0].Title)

	w = s.call(t, http.MethodPost, base+"/save", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body = decode[errorBody](t, w)
	assert.Equal(t, "Service name is required", body.Notifications[0].Description)

	w = s.call(t, http.MethodPost, base+"/items", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.call(t, http.MethodPatch, base+"/subservices/abc", field("name", "x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.call(t, http.MethodPatch, base+"/subservices/3", field("name", "x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.call(t, http.MethodGet, "/api/service-forms/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServiceFormSelectExisting(t *testing.T) {
	s := newTestServer(t)
	w := s.call(t, http.MethodPost, "/api/service-forms", nil)
	id := decode[controllers.ServiceFormResponse](t, w).ID
	base := "/api/service-forms/" + id

	w = s.call(t, http.MethodPost, base+"/service", gin.H{"service": "ironing"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[controllers.ServiceFormResponse](t, w)
	assert.Equal(t, "Ironing", resp.Form.ServiceName)
	require.Len(t, resp.AvailableSubservices, 1)

	w = s.call(t, http.MethodPost, base+"/subservices/0/template", gin.H{"subservice": resp.AvailableSubservices[0].ID.String()})
	require.Equal(t, http.StatusOK, w.Code)
	row := decode[controllers.ServiceFormResponse](t, w).Form.Subservices[0]
	assert.Equal(t, "Steam Press", row.Name)
	assert.Len(t, row.Items, 2)
}

func TestServiceFormCancelAndDelete(t *testing.T) {
	s := newTestServer(t)
	id := s.fillDryCleaning(t)

	w := s.call(t, http.MethodPost, "/api/service-forms/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode[controllers.ServiceFormResponse](t, w).Form.ServiceName)

	w = s.call(t, http.MethodDelete, "/api/service-forms/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.call(t, http.MethodDelete, "/api/service-forms/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudioOnboardingFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.call(t, http.MethodPost, "/api/studios/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	draft := decode[controllers.DraftResponse](t, w)
	base := "/api/studios/drafts/" + draft.ID

	formID := s.fillDryCleaning(t)
	w = s.call(t, http.MethodPost, base+"/services", gin.H{"formId": formID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft = decode[controllers.DraftResponse](t, w)
	require.Len(t, draft.Services, 1)
	assert.Equal(t, "Dry Cleaning", draft.Services[0].Name)
	require.NotEmpty(t, draft.Notifications)
	assert.Equal(t, "Success", draft.Notifications[len(draft.Notifications)-1].Title)

	svc, err := s.catalog.GetService(context.Background(), draft.Services[0].ID)
	require.NoError(t, err)
	require.NotNil(t, svc.StudioID)
	assert.Equal(t, draft.StudioID, *svc.StudioID)

	w = s.call(t, http.MethodPost, base+"/submit", gin.H{"name": "", "ownerName": "Asha", "contactNumber": "123"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "Studio name is required", body.Fields["name"])
	assert.Contains(t, body.Fields, "contactNumber")

	valid := gin.H{"name": "Sparkle Laundry", "ownerName": "Asha", "contactNumber": "9876543210", "washCategory": "express"}
	w = s.call(t, http.MethodPost, base+"/submit", valid)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Sparkle Laundry has been added successfully")
	require.Len(t, s.catalog.Studios(), 1)
	assert.Equal(t, models.WashExpress, s.catalog.Studios()[0].WashCategory)

	w = s.call(t, http.MethodPost, base+"/submit", valid)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStudioRemoveService(t *testing.T) {
	s := newTestServer(t)
	w := s.call(t, http.MethodPost, "/api/studios/drafts", nil)
	base := "/api/studios/drafts/" + decode[controllers.DraftResponse](t, w).ID

	w = s.call(t, http.MethodPost, base+"/services", gin.H{"formId": s.fillDryCleaning(t)})
	require.Equal(t, http.StatusOK, w.Code)
	serviceID := decode[controllers.DraftResponse](t, w).Services[0].ID.String()

	w = s.call(t, http.MethodDelete, base+"/services/"+serviceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[controllers.DraftResponse](t, w).Services)

	w = s.call(t, http.MethodDelete, base+"/services/"+serviceID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.call(t, http.MethodPost, base+"/services", gin.H{"formId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogSearchEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.call(t, http.MethodGet, "/api/catalog/services?search=FORMAL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Services []models.Service `json:"services"`
	}](t, w)
	require.Len(t, got.Services, 1)
	assert.Equal(t, "Dry Cleaning", got.Services[0].Name)

	w = s.call(t, http.MethodGet, "/api/catalog/services?search=carpet", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"services":[]}`, w.Body.String())
}

func TestCatalogBrowserFlow(t *testing.T) {
	s := newTestServer(t)
	all, err := s.catalog.ListServices(context.Background())
	require.NoError(t, err)
	dry := all[0]

	w := s.call(t, http.MethodPost, "/api/catalog/browsers", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[controllers.BrowserResponse](t, w).ID
	base := "/api/catalog/browsers/" + id

	w = s.call(t, http.MethodPost, base+"/services/"+dry.ID.String()+"/expand", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[controllers.BrowserResponse](t, w)
	require.NotNil(t, resp.Expanded)
	assert.True(t, *resp.Expanded)
	require.Len(t, resp.View.Subservices, 1)

	w = s.call(t, http.MethodPost, base+"/subservices/"+dry.Subservices[0].ID.String()+"/expand?search=shirt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[controllers.BrowserResponse](t, w)
	assert.Equal(t, "shirt", resp.View.Search)
	require.Len(t, resp.View.Items, 1)
	assert.Equal(t, "Dry Cleaning > Shirts", resp.View.Items[0].Heading)

	w = s.call(t, http.MethodGet, base+"?search=zzz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No services found. Try adjusting your search.", decode[controllers.BrowserResponse](t, w).View.Message)

	w = s.call(t, http.MethodPost, base+"/services/not-a-uuid/expand", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogMutations(t *testing.T) {
	s := newTestServer(t)
	all, err := s.catalog.ListServices(context.Background())
	require.NoError(t, err)
	shoe := all[3]
	sub := shoe.Subservices[0]
	base := "/api/catalog/services/" + shoe.ID.String()

	w := s.call(t, http.MethodPost, base+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":true`)

	w = s.call(t, http.MethodPost, base+"/subservices/"+sub.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.call(t, http.MethodPost, base+"/subservices/"+sub.ID.String()+"/items", gin.H{"name": " ", "standardPrice": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Item name is required", decode[errorBody](t, w).Notifications[0].Description)

	w = s.call(t, http.MethodPost, base+"/subservices/"+sub.ID.String()+"/items", gin.H{"name": "Leather Boot", "standardPrice": 300, "expressPrice": 450})
	assert.Equal(t, http.StatusCreated, w.Code)

	got, err := s.catalog.GetService(context.Background(), shoe.ID)
	require.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.False(t, got.Subservices[0].Enabled)
	require.Len(t, got.Subservices[0].Items, 1)

	w = s.call(t, http.MethodPost, "/api/catalog/services/"+"00000000-0000-0000-0000-000000000001"+"/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogComingSoon(t *testing.T) {
	s := newTestServer(t)
	w := s.call(t, http.MethodDelete, "/api/catalog/services/anything", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	body := decode[errorBody](t, w)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "Coming Soon", body.Notifications[0].Title)
	assert.Equal(t, "Delete service functionality will be implemented soon.", body.Notifications[0].Description)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.call(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = s.call(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_http_requests_total"))
}
