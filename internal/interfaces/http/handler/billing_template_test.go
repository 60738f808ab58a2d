package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingapp "github.com/wms/backend/internal/application/billing"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

type templateTestEnv struct {
	engine    *gin.Engine
	templates *memTemplateRepo
	quotes    *memQuoteRepo
}

func newTemplateTestEnv(caller shared.CallerContext) *templateTestEnv {
	templates := newMemTemplateRepo()
	quotes := newMemQuoteRepo()
	uow := &memUnitOfWork{templates: templates, quotes: quotes}
	svc := billingapp.NewTemplateService(uow, templates, quotes, &seqCodeGenerator{}, noopQuoteCache{}, zap.NewNop())
	h := NewBillingTemplateHandler(svc)

	engine := gin.New()
	engine.Use(withCaller(caller))
	h.RegisterRoutes(engine.Group("/api/v1"))

	return &templateTestEnv{engine: engine, templates: templates, quotes: quotes}
}

func flatRuleBody(chargeCode string) map[string]any {
	return map[string]any{
		"chargeCode":  chargeCode,
		"chargeName":  "Pallet storage",
		"category":    "STORAGE",
		"channel":     "AUTO",
		"unit":        "PALLET",
		"pricingMode": "FLAT",
		"price":       "2.50",
	}
}

func createTemplateBody(code, templateType string) map[string]any {
	return map[string]any{
		"templateCode":  code,
		"templateName":  "Standard warehouse rates",
		"templateType":  templateType,
		"effectiveDate": time.Now().Add(-time.Hour).Format(time.RFC3339),
		"rules":         []any{flatRuleBody("STG-PLT")},
	}
}

func (env *templateTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBillingTemplateHandler_Create(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-001", "GLOBAL"))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "TPL-001", data["templateCode"])
	assert.Equal(t, "DRAFT", data["status"])
	assert.Equal(t, "WAREHOUSE", data["businessDomain"])
	assert.Equal(t, float64(1), data["version"])
}

func TestBillingTemplateHandler_Create_MissingRules(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	body := createTemplateBody("TPL-002", "GLOBAL")
	delete(body, "rules")
	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
}

func TestBillingTemplateHandler_Create_DuplicateCode(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-003", "GLOBAL"))
	require.Equal(t, http.StatusCreated, w.Code)

	body := createTemplateBody("TPL-003", "CUSTOMER")
	body["customerId"] = uuid.New().String()
	w = env.do(t, http.MethodPost, "/api/v1/billing/templates", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
}

func TestBillingTemplateHandler_Create_SecondGlobalRejected(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-G1", "GLOBAL"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-G2", "GLOBAL"))

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeGlobalTemplateExists, resp.Error.Code)
}

func TestBillingTemplateHandler_Create_ForbiddenDomain(t *testing.T) {
	env := newTemplateTestEnv(testCaller("FREIGHT"))

	body := createTemplateBody("TPL-004", "GLOBAL")
	body["businessDomain"] = "WAREHOUSE"
	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
}

func TestBillingTemplateHandler_Unauthenticated(t *testing.T) {
	templates := newMemTemplateRepo()
	quotes := newMemQuoteRepo()
	uow := &memUnitOfWork{templates: templates, quotes: quotes}
	svc := billingapp.NewTemplateService(uow, templates, quotes, &seqCodeGenerator{}, noopQuoteCache{}, zap.NewNop())
	h := NewBillingTemplateHandler(svc)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/templates", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
}

func TestBillingTemplateHandler_GetByID(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-005", "GLOBAL"))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeResponse(t, w).Data.(map[string]interface{})

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/billing/templates/%s", created["id"]), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "TPL-005", data["templateCode"])
}

func TestBillingTemplateHandler_GetByID_InvalidID(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodGet, "/api/v1/billing/templates/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingTemplateHandler_GetByID_NotFound(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodGet, "/api/v1/billing/templates/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestBillingTemplateHandler_List(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-010", "GLOBAL"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/billing/templates?page=1&pageSize=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestBillingTemplateHandler_Update_StaleVersion(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-020", "GLOBAL"))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeResponse(t, w).Data.(map[string]interface{})

	update := map[string]any{
		"version":       99,
		"templateName":  "Renamed rates",
		"effectiveDate": time.Now().Add(-time.Hour).Format(time.RFC3339),
		"rules":         []any{flatRuleBody("STG-PLT")},
	}
	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/billing/templates/%s", created["id"]), update)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeConcurrencyConflict, resp.Error.Code)
}

func TestBillingTemplateHandler_ChangeStatus_ActivateGeneratesQuotes(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-030", "GLOBAL"))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeResponse(t, w).Data.(map[string]interface{})

	change := map[string]any{"version": 1, "status": "ACTIVE"}
	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/billing/templates/%s/status", created["id"]), change)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "ACTIVE", data["status"])
	assert.NotEmpty(t, env.quotes.quotes)
}

func TestBillingTemplateHandler_Delete(t *testing.T) {
	env := newTemplateTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", createTemplateBody("TPL-040", "GLOBAL"))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeResponse(t, w).Data.(map[string]interface{})

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/billing/templates/%s", created["id"]), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/billing/templates/%s", created["id"]), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
