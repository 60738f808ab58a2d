package handler

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

type quoteTestEnv struct {
	engine    *gin.Engine
	customers *memCustomerRepo
	quotes    *memQuoteRepo
}

func newQuoteTestEnv(caller shared.CallerContext) *quoteTestEnv {
	templates := newMemTemplateRepo()
	quotes := newMemQuoteRepo()
	customers := newMemCustomerRepo()
	uow := &memUnitOfWork{templates: templates, quotes: quotes}

	templateSvc := billingapp.NewTemplateService(uow, templates, quotes, &seqCodeGenerator{}, noopQuoteCache{}, zap.NewNop())
	quoteSvc := billingapp.NewQuoteService(quotes, customers, noopQuoteCache{}, zap.NewNop())

	engine := gin.New()
	engine.Use(withCaller(caller))
	api := engine.Group("/api/v1")
	NewBillingTemplateHandler(templateSvc).RegisterRoutes(api)
	NewBillingQuoteHandler(quoteSvc).RegisterRoutes(api)

	return &quoteTestEnv{engine: engine, customers: customers, quotes: quotes}
}

func (env *quoteTestEnv) seedCustomer(t *testing.T, businessDomain string) uuid.UUID {
	t.Helper()
	customer, err := partner.NewCustomer("CUS-"+uuid.NewString()[:8], "Acme Logistics", businessDomain, partner.CustomerSourceInternal)
	require.NoError(t, err)
	require.NoError(t, env.customers.Save(context.Background(), customer))
	return customer.ID
}

func (env *quoteTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
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

// createActiveTemplate creates and activates a template through the API
func (env *quoteTestEnv) createActiveTemplate(t *testing.T, code, templateType string, customerID *uuid.UUID) {
	t.Helper()
	body := createTemplateBody(code, templateType)
	body["activate"] = true
	if customerID != nil {
		body["customerId"] = customerID.String()
	}
	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBillingQuoteHandler_Resolve_CustomerScopeWins(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))
	customerID := env.seedCustomer(t, "WAREHOUSE")

	env.createActiveTemplate(t, "TPL-GLB", "GLOBAL", nil)
	env.createActiveTemplate(t, "TPL-CUS", "CUSTOMER", &customerID)

	w := env.do(t, http.MethodPost, "/api/v1/billing/quotes/resolve", map[string]any{
		"customerId": customerID.String(),
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "CUSTOMER", data["scopeType"])
	assert.Equal(t, float64(3), data["scopePriority"])
}

func TestBillingQuoteHandler_Resolve_FallsBackToGlobal(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))
	customerID := env.seedCustomer(t, "WAREHOUSE")

	env.createActiveTemplate(t, "TPL-GLB", "GLOBAL", nil)

	w := env.do(t, http.MethodPost, "/api/v1/billing/quotes/resolve", map[string]any{
		"customerId": customerID.String(),
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "GLOBAL", data["scopeType"])
	assert.Equal(t, float64(1), data["scopePriority"])
}

func TestBillingQuoteHandler_Resolve_UnknownCustomer(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))

	env.createActiveTemplate(t, "TPL-GLB", "GLOBAL", nil)

	w := env.do(t, http.MethodPost, "/api/v1/billing/quotes/resolve", map[string]any{
		"customerId": uuid.NewString(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestBillingQuoteHandler_Resolve_GroupBeatsGlobal(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))
	customerID := env.seedCustomer(t, "WAREHOUSE")
	groupID := uuid.New()

	env.customers.memberships[customerID] = []partner.GroupMembership{
		{CustomerID: customerID, GroupID: groupID, AssignedAt: time.Now()},
	}

	env.createActiveTemplate(t, "TPL-GLB", "GLOBAL", nil)
	body := createTemplateBody("TPL-GRP", "GROUP")
	body["activate"] = true
	body["customerGroupIds"] = []string{groupID.String()}
	w := env.do(t, http.MethodPost, "/api/v1/billing/templates", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/billing/quotes/resolve", map[string]any{
		"customerId": customerID.String(),
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "GROUP", data["scopeType"])
	assert.Equal(t, float64(2), data["scopePriority"])
}

func TestBillingQuoteHandler_Resolve_NoCoverage(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))
	customerID := env.seedCustomer(t, "WAREHOUSE")

	w := env.do(t, http.MethodPost, "/api/v1/billing/quotes/resolve", map[string]any{
		"customerId": customerID.String(),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestBillingQuoteHandler_Resolve_MissingCustomerID(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))

	w := env.do(t, http.MethodPost, "/api/v1/billing/quotes/resolve", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingQuoteHandler_GetByID(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))

	env.createActiveTemplate(t, "TPL-GLB", "GLOBAL", nil)
	require.NotEmpty(t, env.quotes.quotes)
	quoteID := env.quotes.quotes[0].ID

	w := env.do(t, http.MethodGet, "/api/v1/billing/quotes/"+quoteID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, quoteID.String(), data["id"])
	assert.NotNil(t, data["payload"])
}

func TestBillingQuoteHandler_List(t *testing.T) {
	env := newQuoteTestEnv(testCaller("WAREHOUSE"))

	env.createActiveTemplate(t, "TPL-GLB", "GLOBAL", nil)

	w := env.do(t, http.MethodGet, "/api/v1/billing/quotes?status=ACTIVE", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}
