package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"barbertrack-backend/config"
	"barbertrack-backend/models"
	"barbertrack-backend/repository"
	"barbertrack-backend/services"
	"barbertrack-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testApp struct {
	router *gin.Engine
	store  *repository.MemoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repository.NewMemoryStore()
	config.SeedMemory(store)

	agg := services.NewAggregator(time.Now)
	sessions := services.NewSessionRegistry(services.NewDashboard(store, agg, log))
	auth := services.NewAuthService(store, sessions, utils.NewTokenManager("test-secret", time.Hour), log)

	router := SetupRouter(Deps{
		Config:  config.App{CORSOrigins: "http://localhost:3000", JWTExpiryHours: 1},
		Log:     log,
		Auth:    auth,
		Catalog: services.NewCatalogService(store, log),
		Reports: services.NewReportService(store, nil, agg, log),
		Store:   store,
	})
	return &testApp{router: router, store: store}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(t *testing.T, body gin.H) (string, models.Caller) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string        `json:"token"`
		User  models.Caller `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type dashboardResponse struct {
	Ready bool `json:"ready"`
	Rows  []struct {
		EmployeeID string `json:"employee_id"`
		FullName   string `json:"full_name"`
		Total      int    `json:"total"`
		Columns    []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"columns"`
	} `json:"rows"`
	Summary     services.Summary `json:"summary"`
	History     []interface{}    `json:"history"`
	Permissions struct {
		CanDeleteTransaction  bool `json:"can_delete_transaction"`
		CanDeactivateEmployee bool `json:"can_deactivate_employee"`
		CanLogTransaction     bool `json:"can_log_transaction"`
	} `json:"permissions"`
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "barbertrack_http_requests_total")
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "owner@shop.test", "password": "password1", "full_name": "Owner", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "owner@shop.test", "password": "short", "full_name": "Owner", "role": "admin", "shop_name": "Cuts",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "owner@shop.test", "password": "password1", "full_name": "Owner", "role": "manager",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodGet, "/api/dashboard", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardFlow(t *testing.T) {
	app := newTestApp(t)

	adminToken, _ := app.register(t, gin.H{
		"email": "owner@shop.test", "password": "password1", "full_name": "Olga Owner", "role": "admin", "shop_name": "Cuts",
	})
	annToken, ann := app.register(t, gin.H{
		"email": "ann@shop.test", "password": "password1", "full_name": "Ann", "role": "employee",
	})
	bobToken, bob := app.register(t, gin.H{
		"email": "bob@shop.test", "password": "password1", "full_name": "Bob", "role": "employee",
	})

	var types []models.ServiceType
	w := app.do(t, http.MethodGet, "/api/service-types", annToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &types)
	require.NotEmpty(t, types)
	haircut := types[0]

	// employees log their own work, admins cannot
	w = app.do(t, http.MethodPost, "/api/transactions", annToken, gin.H{"service_type_id": haircut.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var annTx models.Transaction
	decode(t, w, &annTx)

	w = app.do(t, http.MethodPost, "/api/transactions", bobToken, gin.H{"service_type_id": haircut.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodPost, "/api/transactions", adminToken, gin.H{"service_type_id": haircut.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin sees the whole shop
	var dash dashboardResponse
	w = app.do(t, http.MethodGet, "/api/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &dash)
	assert.True(t, dash.Ready)
	require.Len(t, dash.Rows, 2)
	assert.Equal(t, 2, dash.Summary.TotalTransactions)
	assert.True(t, dash.Permissions.CanDeleteTransaction)
	assert.Equal(t, "Haircut", dash.Rows[0].Columns[0].Name)
	assert.Equal(t, 1, dash.Rows[0].Columns[0].Count)

	// an employee sees only themself
	w = app.do(t, http.MethodGet, "/api/dashboard", annToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash = dashboardResponse{}
	decode(t, w, &dash)
	require.Len(t, dash.Rows, 1)
	assert.Equal(t, ann.ID.String(), dash.Rows[0].EmployeeID)
	assert.False(t, dash.Permissions.CanDeleteTransaction)
	assert.True(t, dash.Permissions.CanLogTransaction)

	// toggling shows history
	w = app.do(t, http.MethodPost, "/api/dashboard/employees/"+ann.ID.String()+"/toggle", annToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash = dashboardResponse{}
	decode(t, w, &dash)
	assert.Len(t, dash.History, 1)

	// employees cannot delete or deactivate
	w = app.do(t, http.MethodDelete, "/api/transactions/"+annTx.ID.String(), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = app.do(t, http.MethodDelete, "/api/employees/"+ann.ID.String(), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin deletes a transaction
	w = app.do(t, http.MethodDelete, "/api/transactions/"+annTx.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	dash = dashboardResponse{}
	decode(t, w, &dash)
	assert.Equal(t, 1, dash.Summary.TotalTransactions)

	w = app.do(t, http.MethodDelete, "/api/transactions/"+annTx.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// admin deactivates bob, whose token stops working and whose history stays
	w = app.do(t, http.MethodDelete, "/api/employees/"+bob.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash = dashboardResponse{}
	decode(t, w, &dash)
	require.Len(t, dash.Rows, 1)
	assert.Equal(t, "Ann", dash.Rows[0].FullName)

	w = app.do(t, http.MethodGet, "/api/dashboard", bobToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	txs, err := app.store.Transactions(context.Background(), repository.TransactionFilter{EmployeeID: &bob.ID})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestServiceTypeRoutesAreAdminOnly(t *testing.T) {
	app := newTestApp(t)
	adminToken, _ := app.register(t, gin.H{
		"email": "owner@shop.test", "password": "password1", "full_name": "Owner", "role": "admin", "shop_name": "Cuts",
	})
	annToken, _ := app.register(t, gin.H{
		"email": "ann@shop.test", "password": "password1", "full_name": "Ann", "role": "employee",
	})

	w := app.do(t, http.MethodPost, "/api/service-types", annToken, gin.H{"name": "Perm", "display_order": 9})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodPost, "/api/service-types", adminToken, gin.H{"name": "Perm", "display_order": 9})
	require.Equal(t, http.StatusCreated, w.Code)
	var perm models.ServiceType
	decode(t, w, &perm)

	w = app.do(t, http.MethodPost, "/api/service-types", adminToken, gin.H{"name": "Perm", "display_order": 10})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPost, "/api/service-types", adminToken, gin.H{"name": "   ", "display_order": 11})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPut, "/api/service-types/"+perm.ID.String(), adminToken, gin.H{"name": "Haircut"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPut, "/api/service-types/"+perm.ID.String(), adminToken, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)

	var active []models.ServiceType
	w = app.do(t, http.MethodGet, "/api/service-types", adminToken, nil)
	decode(t, w, &active)
	var all []models.ServiceType
	w = app.do(t, http.MethodGet, "/api/service-types?include_inactive=true", adminToken, nil)
	decode(t, w, &all)
	assert.Equal(t, len(active)+1, len(all))
}

func TestLoginLogout(t *testing.T) {
	app := newTestApp(t)
	app.register(t, gin.H{
		"email": "ann@shop.test", "password": "password1", "full_name": "Ann", "role": "employee",
	})

	w := app.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "ann@shop.test", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "ann@shop.test", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)

	w = app.do(t, http.MethodGet, "/auth/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/auth/logout", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/auth/me", resp.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTodayReport(t *testing.T) {
	app := newTestApp(t)
	annToken, _ := app.register(t, gin.H{
		"email": "ann@shop.test", "password": "password1", "full_name": "Ann", "role": "employee",
	})

	w := app.do(t, http.MethodGet, "/api/reports/today", annToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Rows    []interface{} `json:"rows"`
		Message string        `json:"message"`
	}
	decode(t, w, &report)
	assert.Len(t, report.Rows, 1)
	assert.Contains(t, report.Message, "Daily report")
}
