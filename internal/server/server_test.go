package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/config"
	alertH "github.com/fekuna/omnipos-inventory-service/internal/alert/handler"
	alertUC "github.com/fekuna/omnipos-inventory-service/internal/alert/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	dashH "github.com/fekuna/omnipos-inventory-service/internal/dashboard/handler"
	dashUC "github.com/fekuna/omnipos-inventory-service/internal/dashboard/usecase"
	depotH "github.com/fekuna/omnipos-inventory-service/internal/depot/handler"
	depotUC "github.com/fekuna/omnipos-inventory-service/internal/depot/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/notify"
	prodH "github.com/fekuna/omnipos-inventory-service/internal/product/handler"
	prodUC "github.com/fekuna/omnipos-inventory-service/internal/product/usecase"
	recH "github.com/fekuna/omnipos-inventory-service/internal/reconcile/handler"
	recUC "github.com/fekuna/omnipos-inventory-service/internal/reconcile/usecase"
	"github.com/fekuna/omnipos-inventory-service/internal/store/memory"
	txH "github.com/fekuna/omnipos-inventory-service/internal/transaction/handler"
	txUC "github.com/fekuna/omnipos-inventory-service/internal/transaction/usecase"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "server-test-secret"

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	log := logger.NewNop()
	store := memory.New()

	alerts := alertUC.NewAlertUseCase(store.Alerts(), notify.Nop{}, log)
	catalog := prodUC.NewCatalog(nil, nil, log)
	recorder := txUC.NewTransactionUseCase(store.Transactions(), store.Products(), store.Depots(), alerts, log,
		txUC.WithProductSync(catalog),
	)
	products := prodUC.NewProductUseCase(store.Products(), store.Depots(), recorder, alerts, catalog, nil, log)
	depots := depotUC.NewDepotUseCase(store.Depots(), alerts, nil, log)
	reconciler := recUC.NewReconcileUseCase(store.Reconcile(), alerts, log)
	dashboard := dashUC.NewDashboardUseCase(store.Dashboard(), log)

	cfg := &config.Config{
		Server: config.ServerConfig{AppEnv: "test", HTTPPort: ":0"},
		JWT:    config.JWTConfig{SecretKey: secret},
	}
	srv := NewServer(cfg, log, notify.NewHub(log),
		prodH.NewProductHandler(products, log),
		depotH.NewDepotHandler(depots, log),
		txH.NewTransactionHandler(recorder, log),
		alertH.NewAlertHandler(alerts, log),
		recH.NewReconcileHandler(reconciler, log),
		dashH.NewDashboardHandler(dashboard, log),
	)
	return &api{t: t, handler: srv.Handler()}
}

func (a *api) do(owner, method, path string, body interface{}, out interface{}) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		token, err := auth.IssueToken(secret, owner, "clerk-"+owner, time.Hour)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

type idBody struct {
	ID string `json:"id"`
}

func TestAPI_StockLifecycle(t *testing.T) {
	a := newAPI(t)

	var depot idBody
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/depots",
		map[string]interface{}{"name": "Main", "capacity": 100}, &depot))

	var product struct {
		ID     string `json:"id"`
		Stock  int64  `json:"stock"`
		Status string `json:"status"`
	}
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/products",
		map[string]interface{}{"sku": "W-1", "name": "Widget", "unit_price": "9.99", "reorder_point": 10, "initial_stock": 5, "depot_id": depot.ID},
		&product))
	assert.Equal(t, int64(5), product.Stock)
	assert.Equal(t, "low-stock", product.Status)

	var recorded struct {
		Product struct {
			Stock  int64  `json:"stock"`
			Status string `json:"status"`
		} `json:"product"`
		Transaction struct {
			PreviousStock int64 `json:"previous_stock"`
			NewStock      int64 `json:"new_stock"`
		} `json:"transaction"`
	}
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/transactions",
		map[string]interface{}{"product_id": product.ID, "type": "stock-in", "quantity": 30, "depot_id": depot.ID}, &recorded))
	assert.Equal(t, int64(35), recorded.Product.Stock)
	assert.Equal(t, "overstock", recorded.Product.Status)
	assert.Equal(t, int64(5), recorded.Transaction.PreviousStock)
	assert.Equal(t, int64(35), recorded.Transaction.NewStock)

	var failure struct {
		Error string `json:"error"`
	}
	assert.Equal(t, http.StatusConflict, a.do("owner-1", http.MethodPost, "/api/v1/transactions",
		map[string]interface{}{"product_id": product.ID, "type": "stock-out", "quantity": 100}, &failure))
	assert.Equal(t, "insufficient_stock", failure.Error)

	assert.Equal(t, http.StatusBadRequest, a.do("owner-1", http.MethodPost, "/api/v1/transactions",
		map[string]interface{}{"product_id": product.ID, "type": "refund", "quantity": 1}, &failure))
	assert.Equal(t, "invalid_transaction_type", failure.Error)

	var history struct {
		Total int `json:"total"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-1", http.MethodGet, "/api/v1/transactions?product_id="+product.ID, nil, &history))
	assert.Equal(t, 2, history.Total)

	var depotView struct {
		CurrentUtilization int64  `json:"current_utilization"`
		Status             string `json:"status"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-1", http.MethodGet, "/api/v1/depots/"+depot.ID, nil, &depotView))
	assert.Equal(t, int64(35), depotView.CurrentUtilization)
	assert.Equal(t, "normal", depotView.Status)

	var report struct {
		ProductsUpdated int `json:"products_updated"`
		DepotsUpdated   int `json:"depots_updated"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-1", http.MethodPost, "/api/v1/inventory/reconcile", nil, &report))
	assert.Zero(t, report.ProductsUpdated)
	assert.Zero(t, report.DepotsUpdated)
}

func TestAPI_OwnerIsolationAndAuth(t *testing.T) {
	a := newAPI(t)

	var depot idBody
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/depots",
		map[string]interface{}{"name": "Main", "capacity": 10}, &depot))

	assert.Equal(t, http.StatusUnauthorized, a.do("", http.MethodGet, "/api/v1/depots", nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do("owner-2", http.MethodGet, "/api/v1/depots/"+depot.ID, nil, nil))
	assert.Equal(t, http.StatusOK, a.do("", http.MethodGet, "/healthz", nil, nil))

	var list struct {
		Total int `json:"total"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-2", http.MethodGet, "/api/v1/depots", nil, &list))
	assert.Zero(t, list.Total)
}

func TestAPI_AlertsFollowStock(t *testing.T) {
	a := newAPI(t)

	var depot idBody
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/depots",
		map[string]interface{}{"name": "Main", "capacity": 100}, &depot))
	var product idBody
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/products",
		map[string]interface{}{"sku": "A-1", "name": "Anchor", "initial_stock": 50, "depot_id": depot.ID}, &product))

	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/transactions",
		map[string]interface{}{"product_id": product.ID, "type": "stock-out", "quantity": 50, "depot_id": depot.ID}, nil))

	var alerts struct {
		Data []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-1", http.MethodGet, "/api/v1/alerts?is_resolved=false&subject_id="+product.ID, nil, &alerts))
	require.Equal(t, 1, alerts.Total)
	assert.Equal(t, "out-of-stock", alerts.Data[0].Type)

	var resolved struct {
		IsResolved bool   `json:"is_resolved"`
		ResolvedBy string `json:"resolved_by"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-1", http.MethodPost, "/api/v1/alerts/"+alerts.Data[0].ID+"/resolve",
		map[string]interface{}{"notes": "reordered"}, &resolved))
	assert.True(t, resolved.IsResolved)
	assert.Equal(t, "clerk-owner-1", resolved.ResolvedBy)
}

func TestAPI_DashboardAndCategories(t *testing.T) {
	a := newAPI(t)

	var depot idBody
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/depots",
		map[string]interface{}{"name": "Main", "capacity": 100}, &depot))
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/products",
		map[string]interface{}{"sku": "W-1", "name": "Widget", "category": "tools", "unit_price": "2.50", "initial_stock": 40, "depot_id": depot.ID}, nil))
	require.Equal(t, http.StatusCreated, a.do("owner-1", http.MethodPost, "/api/v1/products",
		map[string]interface{}{"sku": "B-1", "name": "Bolt", "category": "hardware", "unit_price": "1"}, nil))
	require.Equal(t, http.StatusCreated, a.do("owner-2", http.MethodPost, "/api/v1/products",
		map[string]interface{}{"sku": "X-1", "name": "Theirs", "category": "secret"}, nil))

	var dash struct {
		Stats struct {
			TotalProducts   int    `json:"total_products"`
			OutOfStockCount int    `json:"out_of_stock_count"`
			TotalDepots     int    `json:"total_depots"`
			UnreadAlerts    int    `json:"unread_alerts"`
			TotalValue      string `json:"total_value"`
		} `json:"stats"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-1", http.MethodGet, "/api/v1/dashboard/stats", nil, &dash))
	assert.Equal(t, 2, dash.Stats.TotalProducts)
	assert.Equal(t, 1, dash.Stats.OutOfStockCount)
	assert.Equal(t, 1, dash.Stats.TotalDepots)
	assert.Equal(t, 1, dash.Stats.UnreadAlerts)
	assert.Equal(t, "100", dash.Stats.TotalValue)

	var categories struct {
		Categories []string `json:"categories"`
	}
	require.Equal(t, http.StatusOK, a.do("owner-1", http.MethodGet, "/api/v1/products/categories/list", nil, &categories))
	assert.Equal(t, []string{"hardware", "tools"}, categories.Categories)

	assert.Equal(t, http.StatusUnauthorized, a.do("", http.MethodGet, "/api/v1/dashboard/stats", nil, nil))
}
