package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/aggregation"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/views"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv   *Server
	kv    *storage.MemoryKV
	store *services.TransactionStore
	logs  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := core.Clock(func() time.Time { return fixedNow })
	kv := storage.NewMemoryKV()
	reg := core.DefaultRegistry()

	n := 0
	store, err := services.NewTransactionStore(context.Background(), kv,
		services.WithClock(clock),
		services.WithRegistry(reg),
		services.WithIDGenerator(func() string { n++; return fmt.Sprintf("tx-%d", n) }))
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := applog.New(applog.Config{Handler: slog.NewTextHandler(&logs, nil)})

	srv := NewServer(":0", Deps{
		Store:     store,
		Prefs:     services.NewPreferences(kv),
		Views:     views.NewEngine(store, aggregation.NewCalculator(reg, clock), views.DefaultConfig()),
		Registry:  reg,
		Clock:     clock,
		Logger:    logger,
		RateLimit: ratelimit.Config{RequestsPerMinute: 1000},
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, kv: kv, store: store, logs: &logs}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) create(t *testing.T, body string) core.Transaction {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[core.Transaction](t, rec)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = env.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	env.kv.SetFailWrites(errors.New("disk full"))
	rec = env.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code, "reads still work when writes fail")
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)

	all := decode[[]core.Category](t, env.do(t, http.MethodGet, "/api/categories", ""))
	assert.Len(t, all, 15)

	income := decode[[]core.Category](t, env.do(t, http.MethodGet, "/api/categories?type=income", ""))
	require.Len(t, income, 5)
	for _, c := range income {
		assert.Equal(t, core.Income, c.Type)
	}

	rec := env.do(t, http.MethodGet, "/api/categories?type=savings", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAndGetTransaction(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/transactions",
		`{"amount":"12.50","date":"2024-03-10","type":"expense","categoryId":"food","description":" Lunch\u0007 "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/transactions/tx-1", rec.Header().Get("Location"))

	tx := decode[core.Transaction](t, rec)
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, int64(1250), tx.Amount.Cents)
	assert.Equal(t, "Lunch", tx.Description)

	got := decode[core.Transaction](t, env.do(t, http.MethodGet, "/api/transactions/tx-1", ""))
	assert.Equal(t, tx.ID, got.ID)

	rec = env.do(t, http.MethodGet, "/api/transactions/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestCreateValidationReportsEveryField(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/transactions",
		`{"amount":"0","date":"2099-01-01","type":"gift","categoryId":"","description":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[ErrorBody](t, rec)
	assert.Equal(t, "validation failed", body.Error)
	fields := map[string]bool{}
	for _, f := range body.Fields {
		fields[f.Field] = true
	}
	for _, f := range []string{core.FieldAmount, core.FieldDate, core.FieldType, core.FieldCategoryID} {
		assert.True(t, fields[f], "missing field error for %s", f)
	}
}

func TestCreateRejectsMalformedBodies(t *testing.T) {
	env := newTestEnv(t)
	for name, body := range map[string]string{
		"syntax":        `{"amount":`,
		"unknown field": `{"amount":"1","colour":"red"}`,
		"trailing data": `{"amount":"1"} {}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/transactions", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, FieldBody, decode[ErrorBody](t, rec).Fields[0].Field)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	tx := env.create(t, `{"amount":20,"date":"2024-03-01","type":"expense","categoryId":"transport","description":"Bus"}`)

	rec := env.do(t, http.MethodPatch, "/api/transactions/"+tx.ID, `{"description":"Train"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[core.Transaction](t, rec)
	assert.Equal(t, "Train", updated.Description)
	assert.Equal(t, tx.Amount, updated.Amount)

	rec = env.do(t, http.MethodPatch, "/api/transactions/"+tx.ID, `{"date":"03/01/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/transactions/missing", `{"description":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/transactions/"+tx.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/transactions/"+tx.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageFailureIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.kv.SetFailWrites(errors.New("disk full"))

	rec := env.do(t, http.MethodPost, "/api/transactions",
		`{"amount":"5","date":"2024-03-01","type":"expense","categoryId":"food"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
	assert.Contains(t, env.logs.String(), "disk full")
	assert.Contains(t, env.logs.String(), applog.ErrorTypeStorage)
}

func TestListFiltersAndDefaultSort(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, `{"amount":"3000","date":"2024-03-01","type":"income","categoryId":"salary","description":"March pay"}`)
	env.create(t, `{"amount":"40","date":"2024-03-05","type":"expense","categoryId":"food","description":"Groceries"}`)
	env.create(t, `{"amount":"15","date":"2024-02-20","type":"expense","categoryId":"entertainment","description":"Cinema"}`)

	list := decode[transactionList](t, env.do(t, http.MethodGet, "/api/transactions", ""))
	require.Equal(t, 3, list.Count)
	assert.Equal(t, "2024-03-05", list.Transactions[0].Date.String())
	assert.Equal(t, "2024-02-20", list.Transactions[2].Date.String())

	list = decode[transactionList](t, env.do(t, http.MethodGet, "/api/transactions?type=expense&sort=amount&order=asc", ""))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Cinema", list.Transactions[0].Description)

	list = decode[transactionList](t, env.do(t, http.MethodGet, "/api/transactions?q=GROC", ""))
	require.Equal(t, 1, list.Count)

	list = decode[transactionList](t, env.do(t, http.MethodGet, "/api/transactions?from=2024-03-06", ""))
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Transactions)

	rec := env.do(t, http.MethodGet, "/api/transactions?sort=colour", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardAndTrend(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, `{"amount":"3000","date":"2024-03-01","type":"income","categoryId":"salary"}`)
	env.create(t, `{"amount":"1200","date":"2024-03-02","type":"expense","categoryId":"housing"}`)
	env.create(t, `{"amount":"100","date":"2024-02-10","type":"expense","categoryId":"food"}`)

	sum := decode[core.DashboardSummary](t, env.do(t, http.MethodGet, "/api/dashboard", ""))
	assert.Equal(t, core.PeriodMonth, sum.Period.Type)
	assert.Equal(t, int64(300000), sum.TotalIncome.Cents)
	assert.Equal(t, int64(120000), sum.TotalExpenses.Cents)
	assert.Equal(t, int64(180000), sum.NetBalance.Cents)

	sum = decode[core.DashboardSummary](t, env.do(t, http.MethodGet, "/api/dashboard?period=month&anchor=2024-02-01&breakdown=expense", ""))
	assert.Equal(t, int64(10000), sum.TotalExpenses.Cents)
	require.Len(t, sum.CategoryBreakdown, 1)
	assert.Equal(t, "food", sum.CategoryBreakdown[0].CategoryID)

	rec := env.do(t, http.MethodGet, "/api/dashboard?period=year", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	trend := decode[core.BalanceTrendData](t, env.do(t, http.MethodGet, "/api/trend?period=month", ""))
	assert.Len(t, trend.Points, 12)
	assert.Equal(t, int64(170000), trend.EndingBalance.Cents)

	rec = env.do(t, http.MethodGet, "/api/trend?anchor=2024-04-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, `{"amount":"12.5","date":"2024-03-01","type":"expense","categoryId":"food","description":"Coffee, Tea"}`)

	rec := env.do(t, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="expense-tracker-20240315-120000.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"Date,Amount,Type,Category,Description\n2024-03-01,12.50,expense,Food & Dining,\"Coffee, Tea\"\n",
		rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/export.csv?header=false", "")
	assert.False(t, strings.HasPrefix(rec.Body.String(), "Date,"))

	rec = env.do(t, http.MethodGet, "/api/export.csv?header=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferences(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/preferences/theme", "")
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/preferences/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/preferences/theme", "")
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/preferences/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/preferences/tab", "")
	assert.JSONEq(t, `{"tab":"dashboard"}`, rec.Body.String())
	rec = env.do(t, http.MethodPut, "/api/preferences/tab", `{"tab":"filters"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/preferences/tab", "")
	assert.JSONEq(t, `{"tab":"filters"}`, rec.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))

	rec = env.do(t, http.MethodPut, "/api/dashboard", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthReportsCacheStats(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/dashboard", "")
	env.do(t, http.MethodGet, "/api/dashboard", "")

	var health struct {
		Cache map[string]struct {
			Hits int64 `json:"hits"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(env.do(t, http.MethodGet, "/healthz", "").Body.Bytes(), &health))
	assert.Equal(t, int64(1), health.Cache["dashboard"].Hits)
}
