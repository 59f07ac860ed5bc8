package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"account-pool-system.com/account-pool-system/internal/constants"
	"account-pool-system.com/account-pool-system/internal/generator"
	middleware "account-pool-system.com/account-pool-system/internal/http/middlewares"
	model "account-pool-system.com/account-pool-system/internal/models"
	"account-pool-system.com/account-pool-system/internal/queue"
	repository "account-pool-system.com/account-pool-system/internal/repositories"
	"account-pool-system.com/account-pool-system/internal/services"
)

type testServer struct {
	echo *echo.Echo
	repo *repository.AccountRepository
}

func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "accounts.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Account{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zaptest.NewLogger(t)
	repo := repository.NewAccountRepository(db)
	gen := generator.NewAccountNumberGenerator(generator.DefaultPrefix, nil)
	svc := services.NewAccountService(repo, queue.NewMemoryReadyQueue(), gen, 2, constants.StrategyClaim, logger)

	e := echo.New()
	Register(e, NewHandler(svc, generator.DefaultPrefix, logger), rateLimit, logger)

	return &testServer{echo: e, repo: repo}
}

func (s *testServer) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHandler_NextAccount(t *testing.T) {
	srv := newTestServer(t, 100)

	rec := srv.do(http.MethodGet, "/accounts/next")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	var body AccountNumberResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.AccountNumber, 12)

	account, err := srv.repo.FindByNumber(context.Background(), body.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusAssigned, account.Status)
}

func TestHandler_ReturnAndLookup(t *testing.T) {
	srv := newTestServer(t, 100)

	rec := srv.do(http.MethodGet, "/accounts/next")
	require.Equal(t, http.StatusOK, rec.Code)
	var body AccountNumberResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	rec = srv.do(http.MethodPost, "/accounts/return/"+body.AccountNumber)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(http.MethodGet, "/accounts/"+body.AccountNumber)
	require.Equal(t, http.StatusOK, rec.Code)

	var account model.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, body.AccountNumber, account.AccountNumber)
	assert.Equal(t, constants.StatusUnused, account.Status)
}

func TestHandler_ReturnInvalidNumber(t *testing.T) {
	srv := newTestServer(t, 100)

	rec := srv.do(http.MethodPost, "/accounts/return/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ReturnUnknownNumber(t *testing.T) {
	srv := newTestServer(t, 100)

	rec := srv.do(http.MethodPost, "/accounts/return/229999999999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetUnknownAccount(t *testing.T) {
	srv := newTestServer(t, 100)

	rec := srv.do(http.MethodGet, "/accounts/229999999999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_RateLimit(t *testing.T) {
	srv := newTestServer(t, 2)

	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, srv.do(http.MethodGet, "/health").Code)
}
