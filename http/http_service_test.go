package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ipahub/ipahub/accounts"
	"github.com/ipahub/ipahub/api"
	"github.com/ipahub/ipahub/config"
	"github.com/ipahub/ipahub/downloads"
	"github.com/ipahub/ipahub/lookup"
	"github.com/ipahub/ipahub/store"
	"github.com/ipahub/ipahub/tests"
)

// testService adapts the test fixture to the service interface the HTTP
// layer is constructed from.
type testService struct {
	svc *tests.TestService
	cfg config.Config
}

func (s *testService) Shutdown()                {}
func (s *testService) GetDB() *gorm.DB          { return s.svc.DB }
func (s *testService) GetConfig() config.Config { return s.cfg }
func (s *testService) GetAccountsService() accounts.AccountsService {
	return s.svc.AccountsService
}
func (s *testService) GetDownloadsService() downloads.DownloadsService {
	return s.svc.DownloadsService
}
func (s *testService) GetLookupService() lookup.Service { return s.svc.LookupService }
func (s *testService) GetStoreClient() *store.Client    { return s.svc.StoreClient }

func createTestHttpService(t *testing.T, unlockPassword string) (*echo.Echo, *tests.TestService) {
	svc, err := tests.CreateTestService(t)
	require.NoError(t, err)
	t.Cleanup(svc.Remove)

	cfg := svc.Cfg
	if unlockPassword != "" {
		cfg, err = config.NewConfig(&config.AppConfig{
			DefaultCountry: "us",
			UnlockPassword: unlockPassword,
		}, svc.DB)
		require.NoError(t, err)
	}

	e := echo.New()
	httpSvc := NewHttpService(&testService{svc: svc, cfg: cfg})
	httpSvc.RegisterSharedRoutes(e)
	return e, svc
}

func TestInfoHandler(t *testing.T) {
	e, _ := createTestHttpService(t, "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/info", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info api.InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.False(t, info.AuthEnabled)
	assert.Equal(t, "us", info.DefaultCountry)
	assert.Contains(t, info.Countries, "us")
}

func TestAccountsHandlers(t *testing.T) {
	e, _ := createTestHttpService(t, "")

	body := `{"email": "user@example.com", "dsid": "12345678", "passwordToken": "token-abc", "storefront": "143441", "pod": "31"}`
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var account api.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "user@example.com", account.Email)
	assert.Equal(t, "us", account.Country)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []api.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/accounts/user@example.com", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/accounts/user@example.com", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandler(t *testing.T) {
	e, _ := createTestHttpService(t, "hunter2")

	// protected routes reject requests without a token
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewBufferString(`{"unlockPassword": "wrong"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewBufferString(`{"unlockPassword": "hunter2"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var tokenResponse authTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokenResponse))
	require.NotEmpty(t, tokenResponse.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
	req.Header.Set(echo.HeaderAuthorization, fmt.Sprintf("Bearer %s", tokenResponse.Token))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsHandlers(t *testing.T) {
	e, _ := createTestHttpService(t, "")

	req := httptest.NewRequest(http.MethodPatch, "/api/settings", bytes.NewBufferString(`{"defaultCountry": "de"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var settings api.SettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "de", settings.DefaultCountry)
}

func TestErrorResponse_StoreFailures(t *testing.T) {
	e, _ := createTestHttpService(t, "")

	// purchase for an unknown account maps to 404
	req := httptest.NewRequest(http.MethodPost, "/api/purchase", bytes.NewBufferString(`{"email": "missing@example.com", "software": {"id": "361309726"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errorResponse api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errorResponse))
	assert.Contains(t, errorResponse.Message, "account not found")
}
