package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ipahub/ipahub/accounts"
	"github.com/ipahub/ipahub/api"
	"github.com/ipahub/ipahub/config"
	"github.com/ipahub/ipahub/downloads"
	"github.com/ipahub/ipahub/logger"
	"github.com/ipahub/ipahub/lookup"
	"github.com/ipahub/ipahub/service"
	"github.com/ipahub/ipahub/store"
)

type authTokenResponse struct {
	Token string `json:"token"`
}

type authRequest struct {
	UnlockPassword string `json:"unlockPassword"`
}

type HttpService struct {
	api api.API
	cfg config.Config
}

func NewHttpService(svc service.Service) *HttpService {
	return &HttpService{
		api: api.NewAPI(svc.GetDB(), svc.GetConfig(), svc.GetAccountsService(), svc.GetDownloadsService(), svc.GetLookupService(), svc.GetStoreClient()),
		cfg: svc.GetConfig(),
	}
}

func (httpSvc *HttpService) RegisterSharedRoutes(e *echo.Echo) {
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			logger.HttpLogger.Info().
				Str("uri", values.URI).
				Int("status", values.Status).
				Str("remote_ip", values.RemoteIP).
				Str("user_agent", values.UserAgent).
				Str("request_id", values.RequestID).
				Msg("handled API request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/api/info", httpSvc.infoHandler)
	e.POST("/api/auth", httpSvc.authHandler)

	g := e.Group("")
	if httpSvc.cfg.AuthEnabled() {
		secret, err := httpSvc.cfg.GetJWTSecret()
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to load JWT secret")
		}
		g.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(secret),
		}))
	}

	g.GET("/api/accounts", httpSvc.listAccountsHandler)
	g.POST("/api/accounts", httpSvc.createAccountHandler)
	g.DELETE("/api/accounts/:email", httpSvc.deleteAccountHandler)

	g.GET("/api/lookup", httpSvc.lookupHandler)
	g.POST("/api/purchase", httpSvc.purchaseHandler)
	g.POST("/api/versions", httpSvc.listVersionsHandler)

	g.POST("/api/downloads", httpSvc.resolveDownloadHandler)
	g.GET("/api/downloads", httpSvc.listDownloadsHandler)
	g.PATCH("/api/downloads/:id", httpSvc.updateDownloadStateHandler)
	g.DELETE("/api/downloads/:id", httpSvc.deleteDownloadHandler)

	g.GET("/api/settings", httpSvc.getSettingsHandler)
	g.PATCH("/api/settings", httpSvc.updateSettingsHandler)
}

func (httpSvc *HttpService) infoHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, httpSvc.api.GetInfo())
}

func (httpSvc *HttpService) authHandler(c echo.Context) error {
	var authRequest authRequest
	if err := c.Bind(&authRequest); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	if !httpSvc.cfg.CheckUnlockPassword(authRequest.UnlockPassword) {
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Message: "Invalid password",
		})
	}

	token, err := httpSvc.createJWT()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Message: fmt.Sprintf("Failed to create token: %s", err.Error()),
		})
	}

	return c.JSON(http.StatusOK, &authTokenResponse{
		Token: token,
	})
}

func (httpSvc *HttpService) createJWT() (string, error) {
	secret, err := httpSvc.cfg.GetJWTSecret()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
	})
	return token.SignedString([]byte(secret))
}

func (httpSvc *HttpService) listAccountsHandler(c echo.Context) error {
	apiAccounts, err := httpSvc.api.ListAccounts()
	if err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, apiAccounts)
}

func (httpSvc *HttpService) createAccountHandler(c echo.Context) error {
	var createAccountRequest api.CreateAccountRequest
	if err := c.Bind(&createAccountRequest); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	account, err := httpSvc.api.CreateAccount(&createAccountRequest)
	if err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, account)
}

func (httpSvc *HttpService) deleteAccountHandler(c echo.Context) error {
	if err := httpSvc.api.DeleteAccount(c.Param("email")); err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) lookupHandler(c echo.Context) error {
	bundleID := c.QueryParam("bundleId")
	if bundleID == "" {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: "bundleId is required",
		})
	}

	software, err := httpSvc.api.LookupApp(c.Request().Context(), bundleID, c.QueryParam("country"))
	if err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, software)
}

func (httpSvc *HttpService) purchaseHandler(c echo.Context) error {
	var purchaseAppRequest api.PurchaseAppRequest
	if err := c.Bind(&purchaseAppRequest); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	if err := httpSvc.api.PurchaseApp(c.Request().Context(), &purchaseAppRequest); err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) listVersionsHandler(c echo.Context) error {
	var listVersionsRequest api.ListVersionsRequest
	if err := c.Bind(&listVersionsRequest); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	response, err := httpSvc.api.ListVersions(c.Request().Context(), &listVersionsRequest)
	if err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

func (httpSvc *HttpService) resolveDownloadHandler(c echo.Context) error {
	var resolveDownloadRequest api.ResolveDownloadRequest
	if err := c.Bind(&resolveDownloadRequest); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	download, err := httpSvc.api.ResolveDownload(c.Request().Context(), &resolveDownloadRequest)
	if err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, download)
}

func (httpSvc *HttpService) listDownloadsHandler(c echo.Context) error {
	limit, _ := strconv.ParseUint(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseUint(c.QueryParam("offset"), 10, 64)

	response, err := httpSvc.api.ListDownloads(limit, offset)
	if err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, response)
}

func (httpSvc *HttpService) updateDownloadStateHandler(c echo.Context) error {
	downloadID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: "Invalid download id",
		})
	}

	var updateDownloadStateRequest api.UpdateDownloadStateRequest
	if err := c.Bind(&updateDownloadStateRequest); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	if err := httpSvc.api.UpdateDownloadState(uint(downloadID), &updateDownloadStateRequest); err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) deleteDownloadHandler(c echo.Context) error {
	downloadID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: "Invalid download id",
		})
	}

	if err := httpSvc.api.DeleteDownload(uint(downloadID)); err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (httpSvc *HttpService) getSettingsHandler(c echo.Context) error {
	settings, err := httpSvc.api.GetSettings()
	if err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

func (httpSvc *HttpService) updateSettingsHandler(c echo.Context) error {
	var updateSettingsRequest api.UpdateSettingsRequest
	if err := c.Bind(&updateSettingsRequest); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Message: fmt.Sprintf("Bad request: %s", err.Error()),
		})
	}

	if err := httpSvc.api.UpdateSettings(&updateSettingsRequest); err != nil {
		return httpSvc.errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// errorResponse maps the store failure taxonomy onto HTTP statuses. Store
// failures keep their customer-facing message.
func (httpSvc *HttpService) errorResponse(c echo.Context, err error) error {
	var termsErr *store.TermsError
	var transportErr *store.TransportError
	var malformedErr *store.MalformedResponseError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, accounts.ErrAccountNotFound),
		errors.Is(err, lookup.ErrAppNotFound),
		errors.Is(err, downloads.ErrDownloadNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrPaidAppsNotSupported):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.As(err, &termsErr):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrSubscriptionRequired),
		errors.Is(err, store.ErrTemporarilyUnavailable):
		status = http.StatusConflict
	case errors.As(err, &transportErr), errors.As(err, &malformedErr):
		status = http.StatusBadGateway
	}

	return c.JSON(status, api.ErrorResponse{
		Message: err.Error(),
	})
}
