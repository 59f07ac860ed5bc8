package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "account-pool-system.com/account-pool-system/internal/errors"
	"account-pool-system.com/account-pool-system/internal/http/validators"
	"account-pool-system.com/account-pool-system/internal/services"
)

type Handler struct {
	accountService *services.AccountService
	accountPrefix  string
	logger         *zap.Logger
}

type AccountNumberResponse struct {
	AccountNumber string `json:"account_number"`
}

func NewHandler(accountService *services.AccountService, accountPrefix string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		accountService: accountService,
		accountPrefix:  accountPrefix,
		logger:         logger,
	}
}

func (h *Handler) NextAccount(c echo.Context) error {
	accountNumber, ok, err := h.accountService.Allocate(c.Request().Context())
	if err != nil {
		h.logger.Error("allocate account failed", zap.Error(err), zap.String("request_id", RequestID(c)))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to allocate account")
	}
	if !ok {
		return httpError(apperrors.ErrNoAccountAvailable)
	}

	return c.JSON(http.StatusOK, AccountNumberResponse{AccountNumber: accountNumber})
}

func (h *Handler) ReturnAccount(c echo.Context) error {
	accountNumber := c.Param("accountNumber")
	if err := validators.ValidateAccountNumber(accountNumber, h.accountPrefix); err != nil {
		return httpError(err)
	}

	if err := h.accountService.Return(c.Request().Context(), accountNumber); err != nil {
		mapped := apperrors.FromDomain(err)
		if apperrors.StatusCode(mapped) != http.StatusInternalServerError {
			return httpError(mapped)
		}
		h.logger.Error("return account failed", zap.Error(err), zap.String("request_id", RequestID(c)))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to return account")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetAccount(c echo.Context) error {
	accountNumber := c.Param("accountNumber")
	if err := validators.ValidateAccountNumber(accountNumber, h.accountPrefix); err != nil {
		return httpError(err)
	}

	account, err := h.accountService.GetAccount(c.Request().Context(), accountNumber)
	if err != nil {
		mapped := apperrors.FromDomain(err)
		if apperrors.StatusCode(mapped) != http.StatusInternalServerError {
			return httpError(mapped)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load account")
	}

	return c.JSON(http.StatusOK, account)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
