package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

// 支払いフォームのフィールド別エラー
type PaymentErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// /orders/{id}/payのHTTP
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("/:id/pay", h.pay)
}

func (h *PaymentHandler) pay(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var form validator.PaymentForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PayOrder(c.Request().Context(), userID, orderID, form)
	if err != nil {
		//フィールド別エラーは400でfieldsごと返す
		var fieldErrs validator.FieldErrors
		if ok := asFieldErrors(err, &fieldErrs); ok {
			return c.JSON(http.StatusBadRequest, PaymentErrorResponse{
				Error:  "validation failed",
				Fields: fieldErrs,
			})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func asFieldErrors(err error, target *validator.FieldErrors) bool {
	fe, ok := err.(validator.FieldErrors)
	if !ok {
		return false
	}
	*target = fe
	return true
}
