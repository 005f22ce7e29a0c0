package handler

import (
	"net/http"
	"strconv"
	"time"

	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 取引の照会
type TransactionHandler struct {
	uc *usecase.TransactionUsecase
}

// DI
func NewTransactionHandler(uc *usecase.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// guardにはAuthJWTとLedgerRoleGuardを渡す
func (h *TransactionHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.GET("/transactions", h.list, guard...)
	e.GET("/transactions/:id", h.detail, guard...)
}

func (h *TransactionHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid page"})
		}
		page = p
	}

	// limit（default 50）
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid limit"})
		}
		limit = l
	}

	from, err := parseTimeParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid from"})
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid to"})
	}

	out, err := h.uc.ListTransactions(c.Request().Context(), usecase.ListTransactionsInput{
		Page:         page,
		Limit:        limit,
		StoreCode:    c.QueryParam("store_code"),
		TerminalCode: c.QueryParam("pos_no"),
		From:         from,
		To:           to,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *TransactionHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid id"})
	}

	out, err := h.uc.GetTransaction(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// RFC3339。未指定ならnil
func parseTimeParam(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
