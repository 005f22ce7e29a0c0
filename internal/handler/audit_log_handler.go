package handler

import (
	"net/http"
	"strconv"

	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

// DI
func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

// guardにはAuthJWTとAdminRoleGuardを渡す
func (h *AuditLogHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.GET("/audit-logs", h.list, guard...)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	in := usecase.ListAuditLogsInput{
		Action: c.QueryParam("action"),
		Limit:  50,
	}

	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid resource_id"})
		}
		in.ResourceID = &id
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid limit"})
		}
		in.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid offset"})
		}
		in.Offset = o
	}

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}
