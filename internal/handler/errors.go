package handler

import (
	"net/http"

	"pos/internal/logger"
	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// エラーは全部 {"message": "..."} で返す
type ErrorResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(c.Request().Context())

	if he, ok := usecase.AsHTTPError(err); ok {
		//原因はログだけに出す
		if he.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		return c.JSON(he.Status, ErrorResponse{Message: he.Message})
	}

	//500
	log.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
}

// BindとValidateをまとめる（失敗時はレスポンス済み）
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	}
	return true, nil
}
