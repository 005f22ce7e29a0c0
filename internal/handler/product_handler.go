package handler

import (
	"net/http"

	"pos/internal/domain/model"
	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products の公開API（レジの読み取り）
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:code", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	items, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if items == nil {
		items = []model.Product{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), model.ProductCode(c.Param("code")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
