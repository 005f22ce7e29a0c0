package handler

import (
	"net/http"

	"pos/internal/domain/model"
	"pos/internal/middleware"
	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// POST/PUT /products の入力
type ProductRequest struct {
	Code  model.ProductCode `json:"code" validate:"max=32"`
	Name  string            `json:"name" validate:"notblank"`
	Price int64             `json:"price" validate:"gte=0"`
}

// 商品マスタの変更（ADMINのみ）
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// guardにはAuthJWTとAdminRoleGuardを渡す
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, guard ...echo.MiddlewareFunc) {
	e.POST("/products", h.createProduct, guard...)
	e.PUT("/products/:code", h.updateProduct, guard...)
	e.DELETE("/products/:code", h.deleteProduct, guard...)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), middleware.Actor(c), usecase.ProductInput{
		Code:  req.Code,
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	p, err := h.uc.UpdateProduct(
		c.Request().Context(),
		middleware.Actor(c),
		model.ProductCode(c.Param("code")),
		usecase.ProductInput{
			Code:  req.Code,
			Name:  req.Name,
			Price: req.Price,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	err := h.uc.DeleteProduct(c.Request().Context(), middleware.Actor(c), model.ProductCode(c.Param("code")))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Product deleted"})
}
