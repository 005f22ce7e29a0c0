package handler

import (
	"net/http"

	"pos/internal/domain/model"
	"pos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// レジから送られる1行
type PurchaseLineRequest struct {
	Code     model.ProductCode `json:"code" validate:"notblank,max=32"`
	Quantity int64             `json:"quantity" validate:"gte=1"`
}

// POST /purchase の入力
type PurchaseRequest struct {
	EmpCode   string                `json:"emp_code" validate:"max=10"`
	StoreCode string                `json:"store_code" validate:"max=5"`
	PosNo     string                `json:"pos_no" validate:"max=3"`
	Products  []PurchaseLineRequest `json:"products" validate:"required,min=1,dive"`
}

type PurchaseHandler struct {
	uc *usecase.PurchaseUsecase
}

// DI
func NewPurchaseHandler(uc *usecase.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// 末尾スラッシュ有無どちらでも受ける（レジは/purchase/で送ってくる）
func (h *PurchaseHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/purchase", h.purchase)
	e.POST("/purchase/", h.purchase)
}

func (h *PurchaseHandler) purchase(c echo.Context) error {
	var req PurchaseRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	lines := make([]usecase.PurchaseLineInput, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, usecase.PurchaseLineInput{
			ProductCode: p.Code,
			Quantity:    p.Quantity,
		})
	}

	out, err := h.uc.Purchase(c.Request().Context(), usecase.PurchaseInput{
		EmployeeCode: req.EmpCode,
		StoreCode:    req.StoreCode,
		TerminalCode: req.PosNo,
		Lines:        lines,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
