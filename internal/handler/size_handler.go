package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sklad/internal/config"
	"sklad/internal/middleware"
	"sklad/internal/usecase"
)

type SizeHandler struct {
	uc     *usecase.StockUsecase
	scopes *usecase.ScopeResolver
}

func NewSizeHandler(uc *usecase.StockUsecase, scopes *usecase.ScopeResolver) *SizeHandler {
	return &SizeHandler{uc: uc, scopes: scopes}
}

type AddSizeRequest struct {
	SizeLabel string  `json:"size_label"`
	Barcode   *string `json:"barcode"`
}

type PatchSizeRequest struct {
	SizeLabel *string `json:"size_label"`
	Quantity  *int64  `json:"quantity"`
	Barcode   *string `json:"barcode"`
}

func (h *SizeHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("", middleware.AuthJWT(cfg))

	g.GET("/items/:item_id/sizes", h.list)
	g.POST("/items/:item_id/sizes", h.add)
	g.PATCH("/items/:item_id/sizes/:id", h.patch)
	g.DELETE("/items/:item_id/sizes/:id", h.delete)
	g.GET("/sizes/by_barcode", h.byBarcode)
}

func (h *SizeHandler) list(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
	}

	sizes, err := h.uc.ListSizes(c.Request().Context(), scope, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sizes)
}

func (h *SizeHandler) add(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
	}
	var req AddSizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	size, err := h.uc.AddSize(c.Request().Context(), scope, itemID, req.SizeLabel, req.Barcode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, size)
}

func (h *SizeHandler) patch(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
	}
	sizeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid size id"})
	}
	var req PatchSizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	size, err := h.uc.PatchSize(c.Request().Context(), scope, itemID, sizeID, usecase.PatchSizeInput{
		SizeLabel: req.SizeLabel,
		Quantity:  req.Quantity,
		Barcode:   req.Barcode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, size)
}

func (h *SizeHandler) delete(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item id"})
	}
	sizeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid size id"})
	}

	if err := h.uc.DeleteSize(c.Request().Context(), scope, itemID, sizeID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SizeHandler) byBarcode(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	code := c.QueryParam("barcode")
	if code == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "barcode is required"})
	}

	hit, err := h.uc.FindByBarcode(c.Request().Context(), scope, code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hit)
}
