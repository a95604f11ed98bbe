package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"sklad/internal/config"
	"sklad/internal/middleware"
	"sklad/internal/usecase"
)

type ItemHandler struct {
	uc     *usecase.ItemUsecase
	scopes *usecase.ScopeResolver
}

func NewItemHandler(uc *usecase.ItemUsecase, scopes *usecase.ScopeResolver) *ItemHandler {
	return &ItemHandler{uc: uc, scopes: scopes}
}

type ItemRequest struct {
	Name        string           `json:"name"`
	Photo       string           `json:"photo"`
	Description string           `json:"item_description"`
	Price       *decimal.Decimal `json:"price"`
	WBURL       string           `json:"wb_url"`
	OzonURL     string           `json:"ozon_url"`
}

type ItemPatchRequest struct {
	Name        *string          `json:"name"`
	Photo       *string          `json:"photo"`
	Description *string          `json:"item_description"`
	Price       *decimal.Decimal `json:"price"`
	WBURL       *string          `json:"wb_url"`
	OzonURL     *string          `json:"ozon_url"`
}

func (h *ItemHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/items")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:item_id", h.detail)
	g.PUT("/:item_id", h.update)
	g.PATCH("/:item_id", h.patch)
	g.DELETE("/:item_id", h.delete)
}

func (h *ItemHandler) list(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}

	items, err := h.uc.List(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) detail(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	item, err := h.uc.Detail(c.Request().Context(), scope, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) create(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	item, err := h.uc.Create(c.Request().Context(), scope, usecase.ItemInput{
		Name:        req.Name,
		Photo:       req.Photo,
		Description: req.Description,
		Price:       req.Price,
		WBURL:       req.WBURL,
		OzonURL:     req.OzonURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) update(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	item, err := h.uc.Update(c.Request().Context(), scope, id, usecase.ItemInput{
		Name:        req.Name,
		Photo:       req.Photo,
		Description: req.Description,
		Price:       req.Price,
		WBURL:       req.WBURL,
		OzonURL:     req.OzonURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) patch(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req ItemPatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	item, err := h.uc.Patch(c.Request().Context(), scope, id, usecase.PatchItemInput{
		Name:        req.Name,
		Photo:       req.Photo,
		Description: req.Description,
		Price:       req.Price,
		WBURL:       req.WBURL,
		OzonURL:     req.OzonURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) delete(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), scope, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
