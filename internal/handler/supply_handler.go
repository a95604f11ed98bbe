package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sklad/internal/config"
	"sklad/internal/middleware"
	"sklad/internal/usecase"
)

type SupplyHandler struct {
	uc     *usecase.SupplyUsecase
	scopes *usecase.ScopeResolver
}

func NewSupplyHandler(uc *usecase.SupplyUsecase, scopes *usecase.ScopeResolver) *SupplyHandler {
	return &SupplyHandler{uc: uc, scopes: scopes}
}

type SupplyLineRequest struct {
	ItemID    uuid.UUID `json:"item_id"`
	SizeLabel string    `json:"size_label"`
	Quantity  int64     `json:"quantity"`
}

type CreateSupplyRequest struct {
	Type  string              `json:"type"`
	Lines []SupplyLineRequest `json:"lines"`
}

func (h *SupplyHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/supplies")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.detail)
}

func (h *SupplyHandler) list(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}

	var itemID *uuid.UUID
	if raw := c.QueryParam("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid item_id"})
		}
		itemID = &id
	}

	supplies, err := h.uc.List(c.Request().Context(), scope, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, supplies)
}

func (h *SupplyHandler) create(c echo.Context) error {
	scope, userID, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	var req CreateSupplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CreateSupplyInput{Type: req.Type}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, usecase.SupplyLineInput{
			ItemID:    l.ItemID,
			SizeLabel: l.SizeLabel,
			Quantity:  l.Quantity,
		})
	}

	supply, err := h.uc.Create(c.Request().Context(), scope, &userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, supply)
}

func (h *SupplyHandler) detail(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	supply, err := h.uc.Detail(c.Request().Context(), scope, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, supply)
}
