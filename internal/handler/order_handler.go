package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sklad/internal/config"
	"sklad/internal/middleware"
	"sklad/internal/usecase"
)

type OrderHandler struct {
	uc     *usecase.OrderUsecase
	scopes *usecase.ScopeResolver
}

func NewOrderHandler(uc *usecase.OrderUsecase, scopes *usecase.ScopeResolver) *OrderHandler {
	return &OrderHandler{uc: uc, scopes: scopes}
}

type OrderLineRequest struct {
	ItemID    uuid.UUID `json:"item_id"`
	SizeLabel string    `json:"size_label"`
	Quantity  int64     `json:"quantity"`
}

type CreateOrderRequest struct {
	Source          string             `json:"source"`
	DeliveryAddress string             `json:"delivery_address"`
	ClientPhone     string             `json:"client_phone"`
	Lines           []OrderLineRequest `json:"lines"`
}

type PatchOrderRequest struct {
	Source          *string `json:"source"`
	DeliveryAddress *string `json:"delivery_address"`
	ClientPhone     *string `json:"client_phone"`
	Status          *string `json:"status"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.detail)
	g.PATCH("/:id", h.patch)
	g.POST("/:id/set-status", h.setStatus)
}

func (h *OrderHandler) list(c echo.Context) error {
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

	orders, err := h.uc.List(c.Request().Context(), scope, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) create(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CreateOrderInput{
		Source:          req.Source,
		DeliveryAddress: req.DeliveryAddress,
		ClientPhone:     req.ClientPhone,
	}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, usecase.OrderLineInput{
			ItemID:    l.ItemID,
			SizeLabel: l.SizeLabel,
			Quantity:  l.Quantity,
		})
	}

	order, err := h.uc.Create(c.Request().Context(), scope, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) detail(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := parseOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	order, err := h.uc.Detail(c.Request().Context(), scope, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) patch(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := parseOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req PatchOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	order, err := h.uc.Patch(c.Request().Context(), scope, id, usecase.PatchOrderInput{
		Source:          req.Source,
		DeliveryAddress: req.DeliveryAddress,
		ClientPhone:     req.ClientPhone,
		Status:          req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) setStatus(c echo.Context) error {
	scope, _, err := scopeFromContext(c, h.scopes)
	if err != nil {
		return writeError(c, err)
	}
	id, err := parseOrderID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	var req SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	order, err := h.uc.SetStatus(c.Request().Context(), scope, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func parseOrderID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
