package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sklad/internal/usecase"
)

// 認証なしの公開カタログ
type PublicHandler struct {
	uc *usecase.ItemUsecase
}

func NewPublicHandler(uc *usecase.ItemUsecase) *PublicHandler {
	return &PublicHandler{uc: uc}
}

func (h *PublicHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/public/items", h.list)
	e.GET("/public/items/:id", h.detail)
}

func (h *PublicHandler) list(c echo.Context) error {
	var workshopID *uuid.UUID
	if raw := c.QueryParam("workshop_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid workshop_id"})
		}
		workshopID = &id
	}

	items, err := h.uc.PublicList(c.Request().Context(), workshopID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *PublicHandler) detail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	item, err := h.uc.PublicDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}
