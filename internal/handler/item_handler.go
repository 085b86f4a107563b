package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskpad/internal/errors"
	"taskpad/internal/model"
	"taskpad/internal/service"
)

// IdentityContextKey is where the resolved identity lives on the echo context.
const IdentityContextKey = "user"

// ItemHandler bundles HTTP handlers for item operations. The owner of every
// operation is the caller's resolved identity; the {user_id} path segment is
// never trusted for authorization.
type ItemHandler struct {
	svc service.ItemService
}

// NewItemHandler creates a handler layer.
func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// CreateItemRequest represents an item creation request.
type CreateItemRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(IdentityContextKey).(*model.User)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return user, nil
}

func itemIDParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.QueryParam("item_id"))
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid item_id")
	}
	return uint(id), nil
}

// ListMine godoc
// @Summary List the caller's items
// @Tags items
// @Produce json
// @Success 200 {array} model.Item
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/me/items/ [get]
func (h *ItemHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.svc.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, items)
}

// Create godoc
// @Summary Create an item owned by the caller
// @Tags items
// @Accept json
// @Produce json
// @Param request body CreateItemRequest true "Item payload"
// @Success 201 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{user_id}/items/ [post]
func (h *ItemHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.svc.Create(c.Request().Context(), user.ID, req.Title, req.Description)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, item)
}

// Finish godoc
// @Summary Mark the caller's item as completed
// @Tags items
// @Produce json
// @Param item_id query int true "Item ID"
// @Success 200 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{user_id}/items/finish [put]
func (h *ItemHandler) Finish(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	itemID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	item, err := h.svc.MarkCompleted(c.Request().Context(), user.ID, itemID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete the caller's item
// @Tags items
// @Produce json
// @Param item_id query int true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{user_id}/items/delete [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	itemID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), user.ID, itemID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "item deleted",
	})
}

// ListAll godoc
// @Summary List all items across all owners
// @Tags items
// @Produce json
// @Success 200 {array} model.Item
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /items/ [get]
func (h *ItemHandler) ListAll(c echo.Context) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	items, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, items)
}
