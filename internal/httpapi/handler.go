// Package httpapi exposes the cart of a single session over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/notify"
)

// CartService is the operation surface of the cart store.
type CartService interface {
	CurrentCart() domain.Cart
	AddItem(ctx context.Context, id domain.ProductID) (domain.Cart, error)
	RemoveItem(ctx context.Context, id domain.ProductID) (domain.Cart, error)
	SetQuantity(ctx context.Context, id domain.ProductID, amount int) (domain.Cart, bool, error)
}

type Handler struct {
	svc CartService
}

func NewHandler(svc CartService) *Handler {
	return &Handler{svc: svc}
}

type LineItemResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Price    string `json:"price"`
	Currency string `json:"currency,omitempty"`
	Amount   int    `json:"amount"`
	Subtotal string `json:"subtotal"`
}

type CartResponse struct {
	Items   []LineItemResponse `json:"items"`
	Total   string             `json:"total,omitempty"`
	Updated *bool              `json:"updated,omitempty"`
	Message string             `json:"message,omitempty"`
}

type SetQuantityRequest struct {
	Amount *int `json:"amount"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Outcome string `json:"outcome,omitempty"`
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)

	g := e.Group("/cart")
	g.GET("", h.getCart)
	g.POST("/items/:productId", h.addItem)
	g.PUT("/items/:productId", h.setQuantity)
	g.DELETE("/items/:productId", h.removeItem)
}

func (h *Handler) health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *Handler) getCart(c echo.Context) error {
	return c.JSON(http.StatusOK, toResponse(h.svc.CurrentCart()))
}

func (h *Handler) addItem(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	cart, err := h.svc.AddItem(c.Request().Context(), id)
	if err != nil {
		return writeError(c, domain.OpAdd, id, err)
	}

	return writeCart(c, domain.OpAdd, id, cart, domain.OutcomeUpdated, nil)
}

func (h *Handler) removeItem(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	cart, err := h.svc.RemoveItem(c.Request().Context(), id)
	if err != nil {
		return writeError(c, domain.OpRemove, id, err)
	}

	return writeCart(c, domain.OpRemove, id, cart, domain.OutcomeUpdated, nil)
}

func (h *Handler) setQuantity(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product id"})
	}

	var req SetQuantityRequest
	if err := c.Bind(&req); err != nil || req.Amount == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cart, updated, err := h.svc.SetQuantity(c.Request().Context(), id, *req.Amount)
	if err != nil {
		return writeError(c, domain.OpSetQuantity, id, err)
	}

	kind := domain.OutcomeUpdated
	if !updated {
		kind = domain.OutcomeUnchanged
	}

	return writeCart(c, domain.OpSetQuantity, id, cart, kind, &updated)
}

func productID(c echo.Context) (domain.ProductID, error) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return 0, err
	}
	return domain.ProductID(id), nil
}

func writeCart(c echo.Context, op domain.Operation, id domain.ProductID, cart domain.Cart, kind domain.OutcomeKind, updated *bool) error {
	resp := toResponse(cart)
	resp.Updated = updated
	resp.Message = notify.Message(domain.Outcome{Op: op, ProductID: id, Kind: kind})

	return c.JSON(http.StatusOK, resp)
}

func writeError(c echo.Context, op domain.Operation, id domain.ProductID, err error) error {
	o := domain.Outcome{Op: op, ProductID: id, Kind: domain.Classify(op, err), Err: err}

	return c.JSON(statusFor(err), ErrorResponse{
		Error:   notify.Message(o),
		Outcome: o.Kind.String(),
	})
}

// statusFor looks at the cause, so an add that failed for lack of stock is a
// conflict like any other out-of-stock request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLookup), errors.Is(err, domain.ErrStockLookup):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrPersist):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(cart domain.Cart) CartResponse {
	items := make([]LineItemResponse, 0, cart.Len())

	for _, it := range cart.Items {
		items = append(items, LineItemResponse{
			ID:       int64(it.ProductID),
			Title:    it.Title,
			Image:    it.Image,
			Price:    it.Price.Amount.String(),
			Currency: it.Price.Code(),
			Amount:   it.Quantity,
			Subtotal: it.Subtotal().Amount.StringFixed(2),
		})
	}

	resp := CartResponse{Items: items}

	// a cart mixing currencies has no single total
	if total, err := cart.Total(); err == nil {
		resp.Total = total.Amount.StringFixed(2)
	}

	return resp
}
