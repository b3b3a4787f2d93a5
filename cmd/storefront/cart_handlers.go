package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"storefront/pkg/account"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/otel"
	"storefront/pkg/session"
)

type cartResponse struct {
	Lines      []cart.Line `json:"lines"`
	AddedIDs   []string    `json:"addedIds"`
	TotalCount int         `json:"totalCount"`
	TotalPrice float64     `json:"totalPrice"`
}

type addItemRequest struct {
	ID catalog.ID `json:"id" swaggertype:"string"`
}

type toggleResponse struct {
	InCart     bool `json:"inCart"`
	TotalCount int  `json:"totalCount"`
}

type checkoutRequest struct {
	City string `json:"city"`
}

// cartView reads the whole cart once for rendering.
func cartView(ctx context.Context, c *cart.Store) (cartResponse, error) {
	lines, err := c.Lines(ctx)
	if err != nil {
		return cartResponse{}, err
	}
	ids, err := c.AddedIDs(ctx)
	if err != nil {
		return cartResponse{}, err
	}
	resp := cartResponse{Lines: lines, AddedIDs: ids.Slice(), TotalPrice: cart.Total(lines)}
	for _, l := range lines {
		resp.TotalCount += l.Quantity
	}
	return resp, nil
}

func (s *server) writeCart(ctx context.Context, w http.ResponseWriter, c *cart.Store) {
	resp, err := cartView(ctx, c)
	if err != nil {
		s.log.Error(ctx, "load cart", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// getCartHandler returns the cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartResponse
// @Router /cart [get]
func (s *server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	s.writeCart(ctx, w, s.cartFor(ctx))
}

// addCartItemHandler adds one unit of a catalog product.
// @Summary Add to cart
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Product"
// @Success 200 {object} cartResponse
// @Failure 404 {object} errorResponse
// @Router /cart/items [post]
func (s *server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addCartItemHandler")
	defer span.End()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.catalog.Get(req.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	c := s.cartFor(ctx)
	if err := c.AddItem(ctx, cart.ItemFromProduct(p)); err != nil {
		s.log.Error(ctx, "add cart item", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeCart(ctx, w, c)
}

// removeCartItemHandler removes a product from the cart.
// @Summary Remove from cart
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} cartResponse
// @Failure 400 {object} errorResponse
// @Router /cart/items/{id} [delete]
func (s *server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeCartItemHandler")
	defer span.End()

	id, err := catalog.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := s.cartFor(ctx)
	if err := c.RemoveItem(ctx, id); err != nil {
		s.log.Error(ctx, "remove cart item", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeCart(ctx, w, c)
}

// toggleCartItemHandler flips a product in or out of the cart.
// @Summary Toggle cart item
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} toggleResponse
// @Failure 404 {object} errorResponse
// @Router /cart/items/{id}/toggle [post]
func (s *server) toggleCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "toggleCartItemHandler")
	defer span.End()

	p, err := s.lookupProduct(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	c := s.cartFor(ctx)
	in, err := c.Toggle(ctx, cart.ItemFromProduct(p))
	if err != nil {
		s.log.Error(ctx, "toggle cart item", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	count, err := c.TotalCount(ctx)
	if err != nil {
		s.log.Error(ctx, "count cart", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{InCart: in, TotalCount: count})
}

// checkoutHandler places an order for the cart.
// @Summary Checkout
// @Accept json
// @Produce json
// @Param order body checkoutRequest true "Delivery"
// @Success 201 {object} order.Order
// @Failure 400 {object} errorResponse
// @Router /checkout [post]
func (s *server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkoutHandler")
	defer span.End()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.sessionFor(ctx)
	var user *account.Profile
	p, err := sess.Current(ctx)
	switch {
	case err == nil:
		user = &p
	case !errors.Is(err, session.ErrNoSession):
		s.log.Error(ctx, "load session", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	o, err := s.checkout.Checkout(ctx, s.cartFor(ctx), user, req.City)
	if errors.Is(err, checkout.ErrCityRequired) || errors.Is(err, checkout.ErrEmptyCart) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error(ctx, "checkout", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if user != nil {
		user.Orders = append(user.Orders, o.ID)
		if err := sess.Set(ctx, *user); err != nil {
			s.log.Warn(ctx, "refresh session after checkout", "error", err)
		}
	}
	writeJSON(w, http.StatusCreated, o)
}
