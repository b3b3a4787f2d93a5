package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"storefront/pkg/catalog"
	"storefront/pkg/otel"
)

// productCard is a product as listed, with its cart state.
type productCard struct {
	catalog.Product
	Subtitle string `json:"subtitle"`
	InCart   bool   `json:"inCart"`
}

type listProductsResponse struct {
	Products   []productCard `json:"products"`
	TotalCount int           `json:"totalCount"`
}

type sliderState struct {
	Current int    `json:"current"`
	Count   int    `json:"count"`
	Image   string `json:"image,omitempty"`
}

type productResponse struct {
	Product catalog.Product `json:"product"`
	InCart  bool            `json:"inCart"`
	Slider  sliderState     `json:"slider"`
}

// queryFromValues reads the listing filters from a URL query.
func queryFromValues(v url.Values) catalog.Query {
	q := catalog.Query{
		Text:       v.Get("q"),
		Sizes:      v["size"],
		Brands:     v["brand"],
		Categories: v["category"],
	}
	if lo, err := strconv.ParseFloat(v.Get("min"), 64); err == nil {
		q.MinPrice = lo
	}
	if hi, err := strconv.ParseFloat(v.Get("max"), 64); err == nil {
		q.MaxPrice = hi
	}
	return q
}

// listProductsHandler lists products matching the filters.
// @Summary List products
// @Produce json
// @Param q query string false "Search text"
// @Param size query []string false "Sizes" collectionFormat(multi)
// @Param brand query []string false "Brands" collectionFormat(multi)
// @Param category query []string false "Categories" collectionFormat(multi)
// @Param min query number false "Minimum price"
// @Param max query number false "Maximum price"
// @Success 200 {object} listProductsResponse
// @Router /products [get]
func (s *server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listProductsHandler")
	defer span.End()

	c := s.cartFor(ctx)
	added, err := c.AddedIDs(ctx)
	if err != nil {
		s.log.Error(ctx, "load cart ids", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	count, err := c.TotalCount(ctx)
	if err != nil {
		s.log.Error(ctx, "count cart", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := listProductsResponse{Products: []productCard{}, TotalCount: count}
	for _, p := range s.catalog.Filter(queryFromValues(r.URL.Query())) {
		resp.Products = append(resp.Products, productCard{
			Product:  p,
			Subtitle: p.Subtitle(),
			InCart:   added.Contains(p.ID.String()),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// getProductHandler returns one product with its slider state.
// @Summary Get product
// @Produce json
// @Param id path string true "Product ID"
// @Param image query int false "Selected image index"
// @Param step query string false "next or prev"
// @Success 200 {object} productResponse
// @Failure 404 {object} errorResponse
// @Router /products/{id} [get]
func (s *server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getProductHandler")
	defer span.End()

	p, err := s.lookupProduct(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	in, err := s.cartFor(ctx).Contains(ctx, p.ID)
	if err != nil {
		s.log.Error(ctx, "load cart ids", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slider := catalog.NewSlider(len(p.Images))
	if i, err := strconv.Atoi(r.URL.Query().Get("image")); err == nil {
		slider.Select(i)
	}
	switch r.URL.Query().Get("step") {
	case "next":
		slider.Next()
	case "prev":
		slider.Prev()
	}
	state := sliderState{Current: slider.Current(), Count: slider.Count()}
	if slider.Count() > 0 {
		state.Image = p.Images[slider.Current()]
	}

	writeJSON(w, http.StatusOK, productResponse{Product: p, InCart: in, Slider: state})
}

// lookupProduct resolves a path id. Malformed ids are as unknown as
// missing ones.
func (s *server) lookupProduct(raw string) (catalog.Product, error) {
	id, err := catalog.ParseID(raw)
	if err != nil {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return s.catalog.Get(id)
}
