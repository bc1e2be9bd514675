package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	products, err := s.catalog.ListProducts(filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponses(products))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.GetProduct(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

type productRequest struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	PriceMinor           int64  `json:"price_minor"`
	DiscountedPriceMinor *int64 `json:"discounted_price_minor"`
	Brand                string `json:"brand"`
	Size                 string `json:"size"`
	Color                string `json:"color"`
	ImageURL             string `json:"image_url"`
	StockQuantity        int32  `json:"stock_quantity"`
	CategoryID           string `json:"category_id"`
}

func (r *productRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:                 r.Name,
		Description:          r.Description,
		PriceMinor:           r.PriceMinor,
		DiscountedPriceMinor: r.DiscountedPriceMinor,
		Brand:                r.Brand,
		Size:                 r.Size,
		Color:                r.Color,
		ImageURL:             r.ImageURL,
		StockQuantity:        r.StockQuantity,
		CategoryID:           r.CategoryID,
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := s.catalog.CreateProduct(req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := s.catalog.UpdateProduct(chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories()
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.catalog.GetCategory(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.catalog.CreateCategory(catalog.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.catalog.UpdateCategory(chi.URLParam(r, "id"), catalog.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteCategory(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseProductFilter читает фильтры листинга из query-параметров.
// Непарсящиеся числа — ошибка запроса, а не молчаливый пропуск фильтра.
func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		SearchTerm: q.Get("search"),
		CategoryID: q.Get("category_id"),
		Brand:      q.Get("brand"),
		Size:       q.Get("size"),
		Color:      q.Get("color"),
		InStock:    q.Get("in_stock") == "true",
		SortBy:     domain.ProductSort(q.Get("sort_by")),
		SortDesc:   q.Get("sort_order") == "desc",
	}

	for name, dest := range map[string]*int{"page": &filter.Page, "page_size": &filter.PageSize} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return domain.ProductFilter{}, fmt.Errorf("invalid query parameter %s", name)
		}
		*dest = value
	}

	for name, dest := range map[string]**int64{"min_price_minor": &filter.MinPriceMinor, "max_price_minor": &filter.MaxPriceMinor} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.ProductFilter{}, fmt.Errorf("invalid query parameter %s", name)
		}
		*dest = &value
	}

	return filter, nil
}
