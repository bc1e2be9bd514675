package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type errorResponse struct {
	Error   string          `json:"error"`
	Details []stockShortage `json:"details,omitempty"`
}

type stockShortage struct {
	ProductID string `json:"product_id"`
	Requested int32  `json:"requested"`
	Available int32  `json:"available"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// statusMapping перечисляет сентинелы домена в порядке проверки.
// Всё, что не перечислено, считается инфраструктурной ошибкой и уходит как 500.
var statusMapping = []struct {
	sentinel error
	status   int
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},

	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrProductNotFound, http.StatusNotFound},
	{domain.ErrCategoryNotFound, http.StatusNotFound},
	{domain.ErrCartLineNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},

	{domain.ErrEmailTaken, http.StatusConflict},
	{domain.ErrCategoryNameTaken, http.StatusConflict},
	{domain.ErrProductInactive, http.StatusConflict},

	{domain.ErrEmptyCart, http.StatusBadRequest},
	{domain.ErrInsufficientStock, http.StatusBadRequest},
	{domain.ErrOrderStatusInvalid, http.StatusBadRequest},
	{domain.ErrQtyInvalid, http.StatusBadRequest},
	{domain.ErrPasswordTooShort, http.StatusBadRequest},
	{domain.ErrEmailInvalid, http.StatusBadRequest},
	{domain.ErrUserNameInvalid, http.StatusBadRequest},
	{domain.ErrProductNameInvalid, http.StatusBadRequest},
	{domain.ErrCategoryNameInvalid, http.StatusBadRequest},
	{domain.ErrPriceNegative, http.StatusBadRequest},
	{domain.ErrStockNegative, http.StatusBadRequest},
	{domain.ErrShippingAddressInvalid, http.StatusBadRequest},
	{domain.ErrPhoneNumberInvalid, http.StatusBadRequest},
	{domain.ErrNotesTooLong, http.StatusBadRequest},
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		resp := errorResponse{Error: domain.ErrInsufficientStock.Error()}
		for _, s := range stockErr.Shortages {
			resp.Details = append(resp.Details, stockShortage{
				ProductID: s.ProductID,
				Requested: s.Requested,
				Available: s.Available,
			})
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range statusMapping {
		if errors.Is(err, m.sentinel) {
			writeJSON(w, m.status, errorResponse{Error: m.sentinel.Error()})
			return
		}
	}

	log.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return false
	}
	return true
}
