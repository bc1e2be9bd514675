package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
)

// Денежные поля во всех ответах — целые минимальные единицы валюты.

type productResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description,omitempty"`
	PriceMinor           int64     `json:"price_minor"`
	DiscountedPriceMinor *int64    `json:"discounted_price_minor,omitempty"`
	Brand                string    `json:"brand,omitempty"`
	Size                 string    `json:"size,omitempty"`
	Color                string    `json:"color,omitempty"`
	ImageURL             string    `json:"image_url,omitempty"`
	StockQuantity        int32     `json:"stock_quantity"`
	IsActive             bool      `json:"is_active"`
	CategoryID           string    `json:"category_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		PriceMinor:           p.PriceMinor,
		DiscountedPriceMinor: p.DiscountedPriceMinor,
		Brand:                p.Brand,
		Size:                 p.Size,
		Color:                p.Color,
		ImageURL:             p.ImageURL,
		StockQuantity:        p.StockQuantity,
		IsActive:             p.IsActive,
		CategoryID:           p.CategoryID,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type cartItemResponse struct {
	ProductID       string          `json:"product_id"`
	Qty             int32           `json:"qty"`
	UnitPriceMinor  int64           `json:"unit_price_minor"`
	TotalPriceMinor int64           `json:"total_price_minor"`
	Product         productResponse `json:"product"`
}

type cartResponse struct {
	Items            []cartItemResponse `json:"items"`
	TotalItems       int32              `json:"total_items"`
	TotalAmountMinor int64              `json:"total_amount_minor"`
}

func toCartResponse(view cart.View) cartResponse {
	resp := cartResponse{
		Items:            make([]cartItemResponse, 0, len(view.Lines)),
		TotalItems:       view.TotalItems,
		TotalAmountMinor: view.TotalAmountMinor,
	}
	for i := range view.Lines {
		line := &view.Lines[i]
		resp.Items = append(resp.Items, cartItemResponse{
			ProductID:       line.Line.ProductID,
			Qty:             line.Line.Qty,
			UnitPriceMinor:  line.UnitPriceMinor(),
			TotalPriceMinor: line.TotalPriceMinor(),
			Product:         toProductResponse(line.Product),
		})
	}
	return resp
}

type orderItemResponse struct {
	ProductID       string `json:"product_id"`
	Qty             int32  `json:"qty"`
	UnitPriceMinor  int64  `json:"unit_price_minor"`
	TotalPriceMinor int64  `json:"total_price_minor"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	OrderNumber      string              `json:"order_number"`
	Status           string              `json:"status"`
	TotalAmountMinor int64               `json:"total_amount_minor"`
	ShippingAddress  string              `json:"shipping_address"`
	PhoneNumber      string              `json:"phone_number"`
	Notes            string              `json:"notes,omitempty"`
	OrderDate        time.Time           `json:"order_date"`
	ShippedDate      *time.Time          `json:"shipped_date,omitempty"`
	DeliveredDate    *time.Time          `json:"delivered_date,omitempty"`
	Items            []orderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		Status:           string(o.Status),
		TotalAmountMinor: o.TotalAmountMinor,
		ShippingAddress:  o.ShippingAddress,
		PhoneNumber:      o.PhoneNumber,
		Notes:            o.Notes,
		OrderDate:        o.OrderDate,
		ShippedDate:      o.ShippedDate,
		DeliveredDate:    o.DeliveredDate,
		Items:            make([]orderItemResponse, 0, len(o.Items)),
		CreatedAt:        o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:       item.ProductID,
			Qty:             item.Qty,
			UnitPriceMinor:  item.UnitPriceMinor,
			TotalPriceMinor: item.TotalPriceMinor,
		})
	}
	return resp
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

type userResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}
