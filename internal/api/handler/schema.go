package handler

import "github.com/shopspring/decimal"

// --- Requests ---

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type userRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=ADMIN SELLER"`
}

type priceRequest struct {
	Price decimal.NullDecimal `json:"price" swaggertype:"string" example:"12.50"`
}

type productPromotionRequest struct {
	IsPromotional *bool  `json:"is_promotional" validate:"required"`
	Reason        string `json:"reason"`
}

type stockRequest struct {
	Scope      string `json:"scope" validate:"required,oneof=ALL CATEGORY SINGLE"`
	Quantity   *int   `json:"quantity" validate:"required,gte=0"`
	CategoryID string `json:"category_id,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
}

type createPromotionRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	ProductName string `json:"product_name,omitempty"`
	Reason      string `json:"reason" validate:"required"`
	Hour        int    `json:"hour" validate:"gte=7,lte=23"`
}

type updatePromotionRequest struct {
	Reason *string `json:"reason,omitempty"`
	Hour   *int    `json:"hour,omitempty" validate:"omitempty,gte=7,lte=23"`
}

type cartItemRequest struct {
	ID        string `json:"id,omitempty"`
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=100"`
	SellTime  int    `json:"sell_time" validate:"gte=7,lte=23"`
}

type generateTicketRequest struct {
	Items []cartItemRequest `json:"items" validate:"required,min=1,dive"`
}

// --- Responses ---

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CategoryID      string `json:"category_id"`
	Price           string `json:"price" example:"12.50"`
	Stock           *int   `json:"stock,omitempty"`
	IsPromotional   bool   `json:"is_promotional"`
	PromotionReason string `json:"promotion_reason,omitempty"`
}

type stockResponse struct {
	UpdatedCount int `json:"updated_count"`
}

type refreshResponse struct {
	Queued int `json:"queued"`
}

type promotionResponse struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Reason        string `json:"reason"`
	PromotionDate string `json:"promotion_date" example:"2024-05-01"`
	Hour          int    `json:"hour"`
	CreatedAt     string `json:"created_at"`
}

type ticketItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Subtotal  string `json:"subtotal"`
	SellTime  int    `json:"sell_time"`
}

type ticketResponse struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id"`
	UserName  string               `json:"user_name"`
	CreatedAt string               `json:"created_at"`
	Items     []ticketItemResponse `json:"items"`
	Total     string               `json:"total" example:"11.00"`
	Status    string               `json:"status"`
}

type periodResponse struct {
	NetEarnings string `json:"net_earnings" example:"150.00"`
	TotalSales  int    `json:"total_sales"`
}

type summaryResponse struct {
	Day   periodResponse `json:"day"`
	Week  periodResponse `json:"week"`
	Month periodResponse `json:"month"`
}
