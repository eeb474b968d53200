package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/api/middleware"
	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// newContext builds an echo context with the validator registered, as the
// router does.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, userID, role string) {
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, role)
}

type stubAuthService struct {
	loginFn func(ctx context.Context, email string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email string) (string, *domain.User, error) {
	return s.loginFn(ctx, email)
}

type stubCatalogService struct {
	products  []domain.Product
	priceFn   func(id string, price decimal.Decimal) (*domain.Product, error)
	createFn  func(in ports.UserInput) (*domain.User, error)
	deleteErr error
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: "cat-1", Name: "Bebidas"}}, nil
}

func (s *stubCatalogService) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return domain.FilterByCategory(s.products, categoryID), nil
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *stubCatalogService) UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Product, error) {
	return s.priceFn(id, price)
}

func (s *stubCatalogService) SetProductPromotion(ctx context.Context, id string, in ports.ProductPromotionInput) (*domain.Product, error) {
	return &domain.Product{ID: id, IsPromotional: in.IsPromotional, PromotionReason: in.Reason}, nil
}

func (s *stubCatalogService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

func (s *stubCatalogService) CreateUser(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	return s.createFn(in)
}

func (s *stubCatalogService) UpdateUser(ctx context.Context, id string, in ports.UserInput) (*domain.User, error) {
	return &domain.User{ID: id, Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (s *stubCatalogService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteErr
}

type stubDisplayService struct {
	products []domain.Product
	queued   int
}

func (s *stubDisplayService) Catalog(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return domain.FilterByCategory(s.products, categoryID), nil
}

func (s *stubDisplayService) RefreshHighlights(ctx context.Context) (int, error) {
	return s.queued, nil
}

type stubStockService struct {
	got ports.UpdateStockInput
	res *ports.UpdateStockResult
	err error
}

func (s *stubStockService) UpdateStock(ctx context.Context, in ports.UpdateStockInput) (*ports.UpdateStockResult, error) {
	s.got = in
	return s.res, s.err
}

type stubPromotionService struct {
	createFn func(in ports.CreatePromotionInput) (*domain.Promotion, error)
	updateFn func(id string, in ports.UpdatePromotionInput) (*domain.Promotion, error)
	listIn   ports.ListPromotionsInput
	live     []domain.Product
}

func (s *stubPromotionService) CreatePromotion(ctx context.Context, in ports.CreatePromotionInput) (*domain.Promotion, error) {
	return s.createFn(in)
}

func (s *stubPromotionService) UpdatePromotion(ctx context.Context, id string, in ports.UpdatePromotionInput) (*domain.Promotion, error) {
	return s.updateFn(id, in)
}

func (s *stubPromotionService) DeletePromotion(ctx context.Context, id string) error {
	return nil
}

func (s *stubPromotionService) ListPromotions(ctx context.Context, in ports.ListPromotionsInput) ([]domain.Promotion, error) {
	s.listIn = in
	return nil, nil
}

func (s *stubPromotionService) LiveCatalog(ctx context.Context) ([]domain.Product, error) {
	return s.live, nil
}

type stubTicketService struct {
	generateFn func(in ports.GenerateTicketInput) (*ports.TicketResult, error)
	listIn     ports.ListTicketsInput
	cancelFn   func(id string) (*domain.Ticket, error)
}

func (s *stubTicketService) GenerateTicket(ctx context.Context, in ports.GenerateTicketInput) (*ports.TicketResult, error) {
	return s.generateFn(in)
}

func (s *stubTicketService) CancelTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.cancelFn(id)
}

func (s *stubTicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return nil, domain.ErrTicketNotFound
}

func (s *stubTicketService) ListTickets(ctx context.Context, in ports.ListTicketsInput) ([]domain.Ticket, error) {
	s.listIn = in
	return nil, nil
}

type stubReportService struct {
	in      ports.SummaryInput
	summary ports.SalesSummary
}

func (s *stubReportService) Summary(ctx context.Context, in ports.SummaryInput) (*ports.SalesSummary, error) {
	s.in = in
	return &s.summary, nil
}
