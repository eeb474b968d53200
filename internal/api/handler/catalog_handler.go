package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// CatalogHandler serves categories and products, both as stored and as
// shown on the sales screen.
type CatalogHandler struct {
	catalog ports.CatalogService
	display ports.DisplayService
}

func NewCatalogHandler(catalog ports.CatalogService, display ports.DisplayService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, display: display}
}

// Categories handles GET /v1/categories.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   categoryResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/categories [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	cats, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponses(cats))
}

// Products handles GET /v1/products.
//
// @Summary      List products as stored
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        category_id  query     string  false  "Only products of this category"
// @Success      200          {array}   productResponse
// @Failure      401          {object}  map[string]string
// @Router       /v1/products [get]
func (h *CatalogHandler) Products(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context(), c.QueryParam("category_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}

// Product handles GET /v1/products/:id.
//
// @Summary      Get a product as stored
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/products/{id} [get]
func (h *CatalogHandler) Product(c echo.Context) error {
	p, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*p))
}

// Display handles GET /v1/products/display.
//
// @Summary      List products for the sales screen
// @Description  Applies cached highlight suggestions and promotions live at the current hour. Stored products are not modified.
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        category_id  query     string  false  "Only products of this category"
// @Success      200          {array}   productResponse
// @Failure      401          {object}  map[string]string
// @Router       /v1/products/display [get]
func (h *CatalogHandler) Display(c echo.Context) error {
	products, err := h.display.Catalog(c.Request().Context(), c.QueryParam("category_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}

// RefreshHighlights handles POST /v1/products/highlights/refresh.
//
// @Summary      Queue highlight suggestions for every category
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  refreshResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /v1/products/highlights/refresh [post]
func (h *CatalogHandler) RefreshHighlights(c echo.Context) error {
	n, err := h.display.RefreshHighlights(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, refreshResponse{Queued: n})
}

// UpdatePrice handles PUT /v1/products/:id/price.
//
// @Summary      Reprice a product
// @Description  Existing tickets keep the price they were sold at.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Product id"
// @Param        body  body      priceRequest  true  "New price"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/products/{id}/price [put]
func (h *CatalogHandler) UpdatePrice(c echo.Context) error {
	var req priceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Price.Valid {
		return fmt.Errorf("%w: price", domain.ErrMissingField)
	}

	p, err := h.catalog.UpdateProductPrice(c.Request().Context(), c.Param("id"), req.Price.Decimal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*p))
}

// SetPromotion handles PUT /v1/products/:id/promotion.
//
// @Summary      Set or clear the stored marketing flag
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Product id"
// @Param        body  body      productPromotionRequest  true  "Flag and reason"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/products/{id}/promotion [put]
func (h *CatalogHandler) SetPromotion(c echo.Context) error {
	var req productPromotionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.catalog.SetProductPromotion(c.Request().Context(), c.Param("id"), ports.ProductPromotionInput{
		IsPromotional: *req.IsPromotional,
		Reason:        req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*p))
}
