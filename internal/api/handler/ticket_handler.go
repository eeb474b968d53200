package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/api/metrics"
	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// TicketHandler handles HTTP requests for ticket operations.
type TicketHandler struct {
	service ports.TicketService
}

func NewTicketHandler(service ports.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

// Generate handles POST /v1/tickets.
//
// @Summary      Close a sale
// @Description  Freezes the current price of every item. The seller is taken from the token. Stock is not decremented.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      generateTicketRequest  true   "Cart"
// @Success      201              {object}  ticketResponse
// @Success      200              {object}  ticketResponse  "Replay of an existing Idempotency-Key"
// @Failure      400              {object}  map[string]string
// @Failure      404              {object}  map[string]string
// @Failure      412              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /v1/tickets [post]
func (h *TicketHandler) Generate(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req generateTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.GenerateTicket(c.Request().Context(), ports.GenerateTicketInput{
		UserID:         userID,
		Items:          toCartItems(req.Items),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	metrics.TicketsGeneratedTotal.WithLabelValues(strconv.FormatBool(res.AlreadyExisted)).Inc()

	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	} else {
		metrics.RevenueTotal.Add(res.Ticket.Total.InexactFloat64())
	}
	return c.JSON(status, toTicketResponse(res.Ticket))
}

// Get handles GET /v1/tickets/:id.
//
// @Summary      Get a ticket
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id"
// @Success      200  {object}  ticketResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	t, err := h.service.GetTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponse(*t))
}

// List handles GET /v1/tickets.
//
// @Summary      List tickets, newest first
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Seller id"
// @Param        hour     query     int     false  "Only tickets with an item sold for this hour"
// @Param        status   query     string  false  "COMPLETED or CANCELLED"
// @Param        from     query     string  false  "RFC3339 lower bound on creation time"
// @Param        to       query     string  false  "RFC3339 upper bound on creation time"
// @Success      200      {array}   ticketResponse
// @Failure      400      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	var (
		in     ports.ListTicketsInput
		status string
	)
	err := echo.QueryParamsBinder(c).
		String("user_id", &in.UserID).
		Int("hour", &in.SellTime).
		String("status", &status).
		Time("from", &in.From, time.RFC3339).
		Time("to", &in.To, time.RFC3339).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	in.Status = domain.TicketStatus(status)

	ts, err := h.service.ListTickets(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTicketResponses(ts))
}

// Cancel handles POST /v1/tickets/:id/cancel.
//
// @Summary      Cancel a ticket
// @Description  Cancelling an already cancelled ticket returns it unchanged.
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id"
// @Success      200  {object}  ticketResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tickets/{id}/cancel [post]
func (h *TicketHandler) Cancel(c echo.Context) error {
	t, err := h.service.CancelTicket(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TicketsCancelledTotal.Inc()
	return c.JSON(http.StatusOK, toTicketResponse(*t))
}
