package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Summary handles GET /v1/reports/summary.
//
// @Summary      Sales KPIs for today, this week and this month
// @Description  Only COMPLETED tickets count. Weeks start on Sunday.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Seller id"
// @Param        hour     query     int     false  "Only tickets with an item sold for this hour"
// @Success      200      {object}  summaryResponse
// @Failure      400      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /v1/reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	var in ports.SummaryInput
	err := echo.QueryParamsBinder(c).
		String("user_id", &in.UserID).
		Int("hour", &in.SellTime).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	s, err := h.service.Summary(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSummaryResponse(*s))
}
