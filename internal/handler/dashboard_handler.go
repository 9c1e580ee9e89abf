package handler

import (
	"strings"
	"time"

	"go-boutique-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type DashboardHandler struct {
	service service.DashboardService
	loc     *time.Location
}

func NewDashboardHandler(s service.DashboardService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardHandler{service: s, loc: loc}
}

// PeriodRequest carries a period selection. Dates are yyyy-MM-dd in store time.
type PeriodRequest struct {
	Period string `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func (h *DashboardHandler) selection(req PeriodRequest) (*service.PeriodSelection, error) {
	period, ok := service.ParsePeriodType(strings.ToUpper(strings.TrimSpace(req.Period)))
	if !ok {
		return nil, service.ErrInvalidPeriod
	}

	sel := &service.PeriodSelection{Period: period}
	for _, d := range []struct {
		raw  string
		dest **time.Time
	}{
		{req.Start, &sel.CustomStart},
		{req.End, &sel.CustomEnd},
	} {
		if d.raw == "" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, d.raw, h.loc)
		if err != nil {
			return nil, service.ErrInvalidPeriod
		}
		*d.dest = &t
	}
	return sel, nil
}

// GetDashboardStats returns KPIs, trends, top lists and the daily series.
// Query params: period, start, end. Without period the saved selection is used,
// and a CUSTOM period missing start or end takes it from the saved dates.
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	var sel *service.PeriodSelection
	if c.Query("period") != "" {
		var err error
		sel, err = h.selection(PeriodRequest{
			Period: c.Query("period"),
			Start:  c.Query("start"),
			End:    c.Query("end"),
		})
		if err != nil {
			return respondError(c, err, "Failed to fetch dashboard stats")
		}
	}

	stats, err := h.service.GetStats(sel)
	if err != nil {
		return respondError(c, err, "Failed to fetch dashboard stats")
	}
	return c.JSON(stats)
}

// SavePeriod stores the period the home dashboard opens with
func (h *DashboardHandler) SavePeriod(c *fiber.Ctx) error {
	var req PeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	sel, err := h.selection(req)
	if err != nil {
		return respondError(c, err, "Failed to save dashboard period")
	}

	saved, err := h.service.SaveSelection(*sel)
	if err != nil {
		return respondError(c, err, "Failed to save dashboard period")
	}
	return c.JSON(fiber.Map{"message": "Dashboard period saved", "data": saved})
}
