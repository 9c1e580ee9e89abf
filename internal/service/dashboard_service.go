package service

import (
	"time"

	"go-boutique-pos/internal/repository"
)

//go:generate mockgen -source=dashboard_service.go -destination=mocks/mock_dashboard_service.go -package=mocks

type DashboardService interface {
	GetStats(sel *PeriodSelection) (*DashboardStats, error)
	SaveSelection(sel PeriodSelection) (*PeriodSelection, error)
}

type dashboardService struct {
	saleRepo    repository.SaleRepository
	expenseRepo repository.ExpenseRepository
	settings    SettingsService
	loc         *time.Location
	now         func() time.Time
}

func NewDashboardService(sRepo repository.SaleRepository, eRepo repository.ExpenseRepository, settings SettingsService, loc *time.Location) DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &dashboardService{
		saleRepo:    sRepo,
		expenseRepo: eRepo,
		settings:    settings,
		loc:         loc,
		now:         time.Now,
	}
}

// GetStats computes the dashboard for sel, or for the saved selection when sel is nil
func (s *dashboardService) GetStats(sel *PeriodSelection) (*DashboardStats, error) {
	selection, err := s.resolveSelection(sel)
	if err != nil {
		return nil, err
	}

	rng, err := ResolveRange(selection, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	prev := rng.Previous()

	// previous window always ends where the current one starts
	sales, err := s.saleRepo.FindBetween(prev.Start, rng.End)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindBetween(prev.Start, rng.End)
	if err != nil {
		return nil, err
	}

	stats := ComputeDashboardStats(sales, expenses, rng, prev, s.loc)
	stats.Selection = selection
	return &stats, nil
}

func (s *dashboardService) SaveSelection(sel PeriodSelection) (*PeriodSelection, error) {
	if err := s.settings.SaveDashboardSelection(sel); err != nil {
		return nil, err
	}
	saved, err := s.settings.DashboardSelection()
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *dashboardService) resolveSelection(sel *PeriodSelection) (PeriodSelection, error) {
	if sel != nil && sel.Period != "" {
		if _, ok := ParsePeriodType(string(sel.Period)); !ok {
			return PeriodSelection{}, ErrInvalidPeriod
		}
		if sel.Period != PeriodCustom || (sel.CustomStart != nil && sel.CustomEnd != nil) {
			return *sel, nil
		}
		// a custom period without bounds falls back to the saved custom dates
		saved, err := s.settings.DashboardSelection()
		if err != nil {
			return PeriodSelection{}, err
		}
		filled := *sel
		if filled.CustomStart == nil {
			filled.CustomStart = saved.CustomStart
		}
		if filled.CustomEnd == nil {
			filled.CustomEnd = saved.CustomEnd
		}
		return filled, nil
	}
	return s.settings.DashboardSelection()
}
