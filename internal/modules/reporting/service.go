package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/astrapos/astra-pos/internal/modules/catalog"
	"github.com/astrapos/astra-pos/internal/modules/sales"
)

// Stock below this many units counts as low on the dashboard.
const lowStockThreshold = 10

const topProductCount = 5

const revenueDays = 7

// Service computes read-side projections over the sale history and catalog.
// Everything here is a pure fold over snapshots; nothing mutates state.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	Range(ctx context.Context, period Period) (*RangeReport, error)
}

type service struct {
	sales   sales.Repository
	catalog catalog.Repository
	ledger  *catalog.Ledger
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates the reporting service. The ledger read lock keeps each
// projection's stock and history snapshots from straddling a sale commit.
func NewService(salesRepo sales.Repository, catalogRepo catalog.Repository, ledger *catalog.Ledger, logger *zap.Logger) Service {
	return &service{sales: salesRepo, catalog: catalogRepo, ledger: ledger, logger: logger, now: time.Now}
}

func (s *service) snapshot(ctx context.Context) ([]*sales.Sale, []*catalog.Product, error) {
	s.ledger.RLock()
	defer s.ledger.RUnlock()

	history, err := s.sales.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return history, products, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	history, products, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := &Summary{
		LowStock:     []*catalog.Product{},
		TopProducts:  []ProductUnits{},
		RevenueByDay: []DayRevenue{},
	}

	for _, p := range products {
		if p.Stock < lowStockThreshold {
			summary.LowStock = append(summary.LowStock, p)
		}
	}

	units := map[string]int{}
	dayTotals := map[string]float64{}
	dayLabels := map[string]string{}
	var dayOrder []string

	// history is newest-first; walk it oldest-first so day buckets come out
	// in chronological order. Buckets are keyed by full date so the same
	// month-day in different years stays separate.
	for i := len(history) - 1; i >= 0; i-- {
		sale := history[i]
		if sameDay(sale.CreatedAt, now) {
			summary.TodayRevenue += sale.Total
			summary.TodaySales++
		}
		for _, item := range sale.Items {
			units[item.ProductName] += item.Quantity
		}
		day := sale.CreatedAt.Format("2006-01-02")
		if _, seen := dayTotals[day]; !seen {
			dayOrder = append(dayOrder, day)
			dayLabels[day] = sale.CreatedAt.Format("Jan 2")
		}
		dayTotals[day] += sale.Total
	}

	for name, n := range units {
		summary.TopProducts = append(summary.TopProducts, ProductUnits{ProductName: name, Units: n})
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		a, b := summary.TopProducts[i], summary.TopProducts[j]
		if a.Units != b.Units {
			return a.Units > b.Units
		}
		return a.ProductName < b.ProductName
	})
	if len(summary.TopProducts) > topProductCount {
		summary.TopProducts = summary.TopProducts[:topProductCount]
	}

	if len(dayOrder) > revenueDays {
		dayOrder = dayOrder[len(dayOrder)-revenueDays:]
	}
	for _, day := range dayOrder {
		summary.RevenueByDay = append(summary.RevenueByDay, DayRevenue{Day: dayLabels[day], Revenue: dayTotals[day]})
	}

	return summary, nil
}

func (s *service) Range(ctx context.Context, period Period) (*RangeReport, error) {
	cutoff, err := s.cutoff(period)
	if err != nil {
		return nil, err
	}

	history, _, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	report := &RangeReport{Period: period, Sales: []*sales.Sale{}}
	for _, sale := range history {
		if !cutoff.IsZero() && sale.CreatedAt.Before(cutoff) {
			continue
		}
		report.Sales = append(report.Sales, sale)
		report.TotalRevenue += sale.Total
		report.SaleCount++
	}
	if report.SaleCount > 0 {
		report.AverageSale = report.TotalRevenue / float64(report.SaleCount)
	}
	return report, nil
}

func (s *service) cutoff(period Period) (time.Time, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodAll, "":
		return time.Time{}, nil
	case PeriodToday:
		return today, nil
	case PeriodWeek:
		// Week starts Sunday.
		return today.AddDate(0, 0, -int(today.Weekday())), nil
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
