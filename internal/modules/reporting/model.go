package reporting

import (
	"errors"

	"github.com/astrapos/astra-pos/internal/modules/catalog"
	"github.com/astrapos/astra-pos/internal/modules/sales"
)

// Period selects the time window of a sales report.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ErrInvalidPeriod is returned for an unknown report period.
var ErrInvalidPeriod = errors.New("invalid report period")

// ProductUnits is units sold of one product across the sale history.
type ProductUnits struct {
	ProductName string `json:"product_name"`
	Units       int    `json:"units"`
}

// DayRevenue is total revenue for one calendar day.
type DayRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

// Summary is the dashboard projection over catalog and sale history.
type Summary struct {
	TodayRevenue float64            `json:"today_revenue"`
	TodaySales   int                `json:"today_sales"`
	LowStock     []*catalog.Product `json:"low_stock"`
	TopProducts  []ProductUnits     `json:"top_products"`
	RevenueByDay []DayRevenue       `json:"revenue_by_day"`
}

// RangeReport aggregates sales over a period.
type RangeReport struct {
	Period       Period        `json:"period"`
	TotalRevenue float64       `json:"total_revenue"`
	SaleCount    int           `json:"sale_count"`
	AverageSale  float64       `json:"average_sale"`
	Sales        []*sales.Sale `json:"sales"`
}
