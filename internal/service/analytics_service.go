package service

import (
	"sort"
	"time"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/store"

	"github.com/google/uuid"
)

// AnalyticsService is the read side of the dashboard: pure derivations over
// the in-memory collections, no side effects. Canceled orders contribute
// zero to every revenue and sales figure; their value is reported separately
// as the refunded total.
type AnalyticsService interface {
	DashboardStats(now time.Time) DashboardStats
	RevenueSeries() []RevenuePoint
	TopSellers(limit int) []TopSeller
	UniqueCustomers() []Customer
}

type DashboardStats struct {
	Packaging       int     `json:"packaging"`
	ReadyToSend     int     `json:"ready_to_send"`
	OnDelivery      int     `json:"on_delivery"`
	Done            int     `json:"done"`
	Canceled        int     `json:"canceled"`
	NetRevenue      int64   `json:"net_revenue"`
	TotalSalesCount int     `json:"total_sales_count"`
	CanceledRevenue int64   `json:"canceled_revenue"`
	RevenueTrend    float64 `json:"revenue_trend"`
}

type RevenuePoint struct {
	Time    string `json:"time"`
	Revenue int64  `json:"revenue"`
	Sales   int    `json:"sales"`

	timestamp time.Time
}

type TopSeller struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       int64     `json:"price"`
	Quantity    int       `json:"quantity"`
}

type Customer struct {
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	TotalOrders  int       `json:"total_orders"`
	LastPurchase time.Time `json:"last_purchase"`
}

type analyticsService struct {
	store *store.Store
}

func NewAnalyticsService(st *store.Store) AnalyticsService {
	return &analyticsService{store: st}
}

// DashboardStats aggregates status counts, net revenue and the 24h revenue
// trend against the preceding 24h window.
func (s *analyticsService) DashboardStats(now time.Time) DashboardStats {
	var stats DashboardStats
	var currentPeriod, previousPeriod int64

	for _, order := range s.store.Orders() {
		switch order.Status {
		case model.StatusPackaging:
			stats.Packaging++
		case model.StatusReadyToSend:
			stats.ReadyToSend++
		case model.StatusOnDelivery:
			stats.OnDelivery++
		case model.StatusDone:
			stats.Done++
		case model.StatusCanceled:
			stats.Canceled++
		}

		if order.Status == model.StatusCanceled {
			stats.CanceledRevenue += order.TotalPrice
			continue
		}

		stats.NetRevenue += order.TotalPrice
		stats.TotalSalesCount += order.Quantity

		age := now.Sub(order.CreatedAt)
		if age < 24*time.Hour {
			currentPeriod += order.TotalPrice
		} else if age < 48*time.Hour {
			previousPeriod += order.TotalPrice
		}
	}

	switch {
	case previousPeriod > 0:
		stats.RevenueTrend = float64(currentPeriod-previousPeriod) / float64(previousPeriod) * 100
	case currentPeriod > 0:
		stats.RevenueTrend = 100
	}
	return stats
}

// RevenueSeries buckets non-canceled orders by calendar day and hour.
func (s *analyticsService) RevenueSeries() []RevenuePoint {
	buckets := make(map[string]*RevenuePoint)
	for _, order := range s.store.Orders() {
		if order.Status == model.StatusCanceled {
			continue
		}
		ts := order.CreatedAt.Truncate(time.Hour)
		label := ts.Format("02 Jan 15") + ":00"
		point, ok := buckets[label]
		if !ok {
			point = &RevenuePoint{Time: label, timestamp: ts}
			buckets[label] = point
		}
		point.Revenue += order.TotalPrice
		point.Sales += order.Quantity
	}

	series := make([]RevenuePoint, 0, len(buckets))
	for _, point := range buckets {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].timestamp.Before(series[j].timestamp)
	})
	return series
}

// TopSellers ranks products by aggregate ordered quantity; ties go to the
// higher-priced product.
func (s *analyticsService) TopSellers(limit int) []TopSeller {
	totals := make(map[uuid.UUID]*TopSeller)
	for _, order := range s.store.Orders() {
		if order.Status == model.StatusCanceled {
			continue
		}
		entry, ok := totals[order.ProductID]
		if !ok {
			entry = &TopSeller{
				ProductID:   order.ProductID,
				ProductName: order.ProductName,
				Price:       order.ProductPrice,
			}
			totals[order.ProductID] = entry
		}
		entry.Quantity += order.Quantity
	}

	ranked := make([]TopSeller, 0, len(totals))
	for _, entry := range totals {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].Price > ranked[j].Price
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// UniqueCustomers keys buyers by phone number; every order counts, canceled
// included, because the person ordered regardless of the outcome.
func (s *analyticsService) UniqueCustomers() []Customer {
	seen := make(map[string]*Customer)
	var ordered []string
	for _, order := range s.store.Orders() {
		customer, ok := seen[order.BuyerPhone]
		if !ok {
			seen[order.BuyerPhone] = &Customer{
				Name:         order.BuyerName,
				Phone:        order.BuyerPhone,
				TotalOrders:  1,
				LastPurchase: order.CreatedAt,
			}
			ordered = append(ordered, order.BuyerPhone)
			continue
		}
		customer.TotalOrders++
		if order.CreatedAt.After(customer.LastPurchase) {
			customer.LastPurchase = order.CreatedAt
		}
	}

	customers := make([]Customer, 0, len(seen))
	for _, phone := range ordered {
		customers = append(customers, *seen[phone])
	}
	return customers
}
