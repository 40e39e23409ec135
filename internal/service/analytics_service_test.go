package service_test

import (
	"testing"
	"time"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededOrder(status model.OrderStatus, total int64, createdAt time.Time) model.Order {
	return model.Order{
		BaseModel:   model.BaseModel{ID: uuid.New(), CreatedAt: createdAt},
		ProductID:   uuid.New(),
		ProductName: "Kemeja Flanel",
		Quantity:    1,
		TotalPrice:  total,
		BuyerName:   "Budi",
		BuyerPhone:  "0811",
		Status:      status,
	}
}

func TestDashboardStatsExcludesCanceledRevenue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-1 * time.Hour)

	var orders []model.Order
	for i := 0; i < 7; i++ {
		orders = append(orders, seededOrder(model.StatusDone, 100, recent))
	}
	for i := 0; i < 3; i++ {
		orders = append(orders, seededOrder(model.StatusCanceled, 100, recent))
	}

	st := newTestStore(t, &fakeBackend{orders: orders})
	svc := service.NewAnalyticsService(st)

	stats := svc.DashboardStats(now)
	assert.Equal(t, int64(700), stats.NetRevenue)
	assert.Equal(t, int64(300), stats.CanceledRevenue)
	assert.Equal(t, 7, stats.TotalSalesCount)
	assert.Equal(t, 7, stats.Done)
	assert.Equal(t, 3, stats.Canceled)
}

func TestDashboardStatsStatusCounts(t *testing.T) {
	now := time.Now()
	orders := []model.Order{
		seededOrder(model.StatusPackaging, 10, now),
		seededOrder(model.StatusPackaging, 10, now),
		seededOrder(model.StatusReadyToSend, 10, now),
		seededOrder(model.StatusOnDelivery, 10, now),
		seededOrder(model.StatusDone, 10, now),
	}
	st := newTestStore(t, &fakeBackend{orders: orders})
	svc := service.NewAnalyticsService(st)

	stats := svc.DashboardStats(now)
	assert.Equal(t, 2, stats.Packaging)
	assert.Equal(t, 1, stats.ReadyToSend)
	assert.Equal(t, 1, stats.OnDelivery)
	assert.Equal(t, 1, stats.Done)
	assert.Equal(t, 0, stats.Canceled)
}

func TestDashboardStatsRevenueTrend(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		seededOrder(model.StatusDone, 300, now.Add(-2*time.Hour)),  // current window
		seededOrder(model.StatusDone, 200, now.Add(-30*time.Hour)), // previous window
		seededOrder(model.StatusDone, 999, now.Add(-72*time.Hour)), // out of both windows
	}
	st := newTestStore(t, &fakeBackend{orders: orders})
	svc := service.NewAnalyticsService(st)

	stats := svc.DashboardStats(now)
	assert.InDelta(t, 50.0, stats.RevenueTrend, 0.001)
}

func TestDashboardStatsTrendWithEmptyPreviousWindow(t *testing.T) {
	now := time.Now()
	st := newTestStore(t, &fakeBackend{orders: []model.Order{
		seededOrder(model.StatusDone, 500, now.Add(-1*time.Hour)),
	}})
	svc := service.NewAnalyticsService(st)

	assert.InDelta(t, 100.0, svc.DashboardStats(now).RevenueTrend, 0.001)
}

func TestRevenueSeriesBucketsByHour(t *testing.T) {
	base := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	orders := []model.Order{
		seededOrder(model.StatusDone, 100, base.Add(10*time.Minute)),
		seededOrder(model.StatusDone, 150, base.Add(40*time.Minute)),
		seededOrder(model.StatusDone, 200, base.Add(2*time.Hour)),
		seededOrder(model.StatusCanceled, 999, base.Add(15*time.Minute)),
	}
	st := newTestStore(t, &fakeBackend{orders: orders})
	svc := service.NewAnalyticsService(st)

	series := svc.RevenueSeries()
	require.Len(t, series, 2)
	assert.Equal(t, "15 Jun 09:00", series[0].Time)
	assert.Equal(t, int64(250), series[0].Revenue)
	assert.Equal(t, 2, series[0].Sales)
	assert.Equal(t, "15 Jun 11:00", series[1].Time)
	assert.Equal(t, int64(200), series[1].Revenue)
}

func TestTopSellersRankingAndTieBreak(t *testing.T) {
	cheap := uuid.New()
	pricey := uuid.New()
	popular := uuid.New()
	canceled := uuid.New()

	orders := []model.Order{
		{BaseModel: model.BaseModel{ID: uuid.New()}, ProductID: popular, ProductName: "Kaos Polos", ProductPrice: 50, Quantity: 5, Status: model.StatusDone},
		{BaseModel: model.BaseModel{ID: uuid.New()}, ProductID: popular, ProductName: "Kaos Polos", ProductPrice: 50, Quantity: 4, Status: model.StatusPackaging},
		{BaseModel: model.BaseModel{ID: uuid.New()}, ProductID: cheap, ProductName: "Topi", ProductPrice: 30, Quantity: 3, Status: model.StatusDone},
		{BaseModel: model.BaseModel{ID: uuid.New()}, ProductID: pricey, ProductName: "Jaket", ProductPrice: 400, Quantity: 3, Status: model.StatusDone},
		{BaseModel: model.BaseModel{ID: uuid.New()}, ProductID: canceled, ProductName: "Sarung", ProductPrice: 80, Quantity: 9, Status: model.StatusCanceled},
	}
	st := newTestStore(t, &fakeBackend{orders: orders})
	svc := service.NewAnalyticsService(st)

	ranked := svc.TopSellers(2)
	require.Len(t, ranked, 2)
	assert.Equal(t, popular, ranked[0].ProductID)
	assert.Equal(t, 9, ranked[0].Quantity)
	// tie on quantity 3 goes to the higher-priced product
	assert.Equal(t, pricey, ranked[1].ProductID)
}

func TestUniqueCustomersKeyedByPhone(t *testing.T) {
	early := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	orders := []model.Order{
		{BaseModel: model.BaseModel{ID: uuid.New(), CreatedAt: early}, BuyerName: "Budi", BuyerPhone: "0811", Quantity: 1, Status: model.StatusDone},
		{BaseModel: model.BaseModel{ID: uuid.New(), CreatedAt: late}, BuyerName: "Budi S.", BuyerPhone: "0811", Quantity: 1, Status: model.StatusCanceled},
		{BaseModel: model.BaseModel{ID: uuid.New(), CreatedAt: early}, BuyerName: "Sari", BuyerPhone: "0822", Quantity: 1, Status: model.StatusDone},
	}
	st := newTestStore(t, &fakeBackend{orders: orders})
	svc := service.NewAnalyticsService(st)

	customers := svc.UniqueCustomers()
	require.Len(t, customers, 2)

	// first-seen order preserved, name from the first order, canceled orders counted
	assert.Equal(t, "Budi", customers[0].Name)
	assert.Equal(t, "0811", customers[0].Phone)
	assert.Equal(t, 2, customers[0].TotalOrders)
	assert.Equal(t, late, customers[0].LastPurchase)
	assert.Equal(t, "0822", customers[1].Phone)
}
