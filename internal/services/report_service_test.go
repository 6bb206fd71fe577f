package services_test

import (
	"testing"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReportOrder(t *testing.T, repo *repositories.MockOrderRepository, status string, createdAt time.Time, total float64, lines map[int64]models.LineItem) {
	t.Helper()

	snapshot := models.CartSnapshot{}
	for id, item := range lines {
		snapshot.SetItem(id, item)
	}
	raw, err := models.EncodeCartSnapshot(snapshot)
	require.NoError(t, err)

	require.NoError(t, repo.Create(&models.Order{
		UserID: 700, UserName: "A", UserAddress: "B", UserPhone: "C",
		Cart: raw, TotalPrice: total, Status: status, CreatedAt: createdAt,
	}))
}

func TestWeeklySales(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	now := time.Now()

	seedReportOrder(t, repo, models.StatusConfirmed, now.AddDate(0, 0, -1), 150, map[int64]models.LineItem{
		1: {Name: "Hoodie", Price: 50, Quantity: 2},
		2: {Name: "Cap", Price: 50, Quantity: 1},
	})
	seedReportOrder(t, repo, models.StatusConfirmed, now.AddDate(0, 0, -3), 100, map[int64]models.LineItem{
		2: {Name: "Cap", Price: 50, Quantity: 2},
	})
	// Too old: outside the trailing week.
	seedReportOrder(t, repo, models.StatusConfirmed, now.AddDate(0, 0, -9), 999, map[int64]models.LineItem{
		1: {Name: "Hoodie", Price: 999, Quantity: 1},
	})
	// Not confirmed: still awaiting verification.
	seedReportOrder(t, repo, models.StatusPendingVerification, now.AddDate(0, 0, -1), 50, map[int64]models.LineItem{
		2: {Name: "Cap", Price: 50, Quantity: 1},
	})

	report, err := services.NewReportService(repo).WeeklySales(now)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Orders)
	assert.Equal(t, 250.0, report.Revenue)
	require.Len(t, report.BestSellers, 2)
	assert.Equal(t, services.BestSeller{Name: "Cap", Units: 3}, report.BestSellers[0])
	assert.Equal(t, services.BestSeller{Name: "Hoodie", Units: 2}, report.BestSellers[1])
}

func TestWeeklySalesEmpty(t *testing.T) {
	report, err := services.NewReportService(repositories.NewMockOrderRepository()).WeeklySales(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Orders)
	assert.Equal(t, 0.0, report.Revenue)
	assert.Empty(t, report.BestSellers)
}
