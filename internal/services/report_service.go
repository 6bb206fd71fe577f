package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ReportService aggregates sales figures for the admins.
type ReportService struct {
	orderRepo repositories.OrderRepository
}

// NewReportService creates a new ReportService.
func NewReportService(orderRepo repositories.OrderRepository) *ReportService {
	return &ReportService{
		orderRepo: orderRepo,
	}
}

// BestSeller is one line of the best-sellers ranking.
type BestSeller struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

// WeeklySales summarizes confirmed orders over the trailing seven days.
type WeeklySales struct {
	Orders      int          `json:"orders"`
	Revenue     float64      `json:"revenue"`
	BestSellers []BestSeller `json:"best_sellers"`
}

// WeeklySales counts confirmed orders of the last seven days, sums their
// frozen totals, and ranks items by units sold, decoded from the stored
// cart snapshots. An unreadable snapshot is skipped from the ranking but
// still counts toward order count and revenue.
func (s *ReportService) WeeklySales(now time.Time) (*WeeklySales, error) {
	orders, err := s.orderRepo.ConfirmedSince(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed orders: %w", err)
	}

	report := &WeeklySales{}
	units := make(map[string]int)
	for _, order := range orders {
		report.Orders++
		report.Revenue += order.TotalPrice

		snapshot, err := models.DecodeCartSnapshot(order.Cart)
		if err != nil {
			log.Printf("order %d has an unreadable cart snapshot, skipping in ranking: %v", order.ID, err)
			continue
		}
		for _, item := range snapshot {
			units[item.Name] += item.Quantity
		}
	}

	for name, n := range units {
		report.BestSellers = append(report.BestSellers, BestSeller{Name: name, Units: n})
	}
	sort.Slice(report.BestSellers, func(i, j int) bool {
		if report.BestSellers[i].Units == report.BestSellers[j].Units {
			return report.BestSellers[i].Name < report.BestSellers[j].Name
		}
		return report.BestSellers[i].Units > report.BestSellers[j].Units
	})
	return report, nil
}
