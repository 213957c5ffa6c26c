package services

import (
	"sort"
	"time"

	"barbertrack-backend/models"
	"barbertrack-backend/utils"

	"github.com/google/uuid"
)

// Aggregator folds a flat transaction log into per-employee statistics.
type Aggregator struct {
	now func() time.Time
}

func NewAggregator(now func() time.Time) Aggregator {
	if now == nil {
		now = time.Now
	}
	return Aggregator{now: now}
}

// Aggregate returns one entry per employee, in the order employees were
// supplied. Every service type in services appears in ServiceCounts, zero
// included. Transactions whose service type is not in services still count
// toward TotalCount.
func (a Aggregator) Aggregate(employees []models.Profile, services []models.ServiceType, transactions []models.Transaction) []models.EmployeeStats {
	byEmployee := make(map[uuid.UUID][]models.Transaction, len(employees))
	for _, tx := range transactions {
		byEmployee[tx.EmployeeID] = append(byEmployee[tx.EmployeeID], tx)
	}

	dayStart := utils.BeginningOfDay(a.now())
	stats := make([]models.EmployeeStats, 0, len(employees))
	for _, employee := range employees {
		txs := byEmployee[employee.ID]
		if txs == nil {
			txs = []models.Transaction{}
		}

		perService := make(map[uuid.UUID]int, len(txs))
		today := 0
		for _, tx := range txs {
			perService[tx.ServiceTypeID]++
			if !tx.PerformedAt.Before(dayStart) {
				today++
			}
		}

		counts := make(map[uuid.UUID]int, len(services))
		for _, service := range services {
			counts[service.ID] = perService[service.ID]
		}

		stats = append(stats, models.EmployeeStats{
			Profile:       employee,
			Transactions:  txs,
			TotalCount:    len(txs),
			TodayCount:    today,
			ServiceCounts: counts,
		})
	}
	return stats
}

// Summary holds the dashboard header figures.
type Summary struct {
	TotalTransactions int `json:"total_transactions"`
	TodayTransactions int `json:"today_transactions"`
	ActiveEmployees   int `json:"active_employees"`
}

func Summarize(stats []models.EmployeeStats) Summary {
	s := Summary{ActiveEmployees: len(stats)}
	for _, st := range stats {
		s.TotalTransactions += st.TotalCount
		s.TodayTransactions += st.TodayCount
	}
	return s
}

// ServiceColumn is one cell of a rendered stats row.
type ServiceColumn struct {
	ServiceTypeID uuid.UUID `json:"service_type_id"`
	Name          string    `json:"name"`
	Count         int       `json:"count"`
}

// Columns renders a stat's service counts in display order.
func Columns(stat models.EmployeeStats, services []models.ServiceType) []ServiceColumn {
	ordered := append([]models.ServiceType(nil), services...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DisplayOrder < ordered[j].DisplayOrder })

	out := make([]ServiceColumn, 0, len(ordered))
	for _, service := range ordered {
		out = append(out, ServiceColumn{
			ServiceTypeID: service.ID,
			Name:          service.Name,
			Count:         stat.ServiceCounts[service.ID],
		})
	}
	return out
}
