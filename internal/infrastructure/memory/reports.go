package memory

import (
	"context"
	"sort"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func inRange(day, from, to string) bool {
	return (from == "" || day >= from) && (to == "" || day <= to)
}

func (s *Store) Dashboard(_ context.Context, from, to string) (*entity.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &entity.DashboardStats{From: from, To: to}
	daily := map[string]decimal.Decimal{}
	for _, inv := range s.invoices {
		day := inv.IssuedAt.Format(dateLayout)
		if !inRange(day, from, to) || !countsTowardRevenue(inv.Status) {
			continue
		}
		stats.InvoiceCount++
		stats.TotalRevenue = stats.TotalRevenue.Add(inv.Total)
		daily[day] = daily[day].Add(inv.Total)
		if inv.Profit != nil {
			stats.TotalProfit = stats.TotalProfit.Add(*inv.Profit)
		}
		if inv.Status == enum.InvoiceStatusUnpaid {
			stats.UnpaidCount++
		}
		if p, ok := s.payments[inv.ID]; ok {
			stats.TotalCash = stats.TotalCash.Add(p.CashAmount)
			stats.TotalCard = stats.TotalCard.Add(p.CardAmount)
		}
	}
	for _, r := range s.reservations {
		if r.Status != ReservationCancelled && inRange(r.Date, from, to) {
			stats.ReservationsDue++
		}
	}

	stats.DailyRevenue = make([]entity.DailyRevenue, 0, len(daily))
	for day, revenue := range daily {
		stats.DailyRevenue = append(stats.DailyRevenue, entity.DailyRevenue{Date: day, Revenue: revenue})
	}
	sort.Slice(stats.DailyRevenue, func(i, j int) bool { return stats.DailyRevenue[i].Date < stats.DailyRevenue[j].Date })
	return stats, nil
}

func (s *Store) EmployeeReport(_ context.Context, from, to string) ([]entity.EmployeeReportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := map[int64]*entity.EmployeeReportRow{}
	for _, acc := range s.accounts {
		rows[acc.identity.EmployeeID] = &entity.EmployeeReportRow{
			EmployeeID: acc.identity.EmployeeID,
			Name:       acc.identity.Name,
			Role:       string(acc.identity.Role),
		}
	}

	for _, inv := range s.invoices {
		row, ok := rows[inv.CashierID]
		if !ok || !countsTowardRevenue(inv.Status) || !inRange(inv.IssuedAt.Format(dateLayout), from, to) {
			continue
		}
		row.InvoiceCount++
		row.Revenue = row.Revenue.Add(inv.Total)
	}

	shifts := append([]entity.Shift(nil), s.shifts...)
	for _, open := range s.activeShift {
		shifts = append(shifts, *open)
	}
	for _, sh := range shifts {
		if row, ok := rows[sh.OpenedBy]; ok && inRange(sh.OpenedAt.Format(dateLayout), from, to) {
			row.ShiftCount++
		}
	}

	out := make([]entity.EmployeeReportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}
