package service

import (
	"context"
	"fmt"

	"github.com/xolan/tsheet/internal/export"
	"github.com/xolan/tsheet/internal/sheet"
)

// YearSummary contains the project totals of every stored day of a year.
type YearSummary struct {
	Year   int
	Days   int
	Totals []sheet.ProjectTotal
	Total  int
}

// YearDays loads every stored day of year in date order.
func (s *Services) YearDays(ctx context.Context, year int) ([]export.Day, error) {
	dates, err := s.Repo.Days(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list days of %d: %w", year, err)
	}
	days := make([]export.Day, 0, len(dates))
	for _, date := range dates {
		days = append(days, export.Day{Date: date, Entries: s.Repo.LoadDay(date).Entries})
	}
	return days, nil
}

// Year totals the stored days of year the way the year export does.
func (s *Services) Year(ctx context.Context, year int) (YearSummary, error) {
	days, err := s.YearDays(ctx, year)
	if err != nil {
		return YearSummary{}, err
	}

	sum := YearSummary{Year: year, Totals: export.YearTotals(days, s.Projects.Compare)}
	for _, d := range days {
		if len(d.Entries) > 0 {
			sum.Days++
		}
	}
	sum.Total = sheet.Total(sum.Totals)
	return sum, nil
}
