package service

import "github.com/xolan/tsheet/internal/sheet"

// DaySummary contains the per-project totals of one day.
type DaySummary struct {
	Date    string
	Totals  []sheet.ProjectTotal
	Total   int
	Entries int
	Pauses  int
}

// Summary totals the stored entries of date. Durations are the ones shown
// in the day view.
func (s *Services) Summary(date string) DaySummary {
	entries := s.Entries(date)
	totals := sheet.GroupByProject(entries, s.Projects.Compare)

	sum := DaySummary{
		Date:   date,
		Totals: totals,
		Total:  sheet.Total(totals),
	}
	for _, e := range entries {
		if e.IsPause() {
			sum.Pauses++
		} else {
			sum.Entries++
		}
	}
	return sum
}

// ProjectComments returns the comments logged on date for a summary label,
// in display order.
func (s *Services) ProjectComments(date, label string) []string {
	return sheet.ProjectComments(s.Entries(date), label)
}

// CommentSuggestions returns the most frequent comments of date, optionally
// restricted to project.
func (s *Services) CommentSuggestions(date, project string) []string {
	return sheet.FrequentComments(s.Repo.LoadDay(date).Entries, project, sheet.MaxSuggestions)
}
