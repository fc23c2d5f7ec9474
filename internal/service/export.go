package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xolan/tsheet/internal/export"
)

// WriteDayCSV writes the CSV export of date to w.
func (s *Services) WriteDayCSV(w io.Writer, date string) error {
	return export.WriteDay(w, date, s.Repo.LoadDay(date).Entries, s.Projects.Compare)
}

// WriteYearCSV writes the CSV export of every stored day of year to w.
func (s *Services) WriteYearCSV(ctx context.Context, w io.Writer, year int) error {
	days, err := s.YearDays(ctx, year)
	if err != nil {
		return err
	}
	return export.WriteYear(w, days, s.Projects.Compare)
}

// ExportDay writes the CSV export of date to path, or to the default file
// name below export_dir when path is empty. It returns the written path.
func (s *Services) ExportDay(date, path string) (string, error) {
	if path == "" {
		path = filepath.Join(s.Config.Get().ExportDir, export.DayFileName(date))
	}
	return path, s.writeFile(path, func(w io.Writer) error {
		return s.WriteDayCSV(w, date)
	})
}

// ExportYear is ExportDay for a whole year.
func (s *Services) ExportYear(ctx context.Context, year int, path string) (string, error) {
	if path == "" {
		path = filepath.Join(s.Config.Get().ExportDir, export.YearFileName(year))
	}
	return path, s.writeFile(path, func(w io.Writer) error {
		return s.WriteYearCSV(ctx, w, year)
	})
}

func (s *Services) writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	s.Logger.Debug("exported csv", "path", path)
	return nil
}
