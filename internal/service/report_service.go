package service

import (
	"context"

	"github.com/rs/zerolog"

	"canteen/internal/domain"
	"canteen/internal/repository"
)

// ReportService отчёты о продажах. Отчёты справочные: при ошибке базы
// отдаём пустой список и пишем предупреждение, а не роняем запрос.
type ReportService struct {
	reports repository.ReportRepository
	log     zerolog.Logger
}

func NewReportService(reports repository.ReportRepository, log zerolog.Logger) *ReportService {
	return &ReportService{reports: reports, log: log}
}

func (s *ReportService) Weekly(ctx context.Context) []domain.ReportRow {
	rows, err := s.reports.WeeklySales(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("weekly sales report failed")
		return []domain.ReportRow{}
	}
	return rows
}

func (s *ReportService) Monthly(ctx context.Context) []domain.ReportRow {
	rows, err := s.reports.MonthlySales(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("monthly sales report failed")
		return []domain.ReportRow{}
	}
	return rows
}
