package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/billing"
	"parkledger/backend/services/ledger-service/internal/models"
)

// RevenueReport is the summary of finalized sessions exiting within a range.
type RevenueReport struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	billing.Summary
}

// ReportService builds revenue reports from stored charges.
type ReportService struct {
	store  SessionStore
	logger *zap.Logger
}

// NewReportService builds service.
func NewReportService(store SessionStore, logger *zap.Logger) *ReportService {
	return &ReportService{store: store, logger: logger}
}

// Revenue summarizes every finalized session with exit time in [from, to].
func (s *ReportService) Revenue(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	if from.IsZero() || to.IsZero() {
		return nil, validationErr("report range requires both ends")
	}
	if to.Before(from) {
		return nil, validationErr("range end is before range start")
	}
	sessions, err := s.store.FindMany(ctx, models.SessionFilter{
		Status:   models.StatusFinalized,
		ExitFrom: from,
		ExitTo:   to,
	}, models.FindOptions{Sort: models.SortExitDesc})
	if err != nil {
		return nil, storeErr("find many", err)
	}
	report := &RevenueReport{From: from.UTC(), To: to.UTC(), Summary: billing.Summarize(sessions)}
	s.logger.Debug("revenue report built",
		zap.Time("from", report.From),
		zap.Time("to", report.To),
		zap.Int("count", report.Count),
	)
	return report, nil
}
