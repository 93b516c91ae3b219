package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/ports"
	"github.com/samirrijal/dayroute/internal/pkg/metrics"
)

// BatchService hands large batches to a durable workflow and reports on
// them later.
type BatchService struct {
	dispatcher ports.BatchDispatcher
	maxDays    int
}

// NewBatchService creates a new BatchService. A nil dispatcher makes every
// call return domain.ErrUnavailable.
func NewBatchService(dispatcher ports.BatchDispatcher, maxDays int) *BatchService {
	if maxDays <= 0 {
		maxDays = 31
	}
	return &BatchService{dispatcher: dispatcher, maxDays: maxDays}
}

// Start submits days and returns the batch id.
func (s *BatchService) Start(ctx context.Context, days []domain.DayPlanRequest) (string, error) {
	if s.dispatcher == nil {
		return "", domain.ErrUnavailable
	}
	if len(days) == 0 || len(days) > s.maxDays {
		return "", &domain.ValidationError{
			Kind:    domain.KindInvalidOption,
			Message: fmt.Sprintf("batch must have 1-%d days, got %d", s.maxDays, len(days)),
		}
	}

	id, err := s.dispatcher.Start(ctx, days)
	if err != nil {
		return "", fmt.Errorf("start batch: %w", err)
	}
	metrics.BatchSize.WithLabelValues("workflow").Observe(float64(len(days)))
	return id, nil
}

// Status reports whether the batch finished and, if so, its results.
func (s *BatchService) Status(ctx context.Context, id string) (*domain.BatchStatus, error) {
	if s.dispatcher == nil {
		return nil, domain.ErrUnavailable
	}
	results, done, err := s.dispatcher.Result(ctx, id)
	if err != nil {
		return nil, err
	}
	status := &domain.BatchStatus{ID: id, Status: domain.BatchRunning}
	if done {
		status.Status = domain.BatchCompleted
		status.Results = results
	}
	return status, nil
}
