package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/usecases"
)

func TestBatchService_Unavailable(t *testing.T) {
	svc := usecases.NewBatchService(nil, 7)

	if _, err := svc.Start(context.Background(), []domain.DayPlanRequest{{}}); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.Status(context.Background(), "x"); !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestBatchService_Start(t *testing.T) {
	var got int
	svc := usecases.NewBatchService(&mockDispatcher{
		startFn: func(ctx context.Context, days []domain.DayPlanRequest) (string, error) {
			got = len(days)
			return "batch-42", nil
		},
	}, 7)

	id, err := svc.Start(context.Background(), make([]domain.DayPlanRequest, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "batch-42" || got != 3 {
		t.Errorf("expected batch-42 with 3 days, got %s with %d", id, got)
	}

	if _, err := svc.Start(context.Background(), make([]domain.DayPlanRequest, 8)); !domain.IsValidationError(err) {
		t.Errorf("expected validation error for oversized batch, got %v", err)
	}
}

func TestBatchService_Status(t *testing.T) {
	done := false
	svc := usecases.NewBatchService(&mockDispatcher{
		resultFn: func(ctx context.Context, id string) ([]domain.DayPlanResult, bool, error) {
			if !done {
				return nil, false, nil
			}
			return []domain.DayPlanResult{{ID: "r1"}}, true, nil
		},
	}, 7)

	st, err := svc.Status(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != domain.BatchRunning || st.Results != nil {
		t.Errorf("expected running without results, got %+v", st)
	}

	done = true
	st, err = svc.Status(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != domain.BatchCompleted || len(st.Results) != 1 {
		t.Errorf("expected completed with 1 result, got %+v", st)
	}
}
