package workflows

import (
	"context"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/usecases"
)

// validationErrorType tags non-retryable activity failures caused by bad input.
const validationErrorType = "ValidationError"

// Activities holds the activity implementations for the batch workflow.
type Activities struct {
	Itineraries *usecases.ItineraryService
}

// OptimizeDay optimizes a single day. Validation failures are not retried.
func (a *Activities) OptimizeDay(ctx context.Context, day domain.DayPlanRequest) (domain.DayPlanResult, error) {
	info := activity.GetInfo(ctx)

	res, err := a.Itineraries.Optimize(ctx, day)
	if err != nil {
		if domain.IsValidationError(err) {
			return domain.DayPlanResult{}, temporal.NewNonRetryableApplicationError(err.Error(), validationErrorType, err)
		}
		slog.Warn("optimize day failed", "workflow_id", info.WorkflowExecution.ID, "attempt", info.Attempt, "error", err)
		return domain.DayPlanResult{}, err
	}
	return *res, nil
}
