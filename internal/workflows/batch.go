package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/dayroute/internal/core/domain"
)

// Task queue and registered names of the batch workflow.
const (
	BatchTaskQueue      = "itinerary-batch-queue"
	BatchWorkflowName   = "BatchOptimizeWorkflow"
	OptimizeDayActivity = "OptimizeDay"
)

// BatchInput is the input for the batch workflow.
type BatchInput struct {
	Days []domain.DayPlanRequest
}

// BatchOutput carries one result per input day, in input order.
type BatchOutput struct {
	Results []domain.DayPlanResult
}

// BatchOptimizeWorkflow optimizes every day of a batch in parallel
// activities. Days are independent; the first failed day fails the batch.
func BatchOptimizeWorkflow(ctx workflow.Context, input BatchInput) (BatchOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting batch optimization", "days", len(input.Days))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{validationErrorType},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	futures := make([]workflow.Future, len(input.Days))
	for i, day := range input.Days {
		futures[i] = workflow.ExecuteActivity(ctx, OptimizeDayActivity, day)
	}

	results := make([]domain.DayPlanResult, len(input.Days))
	for i, f := range futures {
		if err := f.Get(ctx, &results[i]); err != nil {
			logger.Warn("day failed", "day", i, "error", err)
			return BatchOutput{}, fmt.Errorf("day %d: %w", i, err)
		}
	}

	logger.Info("Batch optimization finished", "days", len(results))
	return BatchOutput{Results: results}, nil
}
