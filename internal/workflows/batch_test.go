package workflows_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/core/planner"
	"github.com/samirrijal/dayroute/internal/core/usecases"
	"github.com/samirrijal/dayroute/internal/workflows"
)

func day(n int) domain.DayPlanRequest {
	start := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	acts := make([]domain.Activity, n)
	for i := range acts {
		s := start.Add(time.Duration(i) * 2 * time.Hour)
		acts[i] = domain.Activity{
			ID:       string(rune('a' + i)),
			Title:    "stop",
			Category: domain.CategorySightseeing,
			Location: domain.GeoPoint{Lat: 43.26 + float64(i)*0.01, Lon: -2.93 + float64(i%2)*0.02},
			TimeSlot: domain.TimeSlot{Start: s, End: s.Add(time.Hour)},
		}
	}
	return domain.DayPlanRequest{Activities: acts, Options: planner.DefaultOptions()}
}

func newEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	env.RegisterWorkflow(workflows.BatchOptimizeWorkflow)
	env.RegisterActivity(&workflows.Activities{
		Itineraries: usecases.NewItineraryService(nil, nil, nil, nil, usecases.ItineraryConfig{}),
	})
	return env
}

func TestBatchOptimizeWorkflow_KeepsDayOrder(t *testing.T) {
	env := newEnv(t)

	env.ExecuteWorkflow(workflows.BatchOptimizeWorkflow, workflows.BatchInput{
		Days: []domain.DayPlanRequest{day(5), day(1), day(3)},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out workflows.BatchOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Len(t, out.Results, 3)
	for i, want := range []int{5, 1, 3} {
		assert.Len(t, out.Results[i].Result.OptimizedActivities, want, "day %d", i)
		assert.NotEmpty(t, out.Results[i].ID)
	}
}

func TestBatchOptimizeWorkflow_InvalidDayFails(t *testing.T) {
	env := newEnv(t)

	bad := day(2)
	bad.Activities[1].ID = bad.Activities[0].ID
	bad.Options.Validation = domain.ValidationStrict

	env.ExecuteWorkflow(workflows.BatchOptimizeWorkflow, workflows.BatchInput{
		Days: []domain.DayPlanRequest{day(2), bad},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate_id")
}
