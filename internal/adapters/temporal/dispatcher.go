package temporal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/dayroute/internal/core/domain"
	"github.com/samirrijal/dayroute/internal/workflows"
)

const batchIDPrefix = "itinerary-batch-"

// Dispatcher implements ports.BatchDispatcher on a Temporal cluster.
type Dispatcher struct {
	client    client.Client
	taskQueue string
}

// Dial connects to Temporal and returns a Dispatcher for taskQueue.
func Dial(hostPort, namespace, taskQueue string) (*Dispatcher, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial: %w", err)
	}
	return NewDispatcher(c, taskQueue), nil
}

// NewDispatcher wraps an existing client.
func NewDispatcher(c client.Client, taskQueue string) *Dispatcher {
	if taskQueue == "" {
		taskQueue = workflows.BatchTaskQueue
	}
	return &Dispatcher{client: c, taskQueue: taskQueue}
}

// Start launches BatchOptimizeWorkflow and returns its workflow id.
func (d *Dispatcher) Start(ctx context.Context, days []domain.DayPlanRequest) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:                       batchIDPrefix + uuid.NewString(),
		TaskQueue:                d.taskQueue,
		WorkflowExecutionTimeout: 10 * time.Minute,
	}
	run, err := d.client.ExecuteWorkflow(ctx, opts, workflows.BatchWorkflowName, workflows.BatchInput{Days: days})
	if err != nil {
		return "", fmt.Errorf("execute workflow: %w", err)
	}
	return run.GetID(), nil
}

// Result reports a finished batch's results, or done=false while it runs.
func (d *Dispatcher) Result(ctx context.Context, batchID string) ([]domain.DayPlanResult, bool, error) {
	desc, err := d.client.DescribeWorkflowExecution(ctx, batchID, "")
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("describe workflow: %w", err)
	}

	switch status := desc.GetWorkflowExecutionInfo().GetStatus(); status {
	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:
		return nil, false, nil
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		var out workflows.BatchOutput
		if err := d.client.GetWorkflow(ctx, batchID, "").Get(ctx, &out); err != nil {
			return nil, false, fmt.Errorf("workflow result: %w", err)
		}
		return out.Results, true, nil
	default:
		return nil, false, fmt.Errorf("batch %s ended as %s", batchID, status)
	}
}

// Close releases the client.
func (d *Dispatcher) Close() {
	d.client.Close()
}
