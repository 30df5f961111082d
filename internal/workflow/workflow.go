// Package workflow runs mesh builds on Temporal workers.
package workflow

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/mesh"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/samples"
	"github.com/sells-group/zonemesh/internal/store"
	"github.com/sells-group/zonemesh/internal/synth"
)

// DefaultTaskQueue is the Temporal task queue mesh workers poll.
const DefaultTaskQueue = "zonemesh"

const buildTimeout = 30 * time.Minute

// MeshInput describes one build. Exactly one sample source is used:
// SamplesPath when set, otherwise Points synthetic samples from Seed.
type MeshInput struct {
	Depth       int     `json:"depth"`
	Padding     float64 `json:"padding"`
	Points      int     `json:"points,omitempty"`
	Seed        uint64  `json:"seed,omitempty"`
	SamplesPath string  `json:"samples_path,omitempty"`
}

// MeshOutput summarises a persisted run.
type MeshOutput struct {
	RunID      string       `json:"run_id"`
	ZoneCount  int          `json:"zone_count"`
	Population int          `json:"population"`
	Balance    mesh.Balance `json:"balance"`
}

// MeshWorkflow builds and stores one mesh. The build is deterministic, so a
// failed attempt is not retried.
func MeshWorkflow(ctx workflow.Context, in MeshInput) (*MeshOutput, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: buildTimeout,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})

	var a *Activities
	var out MeshOutput
	if err := workflow.ExecuteActivity(ctx, a.BuildMesh, in).Get(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activities holds the dependencies of the mesh activities.
type Activities struct {
	Store store.Store
	// Defaults supplies every mesh option except depth and padding.
	Defaults mesh.Options
}

// BuildMesh loads or generates samples, builds the mesh and saves it.
func (a *Activities) BuildMesh(ctx context.Context, in MeshInput) (*MeshOutput, error) {
	log := zap.L().With(zap.String("component", "workflow"))

	pts, err := a.loadSamples(in)
	if err != nil {
		return nil, err
	}

	opts := a.Defaults
	opts.Depth = in.Depth
	opts.Padding = in.Padding

	res, err := mesh.Build(pts, opts)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidParameters", err)
	}
	if err := a.Store.SaveRun(ctx, res.Run, res.Zones); err != nil {
		return nil, eris.Wrap(err, "workflow: save run")
	}

	log.Info("mesh run stored",
		zap.String("run_id", res.Run.ID),
		zap.Int("zones", res.Run.ZoneCount),
	)
	return &MeshOutput{
		RunID:      res.Run.ID,
		ZoneCount:  res.Run.ZoneCount,
		Population: res.Run.Population,
		Balance:    res.Balance,
	}, nil
}

func (a *Activities) loadSamples(in MeshInput) ([]model.Sample, error) {
	if in.SamplesPath != "" {
		pts, err := samples.ReadFile(in.SamplesPath)
		if err != nil {
			return nil, eris.Wrap(err, "workflow: load samples")
		}
		return pts, nil
	}
	points := in.Points
	if points <= 0 {
		points = synth.DefaultPoints
	}
	return synth.New(in.Seed).Generate(points), nil
}

// Register adds the mesh workflow and activities to a worker.
func Register(w worker.Registry, acts *Activities) {
	w.RegisterWorkflow(MeshWorkflow)
	w.RegisterActivity(acts)
}

// Start submits a MeshWorkflow execution.
func Start(ctx context.Context, c client.Client, taskQueue string, in MeshInput) (client.WorkflowRun, error) {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		TaskQueue: taskQueue,
	}, MeshWorkflow, in)
	if err != nil {
		return nil, eris.Wrap(err, "workflow: start mesh workflow")
	}
	return run, nil
}
