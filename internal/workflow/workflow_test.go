package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/mesh"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/samples"
	"github.com/sells-group/zonemesh/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "wf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestMeshWorkflow_Synthetic(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	st := newTestStore(t)
	env.RegisterActivity(&Activities{Store: st, Defaults: mesh.DefaultOptions()})

	env.ExecuteWorkflow(MeshWorkflow, MeshInput{Depth: 3, Padding: 0.01, Points: 1600, Seed: 42})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out MeshOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.Equal(t, 8, out.ZoneCount)
	assert.Equal(t, 8, out.Balance.Zones)

	run, err := st.GetRun(context.Background(), out.RunID)
	require.NoError(t, err)
	assert.Equal(t, out.Population, run.Population)
}

func TestMeshWorkflow_SamplesFile(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, samples.WriteFile(path, []model.Sample{
		{Position: model.LatLng{Lat: 0, Lng: 0}, Population: 10},
		{Position: model.LatLng{Lat: 1, Lng: 1}, Population: 30},
	}))

	st := newTestStore(t)
	env.RegisterActivity(&Activities{Store: st, Defaults: mesh.DefaultOptions()})

	env.ExecuteWorkflow(MeshWorkflow, MeshInput{Depth: 1, Padding: 0.01, SamplesPath: path})
	require.NoError(t, env.GetWorkflowError())

	var out MeshOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	assert.Equal(t, 2, out.ZoneCount)
	assert.Equal(t, 40, out.Population)
}

func TestMeshWorkflow_InvalidDepthNotRetried(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	env.RegisterActivity(&Activities{Store: newTestStore(t), Defaults: mesh.DefaultOptions()})

	env.ExecuteWorkflow(MeshWorkflow, MeshInput{Depth: -1, Points: 1600})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth must be non-negative")
}

func TestMeshWorkflow_ActivityFailure(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	acts := &Activities{}
	env.RegisterActivity(acts)
	env.OnActivity(acts.BuildMesh, mock.Anything, mock.Anything).
		Return(nil, errors.New("disk full")).Once()

	env.ExecuteWorkflow(MeshWorkflow, MeshInput{Depth: 2})
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	env.AssertExpectations(t)
}

func TestBuildMesh_MissingSamplesFile(t *testing.T) {
	acts := &Activities{Store: newTestStore(t), Defaults: mesh.DefaultOptions()}

	_, err := acts.BuildMesh(context.Background(), MeshInput{Depth: 1, SamplesPath: filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow: load samples")
}
