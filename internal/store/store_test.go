package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"probekit/internal/blast"
	"probekit/internal/design"
	"probekit/internal/errors"
	"probekit/internal/specificity"
	"probekit/internal/thermo"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProbes() []design.Probe {
	return []design.Probe{
		{ID: 1, Sequence: "ATCGATCGAT", SourceFragment: "ATCGATCGAT", Start: 1, End: 10, GC: 40, Tm: 19.78, Complexity: 0.97},
		{ID: 2, Sequence: "CGATCGATCG", SourceFragment: "CGATCGATCG", Start: 11, End: 20, GC: 60, Tm: 30.1, Complexity: 0.97},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	params := design.DefaultParams()
	params.TmMethod = thermo.MethodWallace

	id, err := s.SaveRun(ctx, Target{Name: "target.fa", Length: 24}, params, sampleProbes())
	require.NoError(t, err)
	assert.Len(t, id, 36)

	run, err := s.LoadRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "target.fa", run.TargetName)
	assert.Equal(t, 24, run.TargetLength)
	assert.Equal(t, 2, run.ProbeCount)
	assert.Equal(t, params, run.Params)
	require.Len(t, run.Probes, 2)
	assert.Equal(t, sampleProbes()[1], run.Probes[1].Probe)
	assert.Equal(t, specificity.TierUnchecked, run.Probes[0].Tier)
}

func TestSaveAnnotations(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	id, err := s.SaveRun(ctx, Target{Name: "t", Length: 24}, design.DefaultParams(), sampleProbes())
	require.NoError(t, err)

	ann := specificity.Annotations{
		1: specificity.Annotate([]blast.Hit{{SubjectID: "NM_1", PercentIdentity: 100, EValue: 1e-8, BitScore: 40}}),
		2: specificity.Annotate(nil),
	}
	require.NoError(t, s.SaveAnnotations(ctx, id, ann))
	// replacing is idempotent
	require.NoError(t, s.SaveAnnotations(ctx, id, ann))

	run, err := s.LoadRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, specificity.TierHigh, run.Probes[0].Tier)
	assert.Equal(t, 1, run.Probes[0].HitCount)
	assert.Equal(t, "NM_1", run.Probes[0].Hits[0].SubjectID)
	assert.Equal(t, specificity.TierNoMatch, run.Probes[1].Tier)
}

func TestSaveAnnotations_UnknownRun(t *testing.T) {
	s := openTest(t)
	err := s.SaveAnnotations(context.Background(), "nope", specificity.Annotations{})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoadRun_NotFound(t *testing.T) {
	s := openTest(t)
	_, err := s.LoadRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListRuns(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	_, err := s.SaveRun(ctx, Target{Name: "a"}, design.DefaultParams(), nil)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, Target{Name: "b"}, design.DefaultParams(), sampleProbes())
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
