package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"probekit/internal/design"
	perrors "probekit/internal/errors"
	"probekit/internal/thermo"
)

func isolated(t *testing.T) {
	t.Helper()
	// keep a developer's probekit.yaml out of the way
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolated(t)
	s, err := Load(New(), "")
	require.NoError(t, err)

	p, err := s.DesignParams()
	require.NoError(t, err)
	assert.Equal(t, design.DefaultParams(), p)

	m, err := s.BatchMethod()
	require.NoError(t, err)
	assert.Equal(t, thermo.MethodSantaLucia, m)
	assert.Equal(t, 500*time.Millisecond, s.Batch.PollInterval)

	bc := s.BlastConfig()
	assert.Equal(t, "blastn", bc.Executable)
	assert.Equal(t, 0.1, bc.EValue)
	assert.Equal(t, 30, bc.MaxTargetSeqs)
	assert.Zero(t, bc.Timeout)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoad_FileEnvAndFlagPrecedence(t *testing.T) {
	isolated(t)
	cfg := filepath.Join(t.TempDir(), "probekit.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
design:
  probe_length: 25
  spacing: 4
  tm_method: nn
batch:
  poll_interval: 100ms
blast:
  timeout: 2m
`), 0o644))
	t.Setenv("PROBEKIT_DESIGN_SPACING", "6")

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("length", 0, "")
	require.NoError(t, fs.Parse([]string{"--length", "30"}))
	require.NoError(t, v.BindPFlag("design.probe_length", fs.Lookup("length")))

	s, err := Load(v, cfg)
	require.NoError(t, err)
	assert.Equal(t, 30, s.Design.ProbeLength, "flag beats file")
	assert.Equal(t, 6, s.Design.Spacing, "env beats file")
	assert.Equal(t, "nn", s.Design.TmMethod)
	assert.Equal(t, 100*time.Millisecond, s.Batch.PollInterval)
	assert.Equal(t, 2*time.Minute, s.Blast.Timeout)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolated(t)
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, perrors.IsCategory(err, perrors.CategoryConfiguration))
}

func TestValidate(t *testing.T) {
	isolated(t)
	t.Setenv("PROBEKIT_DESIGN_TM_METHOD", "primer3")
	t.Setenv("PROBEKIT_LOG_FORMAT", "xml")
	_, err := Load(New(), "")
	require.Error(t, err)
	assert.True(t, perrors.IsCategory(err, perrors.CategoryValidation))
	assert.Contains(t, err.Error(), "unknown tm method")
	assert.Contains(t, err.Error(), "unknown format")
}

func TestValidate_Ranges(t *testing.T) {
	isolated(t)
	s, err := Load(New(), "")
	require.NoError(t, err)

	bad := *s
	bad.Design.MinGC = 80
	assert.Error(t, Validate(&bad))

	bad = *s
	bad.Blast.MaxTargetSeqs = 0
	assert.Error(t, Validate(&bad))

	bad = *s
	bad.Batch.PollInterval = 0
	assert.Error(t, Validate(&bad))
}
