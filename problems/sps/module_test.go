package sps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

func TestModule_RegistersAllProblems(t *testing.T) {
	t.Parallel()

	// Arrange
	reg := registry.New()
	mod := &Module{}

	// Act
	err := mod.Register(context.Background(), reg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cern_sps_splitter_opt_env",
		"cern_sps_tune_env",
		"cern_sps_zs_alignment_env",
		"sps_blowup",
	}, reg.Names())
	for _, name := range reg.Names() {
		spec := reg.Lookup(name)
		assert.Equal(t, machine.SPS, spec.Machine, name)
		assert.NoError(t, spec.Validate(context.Background()), name)
	}
}
