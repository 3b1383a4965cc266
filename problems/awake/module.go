// Package awake provides the built-in optimization problems for AWAKE.
package awake

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Name identifies this provider in logs and import outcomes.
func (m *Module) Name() string { return "awake" }

func num(v float64) *cty.Value {
	val := cty.NumberFloatVal(v)
	return &val
}

// Register adds the AWAKE problems to the registry. The machine problem
// steers the real electron line; the simulation problem runs against a
// surrogate model and needs no machine access.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	specs := []*registry.ProblemSpec{
		{
			Name:    "cern_awake_env.machine",
			Title:   "AWAKE electron line steering",
			Machine: machine.Awake,
			Params: map[string]*registry.ParamSpec{
				"target_position": {
					Name:        "target_position",
					Type:        cty.Number,
					Description: "Beam position at the plasma cell entrance, in mm.",
					Default:     num(0),
					Optional:    true,
				},
			},
			Source: m.Name(),
		},
		{
			Name:        "cern_awake_env.simulation",
			Title:       "AWAKE electron line steering (simulation)",
			Machine:     machine.Awake,
			Description: "Runs against a surrogate model of the electron line.",
			Params: map[string]*registry.ParamSpec{
				"noise_level": {
					Name:     "noise_level",
					Type:     cty.Number,
					Default:  num(0.1),
					Optional: true,
				},
			},
			Source: m.Name(),
		},
	}
	for _, spec := range specs {
		if err := r.Register(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}
