// Package leir provides the built-in optimization problems for LEIR.
package leir

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Name identifies this provider in logs and import outcomes.
func (m *Module) Name() string { return "leir" }

// Register adds the LEIR problems to the registry.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	maxSteps := cty.NumberIntVal(50)
	return r.Register(ctx, &registry.ProblemSpec{
		Name:    "cern_leir_transfer_line_env",
		Title:   "LEIR transfer line steering",
		Machine: machine.Leir,
		Params: map[string]*registry.ParamSpec{
			"max_steps": {
				Name:     "max_steps",
				Type:     cty.Number,
				Default:  &maxSteps,
				Optional: true,
			},
		},
		Source: m.Name(),
	})
}
