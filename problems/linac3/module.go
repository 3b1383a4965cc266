// Package linac3 provides the built-in optimization problems for Linac 3.
package linac3

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Name identifies this provider in logs and import outcomes.
func (m *Module) Name() string { return "linac3" }

// Register adds the Linac 3 problems to the registry.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	numElements := cty.NumberIntVal(4)
	return r.Register(ctx, &registry.ProblemSpec{
		Name:        "linac3_lebt_tuning",
		Title:       "Linac 3 LEBT tuning",
		Machine:     machine.Linac3,
		Description: "Tunes the low-energy beam transport line of the ion source.",
		Params: map[string]*registry.ParamSpec{
			"num_elements": {
				Name:        "num_elements",
				Type:        cty.Number,
				Description: "Number of corrector elements to vary.",
				Default:     &numElements,
				Optional:    true,
			},
		},
		Source: m.Name(),
	})
}
