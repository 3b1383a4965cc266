// Package psb provides the built-in optimization problems for the PS
// Booster.
package psb

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Name identifies this provider in logs and import outcomes.
func (m *Module) Name() string { return "psb" }

// Register adds the PS Booster problems to the registry.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	ring := cty.NumberIntVal(3)
	return r.Register(ctx, &registry.ProblemSpec{
		Name:    "psb_extr_and_recomb_optim.optimizer",
		Title:   "PSB extraction and recombination optimization",
		Machine: machine.PSB,
		Params: map[string]*registry.ParamSpec{
			"ring": {
				Name:        "ring",
				Type:        cty.Number,
				Description: "Booster ring to optimize, 1 through 4.",
				Default:     &ring,
				Optional:    true,
			},
		},
		Source: m.Name(),
	})
}
