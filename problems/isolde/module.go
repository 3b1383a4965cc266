// Package isolde provides the built-in optimization problems for ISOLDE.
package isolde

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Name identifies this provider in logs and import outcomes.
func (m *Module) Name() string { return "isolde" }

// Register adds the ISOLDE problems to the registry.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	beamline := cty.StringVal("HRS")
	return r.Register(ctx, &registry.ProblemSpec{
		Name:        "cern_isolde_offline_env",
		Title:       "ISOLDE separator tuning (offline)",
		Machine:     machine.Isolde,
		Description: "Tunes the offline separator against archived beam data.",
		Params: map[string]*registry.ParamSpec{
			"beamline": {
				Name:        "beamline",
				Type:        cty.String,
				Description: "Separator beamline to tune, GPS or HRS.",
				Default:     &beamline,
				Optional:    true,
			},
		},
		Source: m.Name(),
	})
}
