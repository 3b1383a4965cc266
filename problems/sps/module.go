// Package sps provides the built-in optimization problems for the SPS.
package sps

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Name identifies this provider in logs and import outcomes.
func (m *Module) Name() string { return "sps" }

func num(v float64) *cty.Value {
	val := cty.NumberFloatVal(v)
	return &val
}

// Register adds the SPS problems to the registry.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	specs := []*registry.ProblemSpec{
		{
			Name:    "cern_sps_splitter_opt_env",
			Title:   "SPS splitter optimization",
			Machine: machine.SPS,
			Params: map[string]*registry.ParamSpec{
				"max_steps": {
					Name:        "max_steps",
					Type:        cty.Number,
					Description: "Upper bound on optimization steps per run.",
					Default:     num(100),
					Optional:    true,
				},
			},
			Source: m.Name(),
		},
		{
			Name:    "cern_sps_tune_env",
			Title:   "SPS tune correction",
			Machine: machine.SPS,
			Params: map[string]*registry.ParamSpec{
				"target_tune_h": {
					Name:     "target_tune_h",
					Type:     cty.Number,
					Default:  num(26.13),
					Optional: true,
				},
				"target_tune_v": {
					Name:     "target_tune_v",
					Type:     cty.Number,
					Default:  num(26.18),
					Optional: true,
				},
			},
			Source: m.Name(),
		},
		{
			Name:    "cern_sps_zs_alignment_env",
			Title:   "SPS ZS electrostatic septum alignment",
			Machine: machine.SPS,
			Params: map[string]*registry.ParamSpec{
				"num_septa": {
					Name:     "num_septa",
					Type:     cty.Number,
					Default:  num(5),
					Optional: true,
				},
			},
			Source: m.Name(),
		},
		{
			Name:    "sps_blowup",
			Title:   "SPS transverse emittance blow-up",
			Machine: machine.SPS,
			Params: map[string]*registry.ParamSpec{
				"target_emittance": {
					Name:        "target_emittance",
					Type:        cty.Number,
					Description: "Normalized emittance to blow up to, in um.",
					Default:     num(2.5),
					Optional:    true,
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
