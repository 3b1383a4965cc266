package plugin

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"

	"github.com/cernml/geoff/internal/machine"
	"github.com/cernml/geoff/internal/registry"
)

// manifestFile is the top-level structure of a plugin manifest. A manifest
// declares zero or more optimization problems.
type manifestFile struct {
	Problems []*problemBlock `hcl:"problem,block"`
}

// problemBlock is a `problem` block from a plugin manifest.
type problemBlock struct {
	Name        string        `hcl:"name,label"`
	Title       string        `hcl:"title,optional"`
	Machine     string        `hcl:"machine,optional"`
	Description string        `hcl:"description,optional"`
	Params      []*paramBlock `hcl:"param,block"`
}

// paramBlock is a `param` block declaring one configurable parameter.
// Type is a type expression (string, number, bool or any); Default, if
// present, must be a constant of that type.
type paramBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
	Optional    bool           `hcl:"optional,optional"`
}

// spec translates the decoded block into a registry spec, attributing it
// to the given source unit.
func (b *problemBlock) spec(source string) (*registry.ProblemSpec, error) {
	m := machine.NoMachine
	if b.Machine != "" {
		var err error
		m, err = machine.Parse(b.Machine)
		if err != nil {
			return nil, fmt.Errorf("problem '%s': %w", b.Name, err)
		}
	}

	params := make(map[string]*registry.ParamSpec, len(b.Params))
	for _, p := range b.Params {
		if _, dup := params[p.Name]; dup {
			return nil, fmt.Errorf("problem '%s': duplicate parameter '%s'", b.Name, p.Name)
		}
		ty, diags := typeexpr.TypeConstraint(p.Type)
		if diags.HasErrors() {
			return nil, fmt.Errorf("problem '%s': parameter '%s': %w", b.Name, p.Name, diags)
		}
		var def *cty.Value
		if p.Default != nil {
			// Defaults are constants; there is nothing to evaluate against.
			val, diags := p.Default.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("problem '%s': parameter '%s': %w", b.Name, p.Name, diags)
			}
			def = &val
		}
		params[p.Name] = &registry.ParamSpec{
			Name:        p.Name,
			Type:        ty,
			Description: p.Description,
			Default:     def,
			Optional:    p.Optional,
		}
	}

	return &registry.ProblemSpec{
		Name:        b.Name,
		Title:       b.Title,
		Machine:     m,
		Description: b.Description,
		Params:      params,
		Source:      source,
	}, nil
}
