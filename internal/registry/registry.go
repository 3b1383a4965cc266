// Package registry holds the process-wide catalogue of optimization
// problems.
//
// The registry is created once at process start and populated during the
// import phase, first by the compiled-in problem providers and then by
// foreign plugins as a side effect of their evaluation. It is passed by
// reference into everything that needs it; there is no ambient global and
// it is never reset within a run. The GUI layer (external to this
// repository) presents its contents to the operator.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/cernml/geoff/internal/ctxlog"
	"github.com/cernml/geoff/internal/machine"
)

// ParamSpec declares one configurable parameter of a problem.
type ParamSpec struct {
	Name        string
	Type        cty.Type
	Description string
	// Default is nil for parameters without a default value.
	Default *cty.Value
	Optional bool
}

// ProblemSpec describes one optimization problem offered to the operator.
type ProblemSpec struct {
	// Name is the identifier under which the problem is registered,
	// e.g. "sps_blowup".
	Name  string
	Title string
	// Machine is the machine this problem runs against; NoMachine for
	// machine-independent problems.
	Machine     machine.Machine
	Description string
	Params      map[string]*ParamSpec
	// Source names whatever registered the problem: "built-in" or the
	// plugin unit the problem came from.
	Source string
}

// Validate checks the internal consistency of the spec, in particular
// that every parameter default matches its declared type.
func (s *ProblemSpec) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if s.Name == "" {
		return fmt.Errorf("problem spec without a name")
	}
	for name, param := range s.Params {
		if param.Type == cty.NilType {
			return fmt.Errorf("problem '%s': parameter '%s' has no type", s.Name, name)
		}
		if param.Default == nil {
			continue
		}
		if param.Type.Equals(cty.DynamicPseudoType) {
			// 'any' disables static type checking for this parameter.
			logger.Warn("Parameter type 'any' disables the default type check.",
				"problem", s.Name, "parameter", name)
			continue
		}
		converted, err := convert.Convert(*param.Default, param.Type)
		if err != nil {
			return fmt.Errorf(
				"problem '%s': parameter '%s': default does not match type %s: %w",
				s.Name, name, param.Type.FriendlyName(), err,
			)
		}
		param.Default = &converted
	}
	return nil
}

// Module is the interface implemented by compiled-in problem providers.
type Module interface {
	// Name identifies the provider in logs and import outcomes.
	Name() string
	// Register adds the provider's problems to the registry.
	Register(ctx context.Context, r *Registry) error
}

// Registry is the catalogue of registered problems for one application
// instance. It is not safe for concurrent use; the import phase is
// strictly sequential.
type Registry struct {
	problems map[string]*ProblemSpec
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{problems: make(map[string]*ProblemSpec)}
}

// Register validates the spec and adds it to the registry. Registering a
// name that already exists replaces the earlier entry: foreign plugins may
// deliberately shadow built-in problems.
func (r *Registry) Register(ctx context.Context, spec *ProblemSpec) error {
	logger := ctxlog.FromContext(ctx)
	if err := spec.Validate(ctx); err != nil {
		return err
	}
	if previous, exists := r.problems[spec.Name]; exists {
		logger.Warn("Problem registration shadows an earlier one.",
			"name", spec.Name, "previous_source", previous.Source, "source", spec.Source)
	} else {
		logger.Debug("Registering problem.", "name", spec.Name, "source", spec.Source)
	}
	r.problems[spec.Name] = spec
	return nil
}

// Lookup returns the spec registered under name, or nil if there is none.
func (r *Registry) Lookup(name string) *ProblemSpec {
	return r.problems[name]
}

// Names returns the registered problem names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered problems.
func (r *Registry) Len() int {
	return len(r.problems)
}
