package plugin

import (
	"context"

	"github.com/cernml/geoff/internal/ctxlog"
	"github.com/cernml/geoff/internal/registry"
)

// Request kinds, used to attribute failures in error reports.
const (
	KindBuiltin  = "built-in"
	KindExternal = "external"
)

// RequestState tracks the fate of one import request.
type RequestState int

const (
	Pending RequestState = iota
	Succeeded
	Failed
)

// String returns a human-readable state name.
func (s RequestState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State tracks the orchestrator's own lifecycle.
type State int

const (
	NotStarted State = iota
	Running
	Completed
)

// Outcome records the result of one import request.
type Outcome struct {
	// Description identifies the request: a provider name for built-ins,
	// the path specification for external plugins.
	Description string
	// Kind is KindBuiltin or KindExternal.
	Kind  string
	State RequestState
	// Err is set when State is Failed.
	Err error
}

// request is one pending unit of work of the import phase.
type request struct {
	kind     string
	describe string
	perform  func(ctx context.Context) error
}

// Orchestrator drives the import phase: built-in problem providers first,
// then user-supplied foreign paths, in the order they were added. The
// whole phase runs sequentially on the startup thread; the registry and
// the unit cache are only ever mutated from here.
type Orchestrator struct {
	registry  *registry.Registry
	resolver  *Resolver
	keepGoing bool
	requests  []request
	state     State
}

// NewOrchestrator creates an Orchestrator registering into reg. With
// keepGoing set, every request is attempted even if an earlier one fails;
// otherwise the first failure halts the phase.
func NewOrchestrator(reg *registry.Registry, keepGoing bool) *Orchestrator {
	return &Orchestrator{
		registry:  reg,
		resolver:  NewResolver(reg),
		keepGoing: keepGoing,
		state:     NotStarted,
	}
}

// Resolver returns the orchestrator's resolver, whose archives the caller
// must Close once the import phase is over.
func (o *Orchestrator) Resolver() *Resolver {
	return o.resolver
}

// State returns the orchestrator's lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// AddBuiltin queues a compiled-in problem provider.
func (o *Orchestrator) AddBuiltin(mod registry.Module) {
	o.requests = append(o.requests, request{
		kind:     KindBuiltin,
		describe: mod.Name(),
		perform: func(ctx context.Context) error {
			return mod.Register(ctx, o.registry)
		},
	})
}

// AddForeign queues a user-supplied foreign import path specification.
func (o *Orchestrator) AddForeign(spec string) {
	importPath := ParseImportPath(spec)
	o.requests = append(o.requests, request{
		kind:     KindExternal,
		describe: spec,
		perform: func(ctx context.Context) error {
			_, err := o.resolver.Import(ctx, importPath)
			return err
		},
	})
}

// Run attempts every queued request in order and returns one Outcome per
// request. Requests skipped after a short-circuiting failure are reported
// as Pending.
func (o *Orchestrator) Run(ctx context.Context) []Outcome {
	logger := ctxlog.FromContext(ctx)
	o.state = Running
	logger.Debug("Import phase started.", "requests", len(o.requests), "keep_going", o.keepGoing)

	outcomes := make([]Outcome, len(o.requests))
	halted := false
	for i, req := range o.requests {
		outcomes[i] = Outcome{Description: req.describe, Kind: req.kind, State: Pending}
		if halted {
			continue
		}
		if err := req.perform(ctx); err != nil {
			outcomes[i].State = Failed
			outcomes[i].Err = err
			logger.Error("Plugin import failed.", "kind", req.kind, "request", req.describe, "error", err)
			if !o.keepGoing {
				halted = true
			}
			continue
		}
		outcomes[i].State = Succeeded
	}

	o.state = Completed
	logger.Debug("Import phase completed.", "halted", halted)
	return outcomes
}
