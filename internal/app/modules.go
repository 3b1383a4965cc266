package app

import (
	"github.com/cernml/geoff/internal/registry"
	"github.com/cernml/geoff/problems/awake"
	"github.com/cernml/geoff/problems/isolde"
	"github.com/cernml/geoff/problems/leir"
	"github.com/cernml/geoff/problems/linac3"
	"github.com/cernml/geoff/problems/psb"
	"github.com/cernml/geoff/problems/sps"
)

// builtinModules is the definitive list of all problem providers that are
// compiled into the geoff binary.
var builtinModules = []registry.Module{
	&awake.Module{},
	&isolde.Module{},
	&leir.Module{},
	&linac3.Module{},
	&psb.Module{},
	&sps.Module{},
}
