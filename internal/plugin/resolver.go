// Package plugin loads optimization-problem plugins by filesystem path.
//
// A foreign import names a plugin file, a bundle directory, a zip archive,
// or a location inside a zip archive, optionally followed by a
// "::"-delimited chain of child units. Importing a unit evaluates its
// manifest, which registers the problems it declares into the process-wide
// registry as a side effect. The resolver caches every imported unit so
// that repeated imports of the same location are idempotent and never
// register a problem twice.
package plugin

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cernml/geoff/internal/ctxlog"
	"github.com/cernml/geoff/internal/registry"
)

// manifestExt is the file extension of plugin manifests.
const manifestExt = ".hcl"

type unitKind int

const (
	unitFile unitKind = iota
	unitBundle
	unitNamespace
)

// Unit is one imported plugin code unit.
type Unit struct {
	// Name is the synthetic module name derived from the unit's location,
	// e.g. "mypkg" for /path/to/mypkg and "mypkg.child" for its children.
	Name string
	// Key canonically identifies the unit's location; the resolver's cache
	// is keyed by it.
	Key string
	// Problems lists the problem names this unit registered, in
	// registration order. Empty for namespace units.
	Problems []string

	kind unitKind
	fsys fs.FS
	dir  string // directory of the unit within fsys
	file string // manifest file within fsys; empty for namespace units
}

// location is a root path resolved to a file system and an entry in it.
type location struct {
	fsys  fs.FS
	entry string
	key   string
	name  string
}

// Resolver imports plugin units and registers their problems.
type Resolver struct {
	registry *registry.Registry
	units    map[string]*Unit
	archives []io.Closer
}

// NewResolver creates a Resolver that registers problems into reg.
func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{
		registry: reg,
		units:    make(map[string]*Unit),
	}
}

// Close releases any zip archives the resolver has opened. Cached units
// backed by an archive must not be imported from again afterwards.
func (r *Resolver) Close() error {
	var errs []error
	for _, archive := range r.archives {
		errs = append(errs, archive.Close())
	}
	r.archives = nil
	return errors.Join(errs...)
}

// Import loads the unit named by the path specification, evaluating its
// manifest(s) so that declared problems are registered. Any failure is
// wrapped in an ImportError attributing it to the specification.
func (r *Resolver) Import(ctx context.Context, importPath ImportPath) (*Unit, error) {
	unit, err := r.doImport(ctx, importPath)
	if err != nil {
		return nil, &ImportError{Spec: importPath.Spec, Err: err}
	}
	return unit, nil
}

func (r *Resolver) doImport(ctx context.Context, importPath ImportPath) (*Unit, error) {
	logger := ctxlog.FromContext(ctx)

	unit, err := r.importRoot(ctx, importPath.Root)
	if err != nil {
		return nil, err
	}
	if len(importPath.Chain) > 0 {
		logger.Debug("Descending into submodule chain.", "chain", importPath.Chain)
	}
	for _, child := range importPath.Chain {
		unit, err = r.importChild(ctx, unit, child)
		if err != nil {
			return nil, err
		}
	}
	if unit.kind == unitNamespace {
		return nil, &NamespaceRootError{Spec: importPath.Spec}
	}
	return unit, nil
}

// importRoot resolves and imports the root unit of a path specification.
func (r *Resolver) importRoot(ctx context.Context, root string) (*Unit, error) {
	logger := ctxlog.FromContext(ctx)

	loc, err := r.locate(root)
	if err != nil {
		return nil, err
	}
	if cached, ok := r.units[loc.key]; ok {
		logger.Debug("Skipping already imported unit.", "name", cached.Name)
		return cached, nil
	}
	logger.Debug("Importing root unit.", "name", loc.name, "key", loc.key)
	unit, err := r.load(ctx, loc.fsys, loc.entry, loc.key, loc.name)
	if err != nil {
		return nil, err
	}
	r.units[loc.key] = unit
	return unit, nil
}

// importChild imports a child unit of a previously imported bundle or
// namespace. Directories take precedence over plugin files of the same
// name, mirroring the package-before-module search order.
func (r *Resolver) importChild(ctx context.Context, parent *Unit, name string) (*Unit, error) {
	logger := ctxlog.FromContext(ctx)

	if parent.kind == unitFile {
		return nil, fmt.Errorf("'%s' is a single file and has no submodule '%s'", parent.Name, name)
	}
	key := parent.Key + "::" + name
	if cached, ok := r.units[key]; ok {
		logger.Debug("Skipping already imported unit.", "name", cached.Name)
		return cached, nil
	}

	fullName := parent.Name + "." + name
	childDir := path.Join(parent.dir, name)
	entry := ""
	if info, err := fs.Stat(parent.fsys, childDir); err == nil && info.IsDir() {
		entry = childDir
	} else if info, err := fs.Stat(parent.fsys, childDir+manifestExt); err == nil && !info.IsDir() {
		entry = childDir + manifestExt
	} else {
		return nil, fmt.Errorf("no submodule '%s' in '%s'", name, parent.Name)
	}

	logger.Debug("Importing submodule.", "name", fullName)
	unit, err := r.load(ctx, parent.fsys, entry, key, fullName)
	if err != nil {
		return nil, err
	}
	r.units[key] = unit
	return unit, nil
}

// load classifies an entry and, unless it is a namespace, evaluates it.
func (r *Resolver) load(ctx context.Context, fsys fs.FS, entry, key, name string) (*Unit, error) {
	info, err := fs.Stat(fsys, entry)
	if err != nil {
		return nil, fmt.Errorf("cannot import '%s': %w", entry, err)
	}

	if info.IsDir() {
		marker := path.Join(entry, BundleMarker)
		if _, err := fs.Stat(fsys, marker); err != nil {
			// A namespace: valid as an intermediate step of a submodule
			// chain, rejected later if it ends up being the final unit.
			return &Unit{Name: name, Key: key, kind: unitNamespace, fsys: fsys, dir: entry}, nil
		}
		unit := &Unit{Name: name, Key: key, kind: unitBundle, fsys: fsys, dir: entry, file: marker}
		if err := r.evaluate(ctx, unit); err != nil {
			return nil, err
		}
		return unit, nil
	}

	if !strings.HasSuffix(entry, manifestExt) {
		return nil, fmt.Errorf("'%s' is not a plugin manifest (expected a %s file)", entry, manifestExt)
	}
	unit := &Unit{Name: name, Key: key, kind: unitFile, fsys: fsys, dir: path.Dir(entry), file: entry}
	if err := r.evaluate(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// evaluate parses the unit's manifest and registers every problem it
// declares. This is the side-effecting step of an import.
func (r *Resolver) evaluate(ctx context.Context, unit *Unit) error {
	logger := ctxlog.FromContext(ctx)

	src, err := fs.ReadFile(unit.fsys, unit.file)
	if err != nil {
		return fmt.Errorf("cannot read '%s': %w", unit.file, err)
	}
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, unit.file)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse '%s': %w", unit.file, diags)
	}
	var manifest manifestFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
		return fmt.Errorf("invalid manifest '%s': %w", unit.file, diags)
	}

	for _, block := range manifest.Problems {
		spec, err := block.spec(unit.Name)
		if err != nil {
			return err
		}
		if err := r.registry.Register(ctx, spec); err != nil {
			return err
		}
		unit.Problems = append(unit.Problems, spec.Name)
	}
	logger.Debug("Evaluated plugin manifest.", "unit", unit.Name, "problems", len(unit.Problems))
	return nil
}

// locate resolves a root path to a file system and an entry within it. A
// path that is a zip archive resolves to the archive's contents; a path
// whose prefix is a zip archive resolves to the remainder inside it.
func (r *Resolver) locate(root string) (location, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return location{}, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return r.locateInArchive(root, abs)
	}
	if info.IsDir() {
		return location{fsys: os.DirFS(abs), entry: ".", key: abs, name: stem(abs)}, nil
	}
	if isArchive(abs) {
		// A cached root means the archive was already opened; do not
		// stack another reader for it.
		if _, ok := r.units[abs]; ok {
			return location{key: abs, name: stem(abs)}, nil
		}
		zr, err := zip.OpenReader(abs)
		if err != nil {
			return location{}, fmt.Errorf("cannot open archive '%s': %w", root, err)
		}
		r.archives = append(r.archives, zr)
		return location{fsys: zr, entry: ".", key: abs, name: stem(abs)}, nil
	}
	dir, base := filepath.Split(abs)
	return location{fsys: os.DirFS(filepath.Clean(dir)), entry: base, key: abs, name: stem(abs)}, nil
}

// locateInArchive walks up a non-existing path until it finds an existing
// prefix, which must be a zip archive containing the remainder.
func (r *Resolver) locateInArchive(display, abs string) (location, error) {
	var rest []string
	prefix := abs
	for {
		parent := filepath.Dir(prefix)
		if parent == prefix {
			return location{}, fmt.Errorf("no such file or directory: '%s'", display)
		}
		rest = append([]string{filepath.Base(prefix)}, rest...)
		prefix = parent

		info, err := os.Stat(prefix)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			// An existing directory whose child is missing: nothing below
			// it can resolve.
			return location{}, fmt.Errorf("no such file or directory: '%s'", display)
		}
		if !isArchive(prefix) {
			return location{}, fmt.Errorf("'%s' is not an archive, cannot resolve '%s' inside it", prefix, display)
		}
		entry := path.Join(rest...)
		key := prefix + "!" + entry
		if _, ok := r.units[key]; ok {
			return location{key: key, name: stem(entry)}, nil
		}
		zr, err := zip.OpenReader(prefix)
		if err != nil {
			return location{}, fmt.Errorf("cannot open archive '%s': %w", prefix, err)
		}
		if _, err := fs.Stat(zr, entry); err != nil {
			zr.Close()
			return location{}, fmt.Errorf("no entry '%s' in archive '%s'", entry, prefix)
		}
		r.archives = append(r.archives, zr)
		return location{fsys: zr, entry: entry, key: key, name: stem(entry)}, nil
	}
}

// isArchive reports whether a path names a zip archive by extension.
func isArchive(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".zip")
}

// stem returns the final path element without its extension.
func stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
