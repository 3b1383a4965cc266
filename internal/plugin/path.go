package plugin

import "strings"

// ImportPath is a parsed foreign-import path specification of the form
// "path", "path::child" or "path::child::grandchild".
type ImportPath struct {
	// Spec is the specification exactly as the user supplied it.
	Spec string
	// Root is the filesystem path of the root unit. It may point at a
	// plugin file, a bundle directory, a zip archive, or a location inside
	// a zip archive.
	Root string
	// Chain lists the child units to import after the root, in order.
	Chain []string
}

// ParseImportPath splits a path specification on the "::" delimiter. The
// split runs right to left; a segment that contains a forward or backward
// slash is part of the filesystem path, so a literal "::" in a file name
// can be protected with a trailing slash:
//
//	strange::module.hcl/
//	strange::bundle/::child
func ParseImportPath(spec string) ImportPath {
	var chain []string
	rest := spec
	for {
		idx := strings.LastIndex(rest, "::")
		if idx < 0 {
			break
		}
		tail := rest[idx+2:]
		if strings.ContainsAny(tail, `/\`) {
			break
		}
		chain = append(chain, tail)
		rest = rest[:idx]
	}
	// The chain was collected right to left.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return ImportPath{Spec: spec, Root: rest, Chain: chain}
}

// String returns the specification as the user supplied it.
func (p ImportPath) String() string {
	return p.Spec
}
