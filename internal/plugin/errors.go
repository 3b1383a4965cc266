package plugin

import "fmt"

// BundleMarker is the file that marks a directory as an importable plugin
// bundle. A directory without it is a namespace: it may be traversed on
// the way to a submodule, but never imported as the final unit.
const BundleMarker = "bundle.hcl"

// NamespaceRootError reports that the finally imported unit is a namespace
// directory. This almost always hints at a path confusion, where the user
// passed a directory that does not actually contain any plugin manifests.
type NamespaceRootError struct {
	// Spec is the path specification that led to the namespace.
	Spec string
}

// Error implements the error interface.
func (e *NamespaceRootError) Error() string {
	return fmt.Sprintf("no %s found, please check the path: %s", BundleMarker, e.Spec)
}

// ImportError wraps any failure while importing one foreign path,
// attributing it to the path specification that was being processed.
type ImportError struct {
	Spec string
	Err  error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	return fmt.Sprintf("import of '%s' failed: %v", e.Spec, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ImportError) Unwrap() error {
	return e.Err
}
