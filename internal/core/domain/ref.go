package domain

import "unique"

// PackageRef identifies a package by name and exact resolved version.
// Both components are interned, so refs are cheap to copy, compare and use
// as map keys even when the same package appears in thousands of edges.
// Two refs with equal name and version are interchangeable.
type PackageRef struct {
	name    unique.Handle[string]
	version unique.Handle[string]
}

// NewPackageRef creates a ref from a package name and exact version.
func NewPackageRef(name, version string) PackageRef {
	return PackageRef{
		name:    unique.Make(name),
		version: unique.Make(version),
	}
}

// Name returns the package name.
func (r PackageRef) Name() string {
	var zero unique.Handle[string]
	if r.name == zero {
		return ""
	}
	return r.name.Value()
}

// Version returns the exact resolved version.
func (r PackageRef) Version() string {
	var zero unique.Handle[string]
	if r.version == zero {
		return ""
	}
	return r.version.Value()
}

// String renders the ref in name@version form.
func (r PackageRef) String() string {
	return r.Name() + "@" + r.Version()
}

// IsZero reports whether the ref is the zero value.
func (r PackageRef) IsZero() bool {
	return r == PackageRef{}
}
