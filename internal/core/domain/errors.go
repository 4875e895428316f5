package domain

import "go.trai.ch/zerr"

var (
	// ErrParse is returned when structured file content (JSON/TOML) does not conform.
	ErrParse = zerr.New("malformed structured content")

	// ErrPathNotFound is returned when a path segment is absent from a source tree snapshot.
	ErrPathNotFound = zerr.New("path not found in source tree")

	// ErrMalformedLockfile is returned on a lockfile schema violation.
	ErrMalformedLockfile = zerr.New("malformed lockfile")

	// ErrUnresolvableConflict is returned when two different versions would occupy the same path.
	ErrUnresolvableConflict = zerr.New("unresolvable version conflict")

	// ErrLifecycleScript is returned when a preinstall/install/postinstall script exits non-zero.
	ErrLifecycleScript = zerr.New("lifecycle script failed")

	// ErrBuildFailed is the overall status when at least one package failed or was blocked.
	ErrBuildFailed = zerr.New("build failed")

	// ErrNotCached is returned by the artifact store when a content key has no entry.
	ErrNotCached = zerr.New("artifact not cached")

	// ErrUnknownTranslator is returned for a translator name outside the closed set.
	ErrUnknownTranslator = zerr.New("unknown translator")

	// ErrUnknownBuilder is returned for a builder name outside the closed set.
	ErrUnknownBuilder = zerr.New("unknown builder")

	// ErrUnknownInstallMethod is returned for an install method outside the closed set.
	ErrUnknownInstallMethod = zerr.New("unknown install method")

	// ErrNoProjects is returned when the configuration declares no projects.
	ErrNoProjects = zerr.New("no projects configured")

	// ErrUnknownProject is returned for a project name absent from the configuration.
	ErrUnknownProject = zerr.New("unknown project")
)
