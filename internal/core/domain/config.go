package domain

import "go.trai.ch/zerr"

// TranslatorID selects one of the closed set of lockfile translators.
type TranslatorID string

const (
	// TranslatorPackageLock parses package-lock.json (pure).
	TranslatorPackageLock TranslatorID = "package-lock"
	// TranslatorYarnLock parses the yarn lockfile text format (pure).
	TranslatorYarnLock TranslatorID = "yarn-lock"
	// TranslatorManifest synthesizes a lockfile from package.json alone by
	// invoking the package manager. The single impure entry point.
	TranslatorManifest TranslatorID = "package-json"
)

// ParseTranslatorID validates a translator name against the closed set.
func ParseTranslatorID(s string) (TranslatorID, error) {
	switch TranslatorID(s) {
	case TranslatorPackageLock, TranslatorYarnLock, TranslatorManifest:
		return TranslatorID(s), nil
	}
	return "", zerr.With(ErrUnknownTranslator, "translator", s)
}

// BuilderKind selects the failure policy of the build orchestrator.
type BuilderKind string

const (
	// BuilderGranular keeps building independent branches after a failure.
	BuilderGranular BuilderKind = "granular"
	// BuilderStrict stops launching new work after the first failure.
	BuilderStrict BuilderKind = "strict"
)

// ParseBuilderKind validates a builder name against the closed set.
func ParseBuilderKind(s string) (BuilderKind, error) {
	switch BuilderKind(s) {
	case BuilderGranular, BuilderStrict:
		return BuilderKind(s), nil
	}
	return "", zerr.With(ErrUnknownBuilder, "builder", s)
}

// InstallMethod selects how dependency subtrees are materialized.
type InstallMethod string

const (
	// InstallSymlink links dependency directories into place.
	InstallSymlink InstallMethod = "symlink"
	// InstallCopy copies dependency files into place.
	InstallCopy InstallMethod = "copy"
)

// ParseInstallMethod validates an install method against the closed set.
func ParseInstallMethod(s string) (InstallMethod, error) {
	switch InstallMethod(s) {
	case InstallSymlink, InstallCopy:
		return InstallMethod(s), nil
	}
	return "", zerr.With(ErrUnknownInstallMethod, "installMethod", s)
}

// ProjectConfig is the validated build configuration for one project.
type ProjectConfig struct {
	Name          string
	Path          string
	Translator    TranslatorID
	Builder       BuilderKind
	InstallMethod InstallMethod
	Exclude       []string
	MaxDepth      int
	Args          map[string]string
}

// BuildConfig is the full validated configuration surface, projects sorted
// by name.
type BuildConfig struct {
	Projects []ProjectConfig
}

// Project returns the configuration for a project by name.
func (c *BuildConfig) Project(name string) (ProjectConfig, bool) {
	for _, p := range c.Projects {
		if p.Name == name {
			return p, true
		}
	}
	return ProjectConfig{}, false
}
