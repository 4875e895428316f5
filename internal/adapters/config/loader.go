// Package config provides the YAML configuration loader for pakt.
package config

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working
// directory.
const DefaultFilename = "pakt.yaml"

// OutputDirName is the per-project directory the build writes its output
// tree into. It is always excluded from hashing, as is the configuration
// file itself, so a build's own output never perturbs the next build's key.
const OutputDirName = "pakt_out"

// defaultMaxDepth bounds source tree reads when a project does not set one.
const defaultMaxDepth = 16

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Filename string
}

// NewLoader creates a Loader for the default filename.
func NewLoader() *Loader {
	return &Loader{Filename: DefaultFilename}
}

// Load reads the configuration from the given path. A directory is resolved
// to the conventional filename inside it; anything else is read as the
// configuration file itself.
func (l *Loader) Load(path string) (*domain.BuildConfig, error) {
	path = cmp.Or(path, ".")
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, cmp.Or(l.Filename, DefaultFilename))
	}
	return Load(path)
}

// Load reads a configuration file and validates every entry against the
// closed translator, builder and install method sets.
func Load(path string) (*domain.BuildConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is provided by the user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file Paktfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	cfg := &domain.BuildConfig{}
	for name, dto := range file.Projects {
		project, err := validateProject(name, dto)
		if err != nil {
			return nil, err
		}
		cfg.Projects = append(cfg.Projects, project)
	}

	slices.SortFunc(cfg.Projects, func(a, b domain.ProjectConfig) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return cfg, nil
}

func validateProject(name string, dto ProjectDTO) (domain.ProjectConfig, error) {
	translator, err := domain.ParseTranslatorID(cmp.Or(dto.Translator, string(domain.TranslatorPackageLock)))
	if err != nil {
		return domain.ProjectConfig{}, zerr.With(err, "project", name)
	}
	builder, err := domain.ParseBuilderKind(cmp.Or(dto.Builder, string(domain.BuilderGranular)))
	if err != nil {
		return domain.ProjectConfig{}, zerr.With(err, "project", name)
	}
	method, err := domain.ParseInstallMethod(cmp.Or(dto.InstallMethod, string(domain.InstallSymlink)))
	if err != nil {
		return domain.ProjectConfig{}, zerr.With(err, "project", name)
	}

	maxDepth := dto.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	// Conventional exclusions: the generated output directory and the build
	// configuration file, on top of whatever the project lists.
	exclude := slices.Clone(dto.Exclude)
	for _, always := range []string{OutputDirName, DefaultFilename} {
		if !slices.Contains(exclude, always) {
			exclude = append(exclude, always)
		}
	}

	return domain.ProjectConfig{
		Name:          name,
		Path:          cmp.Or(dto.Path, "."),
		Translator:    translator,
		Builder:       builder,
		InstallMethod: method,
		Exclude:       exclude,
		MaxDepth:      maxDepth,
		Args:          dto.Args,
	}, nil
}
