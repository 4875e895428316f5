package domain

import (
	"encoding/json"
	"strings"

	"go.trai.ch/zerr"
)

// LifecycleScripts are the install-time commands a package may declare.
// An empty string means the stage is absent and is a no-op at install time.
type LifecycleScripts struct {
	Preinstall  string `json:"preinstall,omitzero"`
	Install     string `json:"install,omitzero"`
	Postinstall string `json:"postinstall,omitzero"`
}

// Stages returns the declared stages in their fixed execution order.
func (s LifecycleScripts) Stages() []LifecycleStage {
	return []LifecycleStage{
		{Name: "preinstall", Script: s.Preinstall},
		{Name: "install", Script: s.Install},
		{Name: "postinstall", Script: s.Postinstall},
	}
}

// LifecycleStage is a single named install-time stage.
type LifecycleStage struct {
	Name   string
	Script string
}

// Project is a read-only snapshot of a project manifest (package.json shape).
// It is created once per build invocation and never mutated.
type Project struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitzero"`
	Bin          map[string]string `json:"bin,omitzero"`
	Scripts      LifecycleScripts  `json:"scripts,omitzero"`
}

// Ref returns the project's package ref.
func (p *Project) Ref() PackageRef {
	return NewPackageRef(p.Name, p.Version)
}

// Canonical serializes the project deterministically for hashing.
// encoding/json writes map keys in sorted order, so equal projects always
// produce identical bytes.
func (p *Project) Canonical() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to serialize project")
	}
	return data, nil
}

type manifestJSON struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
	Bin          json.RawMessage   `json:"bin"`
	Scripts      map[string]string `json:"scripts"`
}

// ProjectFromManifest parses a package.json file node into a Project.
func ProjectFromManifest(file *TreeNode) (*Project, error) {
	var m manifestJSON
	if err := json.Unmarshal(file.Data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(ErrParse, err.Error()), "path", file.RelPath)
	}
	if m.Name == "" {
		return nil, zerr.With(zerr.Wrap(ErrParse, "manifest has no name"), "path", file.RelPath)
	}

	bin, err := ParseBin(m.Name, m.Bin)
	if err != nil {
		return nil, zerr.With(err, "path", file.RelPath)
	}

	return &Project{
		Name:         m.Name,
		Version:      m.Version,
		Dependencies: m.Dependencies,
		Bin:          bin,
		Scripts: LifecycleScripts{
			Preinstall:  m.Scripts["preinstall"],
			Install:     m.Scripts["install"],
			Postinstall: m.Scripts["postinstall"],
		},
	}, nil
}

// ParseBin normalizes a manifest bin field, which is either a single script
// path (keyed by the package's unscoped name) or a map of executable name to
// script.
func ParseBin(pkgName string, raw json.RawMessage) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		// A scoped package's executable carries only the part after the
		// scope, so the link name never contains a slash.
		if idx := strings.LastIndex(pkgName, "/"); idx >= 0 {
			pkgName = pkgName[idx+1:]
		}
		return map[string]string{pkgName: single}, nil
	}
	var many map[string]string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, zerr.Wrap(ErrParse, "bin must be a string or a map of strings")
	}
	return many, nil
}
