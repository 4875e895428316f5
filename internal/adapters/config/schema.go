package config

// Paktfile represents the structure of the pakt.yaml configuration file.
type Paktfile struct {
	Version  string                `yaml:"version"`
	Projects map[string]ProjectDTO `yaml:"projects"`
}

// ProjectDTO represents one project entry in the configuration.
type ProjectDTO struct {
	Path          string            `yaml:"path"`
	Translator    string            `yaml:"translator"`
	Builder       string            `yaml:"builder"`
	InstallMethod string            `yaml:"installMethod"`
	Exclude       []string          `yaml:"exclude"`
	MaxDepth      int               `yaml:"maxDepth"`
	Args          map[string]string `yaml:"args"`
}
