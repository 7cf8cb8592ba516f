package config

// Snapfile represents the structure of the snaplink.yaml configuration file.
type Snapfile struct {
	BaseDir              string         `yaml:"baseDir"`
	Main                 string         `yaml:"main"`
	EntryPoints          []string       `yaml:"entryPoints"`
	Extensions           []string       `yaml:"extensions"`
	Exclude              []string       `yaml:"exclude"`
	Auxiliary            map[string]any `yaml:"auxiliary"`
	SourceMaps           bool           `yaml:"sourceMaps"`
	Output               string         `yaml:"output"`
	OutputWithSourceMaps string         `yaml:"outputWithSourceMaps"`
	Cache                string         `yaml:"cache"`
	Platform             string         `yaml:"platform"`
	PathSeparator        string         `yaml:"pathSeparator"`
	Transpile            TranspileDTO   `yaml:"transpile"`
	Watch                WatchDTO       `yaml:"watch"`
}

// TranspileDTO represents the transpile section of the configuration.
type TranspileDTO struct {
	Command  []string `yaml:"command"`
	Patterns []string `yaml:"patterns"`
}

// WatchDTO represents the watch section of the configuration.
type WatchDTO struct {
	Paths     []string `yaml:"paths"`
	Globs     []string `yaml:"globs"`
	Debounce  string   `yaml:"debounce"`
	Gitignore *bool    `yaml:"gitignore"`
}
