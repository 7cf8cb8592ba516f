package domain

import "time"

// Config is the resolved project configuration. All paths are absolute.
type Config struct {
	// Root is the directory containing the config file.
	Root                 string
	BaseDir              string
	MainPath             string
	EntryPoints          []string
	Extensions           []string
	Exclude              []string
	Auxiliary            map[string]any
	SourceMaps           bool
	Output               string
	OutputWithSourceMaps string
	CachePath            string
	Platform             string
	PathSeparator        string
	Transpile            TranspileConfig
	Watch                WatchConfig
}

// TranspileConfig configures the external preprocessing command.
type TranspileConfig struct {
	// Command is the argv; the literal argument "{file}" is replaced with the module path.
	Command  []string
	Patterns []string
}

// Enabled reports whether a transpile command is configured.
func (t TranspileConfig) Enabled() bool {
	return len(t.Command) > 0
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Paths     []string
	Globs     []string
	Debounce  time.Duration
	Gitignore bool
}
