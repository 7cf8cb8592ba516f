package domain

import "path/filepath"

const (
	// StateDirName is the name of the per-project state directory.
	StateDirName = ".snaplink"

	// CacheFileName is the name of the transform cache database.
	CacheFileName = "cache.db"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "snaplink.yaml"

	// DefaultOutputName is the file name of the generated snapshot script.
	DefaultOutputName = "snapshot.js"

	// DefaultOutputWithSourceMapsName is the file name of the source-mapped variant.
	DefaultOutputWithSourceMapsName = "snapshot.map.js"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStatePath returns the default root directory for snaplink metadata.
func DefaultStatePath() string {
	return StateDirName
}

// DefaultCachePath returns the default path of the transform cache database.
// It joins .snaplink and cache.db.
func DefaultCachePath() string {
	return filepath.Join(StateDirName, CacheFileName)
}
