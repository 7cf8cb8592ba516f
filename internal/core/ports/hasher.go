package ports

// Hasher defines the interface for computing content hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Hash returns the hex digest of data.
	Hash(data []byte) string
	// HashStrings returns the hex digest of parts, each terminated by a separator.
	HashStrings(parts ...string) string
}
