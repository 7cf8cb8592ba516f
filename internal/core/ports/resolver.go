package ports

// PathResolver resolves require specifiers the way Node does.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type PathResolver interface {
	// Resolve returns the absolute path specifier refers to when required from
	// fromFile. It returns false when the specifier cannot be resolved; that is
	// not an error, the caller decides what an unresolved specifier means.
	Resolve(fromFile, specifier string, extensions []string) (string, bool)
}
