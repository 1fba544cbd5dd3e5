package ports

// SourceVerifier checks files referenced by the project.
//
//go:generate go run go.uber.org/mock/mockgen -source=files.go -destination=mocks/mock_files.go -package=mocks
type SourceVerifier interface {
	// VerifySources checks that each path exists and is a regular file.
	VerifySources(paths []string) error
}

// Hasher computes content digests.
type Hasher interface {
	// HashFile returns a hex digest of the file's content.
	HashFile(path string) (string, error)
}
