package wheel

// Test hooks for the METADATA and RECORD helpers.
var (
	RenderRecord = func(paths, hashes []string, sizes []int64, self string) ([]byte, error) {
		entries := make([]recordEntry, len(paths))
		for i := range paths {
			entries[i] = recordEntry{path: paths[i], hash: hashes[i], size: sizes[i]}
		}
		return renderRecord(entries, self)
	}
	ReplaceMetadata = func(data string, providesExtra, requiresDist []string) string {
		return parseMetadata(data).replace(providesExtra, requiresDist).String()
	}
)
