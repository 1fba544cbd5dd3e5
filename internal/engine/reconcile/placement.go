package reconcile

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// PlanDataFiles maps every data_files source to its archive path under dataDir.
//
// Destinations must be relative and stay inside the data directory. Sources are resolved
// against root but not touched; callers that copy files verify them separately.
func PlanDataFiles(root, dataDir string, mappings []domain.DataFileMapping) ([]domain.DataFilePlacement, error) {
	var out []domain.DataFilePlacement
	for _, m := range mappings {
		dest, err := normalizeDestination(m.Destination)
		if err != nil {
			return nil, err
		}
		for _, src := range m.Sources {
			abs := filepath.Join(root, filepath.FromSlash(src))
			out = append(out, domain.DataFilePlacement{
				Source:    src,
				AbsSource: abs,
				Target:    dataDir + "/data/" + dest + filepath.Base(abs),
			})
		}
	}
	return out, nil
}

// normalizeDestination returns the destination with exactly one trailing "/",
// or "" for the data directory itself.
func normalizeDestination(dest string) (string, error) {
	slashed := filepath.ToSlash(dest)
	if filepath.IsAbs(dest) || strings.HasPrefix(slashed, "/") {
		msg := fmt.Sprintf("Destination path in data_files [%s] is absolute.  Please change it to a relative path", dest)
		return "", zerr.With(zerr.Wrap(domain.ErrAbsoluteDataFileDestination, msg), "destination", dest)
	}
	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		msg := fmt.Sprintf("Destination path in data_files [%s] leaves the wheel data directory", dest)
		return "", zerr.With(zerr.Wrap(domain.ErrDataFileDestinationEscapes, msg), "destination", dest)
	}
	if clean == "." {
		return "", nil
	}
	return clean + "/", nil
}

// Targets returns the archive paths of the placements, in order.
func Targets(placements []domain.DataFilePlacement) []string {
	out := make([]string, 0, len(placements))
	for _, p := range placements {
		out = append(out, p.Target)
	}
	return out
}

// Sources returns the absolute source paths of the placements, in order.
func Sources(placements []domain.DataFilePlacement) []string {
	out := make([]string, 0, len(placements))
	for _, p := range placements {
		out = append(out, p.AbsSource)
	}
	return out
}
