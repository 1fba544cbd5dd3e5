package reconcile

import (
	"fmt"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// CompareInstalled checks the packages installed in a container against the project.
// Only packages present in the container are checked: a declared package must satisfy its
// constraint and a locked package must be installed at exactly its locked version.
func CompareInstalled(
	containerID string,
	installed map[string]string,
	declared []domain.Requirement,
	ops []domain.ResolvedOperation,
) []error {
	var errs []error
	for _, d := range mergeDeclared(declared) {
		got, ok := installed[d.CanonicalName()]
		if !ok {
			continue
		}
		v, err := domain.ParseVersion(got)
		if err == nil && d.Constraint.Contains(v) {
			continue
		}
		errs = append(errs, zerr.New(fmt.Sprintf(
			"Inconsistency found!  pyproject.toml specifies %s%s, but docker container %s has %s==%s",
			d.Name, constraintSuffix(d.Constraint), containerID, d.Name, got)))
	}
	for _, op := range ops {
		got, ok := installed[op.Package.CanonicalName()]
		if !ok || op.Package.IsDirect() {
			continue
		}
		want, err := domain.ParseVersion(op.Package.Version)
		if err != nil {
			continue
		}
		if v, err := domain.ParseVersion(got); err == nil && v.Equal(want) {
			continue
		}
		errs = append(errs, zerr.New(fmt.Sprintf(
			"Inconsistency found!  poetry.lock specifies %s==%s, but docker container %s has %s==%s",
			op.Package.Name, op.Package.Version, containerID, op.Package.Name, got)))
	}
	return errs
}

func constraintSuffix(c domain.Constraint) string {
	if c.IsAny() {
		return ""
	}
	return c.String()
}
