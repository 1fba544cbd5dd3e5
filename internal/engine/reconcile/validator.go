package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/blix/internal/core/domain"
	"go.trai.ch/zerr"
)

// RequiresReport partitions the differences between a wheel's Requires-Dist and the project.
type RequiresReport struct {
	// Conflicts describe packages present on both sides with incompatible constraints.
	Conflicts []string
	// DeclaredMissing are declared packages absent from the wheel.
	DeclaredMissing []string
	// LockMissing are resolved lock packages absent from the wheel.
	LockMissing []string
	// Extraneous are wheel packages neither declared nor resolved.
	Extraneous []string
}

// Errors returns one error per non-empty partition, in reporting order.
func (r RequiresReport) Errors() []error {
	var errs []error
	for _, c := range r.Conflicts {
		errs = append(errs, zerr.New(c))
	}
	if len(r.DeclaredMissing) > 0 {
		errs = append(errs, zerr.New("Packages in pyproject.toml are not present in the Wheel file: "+PyList(r.DeclaredMissing)))
	}
	if len(r.LockMissing) > 0 {
		errs = append(errs, zerr.New("Packages in poetry.lock are not present in the Wheel file: "+PyList(r.LockMissing)))
	}
	if len(r.Extraneous) > 0 {
		errs = append(errs, zerr.New("Packages in Wheel file are not present in pyproject.toml/poetry.lock: "+PyList(r.Extraneous)))
	}
	return errs
}

type wheelEntry struct {
	name       string
	constraint domain.Constraint
}

// CompareRequires checks a wheel's Requires-Dist values against the declared requirements
// and, unless mode is LockModeNone, the resolved lock operations.
//
// Declared requirements present in the wheel must be contained in the wheel's constraint;
// under LockModeOnly the wheel's pin must instead be contained in the declared constraint.
// Locked versions must be allowed by the wheel's constraint. Entries repeating a name are
// merged by union. An unparseable entry is returned as an error.
func CompareRequires(
	requiresDist []string,
	declared []domain.Requirement,
	ops []domain.ResolvedOperation,
	mode domain.LockMode,
) (RequiresReport, error) {
	wheel := make(map[string]*wheelEntry)
	for _, raw := range requiresDist {
		req, err := domain.ParseRequiresDist(raw)
		if err != nil {
			return RequiresReport{}, err
		}
		key := req.CanonicalName()
		if e, ok := wheel[key]; ok {
			e.constraint = e.constraint.Union(req.Constraint)
			continue
		}
		wheel[key] = &wheelEntry{name: req.Name, constraint: req.Constraint}
	}
	leftover := make(map[string]bool, len(wheel))
	for k := range wheel {
		leftover[k] = true
	}

	var report RequiresReport
	resolved := make(map[string]bool, len(ops))
	for _, op := range ops {
		resolved[op.Package.CanonicalName()] = true
	}

	for _, d := range mergeDeclared(declared) {
		key := d.CanonicalName()
		if mode == domain.LockModeOnly && !resolved[key] {
			continue
		}
		w, ok := wheel[key]
		if !ok {
			report.DeclaredMissing = append(report.DeclaredMissing, d.Name)
			continue
		}
		delete(leftover, key)
		contained := w.constraint.Allows(d.Constraint)
		if mode == domain.LockModeOnly {
			contained = d.Constraint.Allows(w.constraint)
		}
		if !contained {
			report.Conflicts = append(report.Conflicts, fmt.Sprintf(
				"Wheel file has different version constraints for Package(name=%s, version=%s) "+
					"compared to pyproject.toml Package(name=%s, version=%s)",
				d.Name, w.constraint, d.Name, d.Constraint))
		}
	}

	if mode != domain.LockModeNone {
		for _, op := range ops {
			key := op.Package.CanonicalName()
			w, ok := wheel[key]
			if !ok {
				report.LockMissing = append(report.LockMissing, op.Package.Name)
				continue
			}
			delete(leftover, key)
			if !lockAllowed(w.constraint, op.Package) {
				report.Conflicts = append(report.Conflicts, fmt.Sprintf(
					"Wheel file has different version constraints for Package(name=%s, version=%s) "+
						"compared to poetry.lock Package(name=%s, version=%s)",
					op.Package.Name, w.constraint, op.Package.Name, op.Package.Version))
			}
		}
	}

	for k := range leftover {
		report.Extraneous = append(report.Extraneous, wheel[k].name)
	}

	sortNames(report.DeclaredMissing)
	sortNames(report.LockMissing)
	sortNames(report.Extraneous)
	return report, nil
}

// lockAllowed reports whether the wheel constraint admits the locked package. Direct-origin
// packages have no comparable version and are accepted by presence.
func lockAllowed(c domain.Constraint, p domain.LockedPackage) bool {
	if p.IsDirect() {
		return true
	}
	v, err := domain.ParseVersion(p.Version)
	if err != nil {
		return false
	}
	return c.Contains(v)
}

// mergeDeclared folds requirements repeating a name into one with the union constraint,
// keeping first-seen order.
func mergeDeclared(declared []domain.Requirement) []domain.Requirement {
	var out []domain.Requirement
	index := make(map[string]int)
	for _, r := range declared {
		key := r.CanonicalName()
		if i, ok := index[key]; ok {
			out[i].Constraint = out[i].Constraint.Union(r.Constraint)
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}

// DataFilesReport lists the differences between a wheel's data files and the declared ones.
type DataFilesReport struct {
	WheelPath  string
	Missing    []string
	Extraneous []string
}

// Errors returns one error per missing file, then one for all extraneous files.
func (r DataFilesReport) Errors() []error {
	var errs []error
	for _, m := range r.Missing {
		errs = append(errs, zerr.New(fmt.Sprintf("Wheel at [%s] does not contain expected data_file [%s]", r.WheelPath, m)))
	}
	if len(r.Extraneous) > 0 {
		errs = append(errs, zerr.New(fmt.Sprintf(
			"Wheel at [%s] contains extraneous data_files not specified in pyproject.toml: %s",
			r.WheelPath, PyList(r.Extraneous))))
	}
	return errs
}

// CompareDataFiles diffs the wheel's data entries against the expected targets.
// Extraneous entries keep archive order.
func CompareDataFiles(wheelPath string, actual, expected []string) DataFilesReport {
	report := DataFilesReport{WheelPath: wheelPath}
	remaining := slices.Clone(actual)
	for _, want := range expected {
		i := slices.Index(remaining, want)
		if i < 0 {
			report.Missing = append(report.Missing, want)
			continue
		}
		remaining = slices.Delete(remaining, i, i+1)
	}
	report.Extraneous = remaining
	return report
}

// Failure joins mismatch errors under kind, or returns nil when there are none.
func Failure(kind error, errs ...error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{kind}, errs...)...)
}

// PyList formats names the way Python prints a list of strings: ['a', 'b'].
func PyList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, s := range items {
		if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
			quoted = append(quoted, `"`+s+`"`)
			continue
		}
		s = strings.ReplaceAll(s, `\`, `\\`)
		quoted = append(quoted, "'"+strings.ReplaceAll(s, "'", `\'`)+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func sortNames(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(domain.CanonicalName(a), domain.CanonicalName(b))
	})
}
