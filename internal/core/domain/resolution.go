package domain

import "go.trai.ch/zerr"

// LockMode selects how lock-file pins are merged into the wheel requirements.
type LockMode int

const (
	// LockModeMerge keeps declared requirements and appends pins for every other locked package.
	LockModeMerge LockMode = iota
	// LockModeNone uses declared requirements only (--no-lock).
	LockModeNone
	// LockModeOnly replaces declared requirements with exact pins (--only-lock).
	LockModeOnly
)

// LockModeFromFlags maps the --no-lock and --only-lock flags to a LockMode.
func LockModeFromFlags(noLock, onlyLock bool) (LockMode, error) {
	switch {
	case noLock && onlyLock:
		return LockModeMerge, ErrIncompatibleLockOptions
	case noLock:
		return LockModeNone, nil
	case onlyLock:
		return LockModeOnly, nil
	default:
		return LockModeMerge, nil
	}
}

// ParseLockMode is the inverse of LockMode.String.
func ParseLockMode(s string) (LockMode, error) {
	switch s {
	case "lock":
		return LockModeMerge, nil
	case "no-lock":
		return LockModeNone, nil
	case "only-lock":
		return LockModeOnly, nil
	default:
		return LockModeMerge, zerr.With(zerr.New("unknown lock mode"), "mode", s)
	}
}

func (m LockMode) String() string {
	switch m {
	case LockModeNone:
		return "no-lock"
	case LockModeOnly:
		return "only-lock"
	default:
		return "lock"
	}
}

// InstalledEnvironment describes the Python environment resolution is evaluated against.
type InstalledEnvironment struct {
	// Markers maps PEP 508 marker variables to their values.
	Markers map[string]string
	// Packages maps canonical distribution names to installed versions.
	Packages map[string]string
}

// MarkerEnvironment returns the environment for marker evaluation, without extras.
func (e *InstalledEnvironment) MarkerEnvironment() MarkerEnvironment {
	if e == nil {
		return MarkerEnvironment{}
	}
	return MarkerEnvironment{Values: e.Markers}
}

// InstalledVersion returns the installed version of the named distribution.
func (e *InstalledEnvironment) InstalledVersion(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.Packages[CanonicalName(name)]
	return v, ok
}

// Universe is the set of locked packages a solver may pick from.
type Universe struct {
	// Packages are index-hosted packages reachable from the active groups.
	Packages []LockedPackage
	// Deferred are reachable direct-origin packages (VCS, URL, path); they are pinned
	// as locked and never re-resolved.
	Deferred []LockedPackage
}

// All returns the packages followed by the deferred ones.
func (u Universe) All() []LockedPackage {
	out := make([]LockedPackage, 0, len(u.Packages)+len(u.Deferred))
	out = append(out, u.Packages...)
	return append(out, u.Deferred...)
}

// SolveRequest is the input of a dependency solver run.
type SolveRequest struct {
	ProjectDir   string
	ProjectName  string
	Requirements []Requirement
	Groups       GroupSet
	Universe     Universe
	Environment  *InstalledEnvironment
	// Settings select the solver backend and the executables it may run.
	Settings Settings
}

// ResolvedOperation selects one locked package at its exact version.
type ResolvedOperation struct {
	Package LockedPackage
	// InExtras lists the project extras through which the package was reached.
	// It is empty when the package is required unconditionally.
	InExtras []string
}

// Requirement returns the exact pin for the operation's package.
func (o ResolvedOperation) Requirement() Requirement {
	return PinnedRequirement(o.Package, o.InExtras)
}
