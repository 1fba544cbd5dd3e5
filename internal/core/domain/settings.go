package domain

// Solver kinds accepted in settings.
const (
	SolverLock   = "lock"
	SolverPoetry = "poetry"
)

// Settings are the tool settings read from .blix.yaml.
type Settings struct {
	// Python is the interpreter used to inspect the installed environment.
	Python string
	// Poetry is the poetry executable used to build and export.
	Poetry string
	// Solver selects the resolution backend: "lock" or "poetry".
	Solver string
	// Dist is the directory poetry writes wheels to, relative to the project root.
	Dist string
	// State is the build record file, relative to the project root.
	State     string
	Container ContainerSettings
}

// ContainerSettings configure container validation.
type ContainerSettings struct {
	// Engine is "auto", "docker" or "podman".
	Engine string
	// Python is the interpreter invoked inside the container.
	Python string
}

// DefaultSettings returns the settings used when .blix.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Python: "python3",
		Poetry: "poetry",
		Solver: SolverLock,
		Dist:   "dist",
		State:  ".blix/state.json",
		Container: ContainerSettings{
			Engine: "auto",
			Python: "python3",
		},
	}
}
