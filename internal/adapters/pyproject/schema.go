package pyproject

// pyprojectFile mirrors the parts of pyproject.toml blix reads.
type pyprojectFile struct {
	Tool    toolSection     `toml:"tool"`
	Project *projectSection `toml:"project"`
}

type toolSection struct {
	Poetry *poetrySection `toml:"poetry"`
	Blix   *blixSection   `toml:"blix"`
}

type poetrySection struct {
	Name            string                  `toml:"name"`
	Version         string                  `toml:"version"`
	Dependencies    map[string]any          `toml:"dependencies"`
	DevDependencies map[string]any          `toml:"dev-dependencies"`
	Group           map[string]groupSection `toml:"group"`
	Extras          map[string][]string     `toml:"extras"`
}

type groupSection struct {
	Optional     bool           `toml:"optional"`
	Dependencies map[string]any `toml:"dependencies"`
}

// projectSection is the PEP 621 [project] table used by newer poetry releases.
type projectSection struct {
	Name                 string              `toml:"name"`
	Version              string              `toml:"version"`
	RequiresPython       string              `toml:"requires-python"`
	Dependencies         []string            `toml:"dependencies"`
	OptionalDependencies map[string][]string `toml:"optional-dependencies"`
}

type blixSection struct {
	Data *dataSection `toml:"data"`
}

type dataSection struct {
	DataFiles []dataFileDTO `toml:"data_files"`
}

type dataFileDTO struct {
	Destination string   `toml:"destination"`
	From        []string `toml:"from"`
}

// lockFile mirrors poetry.lock.
type lockFile struct {
	Package  []lockPackageDTO `toml:"package"`
	Metadata lockMetadataDTO  `toml:"metadata"`
}

type lockMetadataDTO struct {
	LockVersion    string `toml:"lock-version"`
	PythonVersions string `toml:"python-versions"`
	ContentHash    string `toml:"content-hash"`
}

type lockPackageDTO struct {
	Name           string              `toml:"name"`
	Version        string              `toml:"version"`
	Optional       bool                `toml:"optional"`
	Category       string              `toml:"category"`
	Groups         []string            `toml:"groups"`
	Markers        any                 `toml:"markers"`
	PythonVersions string              `toml:"python-versions"`
	Dependencies   map[string]any      `toml:"dependencies"`
	Extras         map[string][]string `toml:"extras"`
	Source         *sourceDTO          `toml:"source"`
}

type sourceDTO struct {
	Type              string `toml:"type"`
	URL               string `toml:"url"`
	Reference         string `toml:"reference"`
	ResolvedReference string `toml:"resolved_reference"`
	Subdirectory      string `toml:"subdirectory"`
}
