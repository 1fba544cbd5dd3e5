package config

// Blixfile represents the structure of the .blix.yaml settings file.
// Pointer fields distinguish an absent key from an empty value.
type Blixfile struct {
	Python    *string       `yaml:"python"`
	Poetry    *string       `yaml:"poetry"`
	Solver    *string       `yaml:"solver"`
	Dist      *string       `yaml:"dist"`
	State     *string       `yaml:"state"`
	Container *ContainerDTO `yaml:"container"`
}

// ContainerDTO represents the container section of the settings file.
type ContainerDTO struct {
	Engine *string `yaml:"engine"`
	Python *string `yaml:"python"`
}
