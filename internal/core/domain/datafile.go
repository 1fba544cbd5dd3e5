package domain

// DataFileMapping is one data_files entry: sources copied into a destination directory.
type DataFileMapping struct {
	Destination string
	Sources     []string
}

// DataFilePlacement is a planned copy of one source file into the wheel.
type DataFilePlacement struct {
	// Source is the path as declared, relative to the project root.
	Source string
	// AbsSource is Source resolved against the project root.
	AbsSource string
	// Target is the archive path, "<dist>-<version>.data/data/<destination><basename>".
	Target string
}
