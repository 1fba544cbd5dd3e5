package pyenv

// HostMarkers exports hostMarkers for testing.
var HostMarkers = hostMarkers
