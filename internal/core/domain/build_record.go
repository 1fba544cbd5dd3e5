package domain

import "time"

// BuildRecord remembers how a wheel was produced.
type BuildRecord struct {
	// Wheel is the wheel file name.
	Wheel string `json:"wheel"`
	// Digest is the content hash of the finished wheel.
	Digest  string    `json:"digest"`
	Mode    string    `json:"mode"`
	Groups  []string  `json:"groups,omitempty"`
	BuiltAt time.Time `json:"built_at"`
}
