package entities

import "time"

// ReleaseManifest summarizes a finished release run
type ReleaseManifest struct {
	Product      string
	Version      string
	BuiltAt      time.Time
	Signed       bool
	Notarized    bool
	PkgSigned    bool
	PkgNotarized bool
	Archs        []string
	Artifacts    []*Artifact
	Stages       []string
	Skipped      []string
}
