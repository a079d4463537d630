package entities

// UniversalReport describes the architecture slices found in a universal binary
type UniversalReport struct {
	Path   string
	Slices []ArchSlice
}

// ArchSlice is one architecture inside a universal binary
type ArchSlice struct {
	Arch       string // "arm64", "x86_64", ...
	CodeSigned bool   // has an LC_CODE_SIGNATURE load command
}

// Archs returns the architecture names in file order
func (r *UniversalReport) Archs() []string {
	archs := make([]string, 0, len(r.Slices))
	for _, s := range r.Slices {
		archs = append(archs, s.Arch)
	}
	return archs
}

// FullySigned reports whether every slice carries a code signature
func (r *UniversalReport) FullySigned() bool {
	if len(r.Slices) == 0 {
		return false
	}
	for _, s := range r.Slices {
		if !s.CodeSigned {
			return false
		}
	}
	return true
}
