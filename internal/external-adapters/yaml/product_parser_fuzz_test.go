package yaml

import (
	"testing"
)

// FuzzProductParser tests the YAML parser against random/malformed inputs
// to detect crashes, panics, or unexpected behavior.
//
// Run with: go test -fuzz=FuzzProductParser -fuzztime=30s
func FuzzProductParser(f *testing.F) {
	// Seed corpus with valid YAML examples
	f.Add([]byte(validProduct))
	f.Add(embeddedRecipe(f))

	// Seed with edge cases
	f.Add([]byte(``))                             // Empty input
	f.Add([]byte(`name: ""` + "\n"))              // Empty name
	f.Add([]byte(`{}`))                           // Empty JSON-style YAML
	f.Add([]byte(`[]`))                           // Array instead of object
	f.Add([]byte("name: test\n  bad"))            // Invalid indentation
	f.Add([]byte("targets: a"))                   // Scalar instead of list
	f.Add([]byte("installer:\n  title: '%s %s'")) // Two format verbs

	parser := NewProductParser()

	f.Fuzz(func(_ *testing.T, data []byte) {
		// The parser should handle any input without crashing
		_, _ = parser.Parse(data)
	})
}

func embeddedRecipe(tb testing.TB) []byte {
	tb.Helper()
	data, err := embeddedRecipes.ReadFile("recipes/desktop-cleanup.yml")
	if err != nil {
		tb.Fatalf("failed to read embedded recipe: %v", err)
	}
	return data
}
