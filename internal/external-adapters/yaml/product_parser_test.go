package yaml

import (
	"strings"
	"testing"
)

const validProduct = `name: example-tool
display_name: Example-Tool
bundle_id: com.example.tool
targets:
  - arm64-apple-macos11
  - x86_64-apple-macos10.15
version:
  file: Sources/Constants.swift
installer:
  payload:
    - source: .build/example-tool
      destination: /usr/local/bin/example-tool
  preinstall: scripts/remove.sh
  postinstall: scripts/install.sh
uninstaller:
  removes:
    - /usr/local/bin/example-tool
  preinstall: scripts/remove.sh
`

func TestProductParser_Parse_Valid(t *testing.T) {
	parser := NewProductParser()

	product, err := parser.Parse([]byte(validProduct))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if product.Name != "example-tool" {
		t.Errorf("Name = %v, want example-tool", product.Name)
	}
	if len(product.Targets) != 2 || product.Targets[1] != "x86_64-apple-macos10.15" {
		t.Errorf("Targets = %v", product.Targets)
	}
	if product.ConstantsFile != "Sources/Constants.swift" {
		t.Errorf("ConstantsFile = %v", product.ConstantsFile)
	}
	if len(product.Installer.Payload) != 1 || product.Installer.Payload[0].Destination != "/usr/local/bin/example-tool" {
		t.Errorf("Installer.Payload = %+v", product.Installer.Payload)
	}
	if product.Installer.PostInstall != "scripts/install.sh" {
		t.Errorf("Installer.PostInstall = %v", product.Installer.PostInstall)
	}
	if len(product.Uninstaller.Payload) != 0 {
		t.Errorf("Uninstaller.Payload = %+v, want none", product.Uninstaller.Payload)
	}
}

func TestProductParser_Parse_Defaults(t *testing.T) {
	product, err := NewProductParser().Parse([]byte(validProduct))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"build dir", product.BuildDir, ".build"},
		{"version prefix", product.VersionPrefix, `let projectVersion    = "`},
		{"installer bundle id", product.Installer.BundleID, "com.example.tool.installer"},
		{"uninstaller bundle id", product.Uninstaller.BundleID, "com.example.tool.uninstaller"},
		{"installer title", product.Installer.Title, "Example-Tool v%s"},
		{"uninstaller title", product.Uninstaller.Title, "Example-Tool Uninstaller v%s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestProductParser_Parse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "targets: [a, b]\nversion:\n  file: c.swift\n",
			wantErr: "must have a name",
		},
		{
			name:    "single target",
			yaml:    "name: x\ntargets: [arm64-apple-macos11]\nversion:\n  file: c.swift\n",
			wantErr: "at least two targets",
		},
		{
			name:    "empty target",
			yaml:    "name: x\ntargets: [a, ' ']\nversion:\n  file: c.swift\n",
			wantErr: "empty target",
		},
		{
			name:    "missing version file",
			yaml:    "name: x\ntargets: [a, b]\n",
			wantErr: "version file",
		},
		{
			name:    "title without version verb",
			yaml:    "name: x\ntargets: [a, b]\nversion:\n  file: c.swift\ninstaller:\n  title: Static Title\n",
			wantErr: "exactly one %s",
		},
		{
			name:    "payload without destination",
			yaml:    "name: x\ntargets: [a, b]\nversion:\n  file: c.swift\ninstaller:\n  payload:\n    - source: bin\n",
			wantErr: "source and a destination",
		},
		{
			name:    "malformed yaml",
			yaml:    "name: [unclosed",
			wantErr: "failed to parse YAML",
		},
	}

	parser := NewProductParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() should return error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
