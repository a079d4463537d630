package gateways

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

const welcomeFile = "welcome.txt"

// installerScript is the productbuild Distribution document
type installerScript struct {
	XMLName        xml.Name        `xml:"installer-gui-script"`
	MinSpecVersion string          `xml:"minSpecVersion,attr"`
	Title          string          `xml:"title"`
	Welcome        *resourceRef    `xml:"welcome,omitempty"`
	Options        installerOpts   `xml:"options"`
	Domains        installerDomain `xml:"domains"`
	Outline        choicesOutline  `xml:"choices-outline"`
	Choices        []choice        `xml:"choice"`
	PkgRefs        []pkgRef        `xml:"pkg-ref"`
}

type resourceRef struct {
	File     string `xml:"file,attr"`
	MimeType string `xml:"mime-type,attr"`
}

type installerOpts struct {
	Customize         string `xml:"customize,attr"`
	RequireScripts    bool   `xml:"require-scripts,attr"`
	HostArchitectures string `xml:"hostArchitectures,attr"`
}

type installerDomain struct {
	EnableLocalSystem bool `xml:"enable_localSystem,attr"`
}

type choicesOutline struct {
	Lines []outlineLine `xml:"line"`
}

type outlineLine struct {
	Choice string        `xml:"choice,attr"`
	Lines  []outlineLine `xml:"line,omitempty"`
}

type choice struct {
	ID      string   `xml:"id,attr"`
	Visible *bool    `xml:"visible,attr,omitempty"`
	Title   string   `xml:"title,attr,omitempty"`
	PkgRefs []pkgRef `xml:"pkg-ref,omitempty"`
}

type pkgRef struct {
	ID           string `xml:"id,attr"`
	Version      string `xml:"version,attr,omitempty"`
	OnConclusion string `xml:"onConclusion,attr,omitempty"`
	Location     string `xml:",chardata"`
}

// buildDistribution describes a distribution wrapping a single component package
func buildDistribution(spec *entities.PackageSpec, componentName string) *installerScript {
	hidden := false
	doc := &installerScript{
		MinSpecVersion: "2",
		Title:          spec.Title,
		Options: installerOpts{
			Customize:         "never",
			RequireScripts:    false,
			HostArchitectures: "x86_64,arm64",
		},
		Domains: installerDomain{EnableLocalSystem: true},
		Outline: choicesOutline{Lines: []outlineLine{{
			Choice: "default",
			Lines:  []outlineLine{{Choice: spec.BundleID}},
		}}},
		Choices: []choice{
			{ID: "default"},
			{ID: spec.BundleID, Visible: &hidden, PkgRefs: []pkgRef{{ID: spec.BundleID}}},
		},
		PkgRefs: []pkgRef{{
			ID:           spec.BundleID,
			Version:      spec.Version,
			OnConclusion: "none",
			Location:     componentName,
		}},
	}
	if spec.Welcome != "" {
		doc.Welcome = &resourceRef{File: welcomeFile, MimeType: "text/plain"}
	}
	return doc
}

// writeDistribution writes the Distribution XML and the welcome resource
func writeDistribution(path, resourcesDir string, spec *entities.PackageSpec, componentName string) error {
	if err := os.MkdirAll(resourcesDir, 0750); err != nil {
		return fmt.Errorf("failed to create resources directory: %w", err)
	}

	if spec.Welcome != "" {
		if err := os.WriteFile(filepath.Join(resourcesDir, welcomeFile), []byte(spec.Welcome), 0600); err != nil {
			return fmt.Errorf("failed to write welcome text: %w", err)
		}
	}

	data, err := xml.MarshalIndent(buildDistribution(spec, componentName), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal distribution: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write distribution: %w", err)
	}
	return nil
}
