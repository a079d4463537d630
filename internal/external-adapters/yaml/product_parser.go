// Package yaml provides YAML-based product recipe parsing, the embedded
// recipe repository and the release manifest writer.
package yaml

import (
	"fmt"
	"strings"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/services"
	"gopkg.in/yaml.v3"
)

// yamlProduct represents the raw YAML structure
type yamlProduct struct {
	Name        string            `yaml:"name"`
	DisplayName string            `yaml:"display_name"`
	BundleID    string            `yaml:"bundle_id"`
	Targets     []string          `yaml:"targets"`
	BuildDir    string            `yaml:"build_dir"`
	Version     yamlVersion       `yaml:"version"`
	Installer   yamlPackageRecipe `yaml:"installer"`
	Uninstaller yamlPackageRecipe `yaml:"uninstaller"`
}

type yamlVersion struct {
	File   string `yaml:"file"`
	Prefix string `yaml:"prefix"`
}

type yamlPackageRecipe struct {
	BundleID    string        `yaml:"bundle_id"`
	Title       string        `yaml:"title"`
	Payload     []yamlPayload `yaml:"payload"`
	Removes     []string      `yaml:"removes"`
	PreInstall  string        `yaml:"preinstall"`
	PostInstall string        `yaml:"postinstall"`
}

type yamlPayload struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// ProductParser parses YAML product recipes
type ProductParser struct{}

// NewProductParser creates a new YAML parser
func NewProductParser() *ProductParser {
	return &ProductParser{}
}

// Parse parses YAML bytes into a Product entity
func (p *ProductParser) Parse(data []byte) (*entities.Product, error) {
	var raw yamlProduct
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate required fields
	if raw.Name == "" {
		return nil, fmt.Errorf("product must have a name")
	}
	if len(raw.Targets) < 2 {
		return nil, fmt.Errorf("product %s must have at least two targets, got %d", raw.Name, len(raw.Targets))
	}
	for _, target := range raw.Targets {
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("product %s has an empty target", raw.Name)
		}
	}
	if raw.Version.File == "" {
		return nil, fmt.Errorf("product %s must name a version file", raw.Name)
	}

	product := &entities.Product{
		Name:          raw.Name,
		DisplayName:   raw.DisplayName,
		BundleIDBase:  raw.BundleID,
		Targets:       raw.Targets,
		BuildDir:      raw.BuildDir,
		ConstantsFile: raw.Version.File,
		VersionPrefix: raw.Version.Prefix,
	}

	// Apply defaults
	if product.DisplayName == "" {
		product.DisplayName = raw.Name
	}
	if product.BundleIDBase == "" {
		product.BundleIDBase = raw.Name
	}
	if product.BuildDir == "" {
		product.BuildDir = services.DefaultBuildDir
	}
	if product.VersionPrefix == "" {
		product.VersionPrefix = services.DefaultVersionPrefix
	}

	var err error
	if product.Installer, err = convertPackage(raw.Installer, product, "installer", "%s v%%s"); err != nil {
		return nil, err
	}
	if product.Uninstaller, err = convertPackage(raw.Uninstaller, product, "uninstaller", "%s Uninstaller v%%s"); err != nil {
		return nil, err
	}

	return product, nil
}

func convertPackage(yp yamlPackageRecipe, product *entities.Product, suffix, titleFormat string) (entities.PackageRecipe, error) {
	recipe := entities.PackageRecipe{
		BundleID:    yp.BundleID,
		Title:       yp.Title,
		Removes:     yp.Removes,
		PreInstall:  yp.PreInstall,
		PostInstall: yp.PostInstall,
	}
	if recipe.BundleID == "" {
		recipe.BundleID = product.BundleIDBase + "." + suffix
	}
	if recipe.Title == "" {
		recipe.Title = fmt.Sprintf(titleFormat, product.DisplayName)
	}
	if strings.Count(recipe.Title, "%s") != 1 {
		return recipe, fmt.Errorf("%s title %q must contain exactly one %%s for the version", suffix, recipe.Title)
	}

	for _, entry := range yp.Payload {
		if entry.Source == "" || entry.Destination == "" {
			return recipe, fmt.Errorf("%s payload entry needs a source and a destination", suffix)
		}
		recipe.Payload = append(recipe.Payload, entities.PayloadEntry{
			Source:      entry.Source,
			Destination: entry.Destination,
		})
	}

	return recipe, nil
}
