package entities

// Product represents a releasable product recipe from YAML
type Product struct {
	Name          string
	DisplayName   string
	BundleIDBase  string
	Targets       []string
	BuildDir      string
	ConstantsFile string
	VersionPrefix string
	Installer     PackageRecipe
	Uninstaller   PackageRecipe
}

// PackageRecipe describes one installer package of a product
type PackageRecipe struct {
	BundleID    string
	Title       string // format string, receives the version
	Payload     []PayloadEntry
	Removes     []string // installed paths listed in the uninstaller welcome text
	PreInstall  string
	PostInstall string
}

// PayloadEntry maps a file in the source tree to its installed destination
type PayloadEntry struct {
	Source      string
	Destination string
}

// PackageSpec is the fully resolved input to the package builder
type PackageSpec struct {
	OutputPath      string
	BundleID        string
	Version         string
	Title           string
	Welcome         string
	Payload         []PayloadEntry
	PreInstall      string
	PostInstall     string
	SigningIdentity Optional[string]
	Distribution    bool
}
