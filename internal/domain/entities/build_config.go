package entities

// Optional holds a value that may be absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// OptionalString treats the empty string as absent, which is how unset
// command-line flags arrive.
func OptionalString(s string) Optional[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrZero returns the value, or the zero value when absent.
func (o Optional[T]) OrZero() T {
	return o.value
}

// NotarizationCredentials identifies an account with the notarization service
type NotarizationCredentials struct {
	AppleID  string
	Password string
	TeamID   string
}

// Capabilities are the stage gates derived once from a BuildConfig
type Capabilities struct {
	CanSignExecutable     bool
	CanNotarizeExecutable bool
	CanSignPackage        bool
	CanNotarizePackages   bool
}

// BuildConfig is the immutable input to a release run. Construct it with
// NewBuildConfig so that the capability flags stay consistent with the
// credentials.
type BuildConfig struct {
	product      *Product
	execIdentity Optional[string]
	pkgIdentity  Optional[string]
	notarization Optional[NotarizationCredentials]
	caps         Capabilities
}

// BuildConfigInput carries the raw, possibly absent, credentials
type BuildConfigInput struct {
	ExecutableSigningIdentity Optional[string]
	PackageSigningIdentity    Optional[string]
	NotarizationAppleID       Optional[string]
	NotarizationPassword      Optional[string]
	NotarizationTeamID        Optional[string]
}

// NewBuildConfig validates the input and derives the capability flags.
// Notarization credentials only count when all three parts are present.
func NewBuildConfig(product *Product, in BuildConfigInput) *BuildConfig {
	cfg := &BuildConfig{
		product:      product,
		execIdentity: in.ExecutableSigningIdentity,
		pkgIdentity:  in.PackageSigningIdentity,
	}

	appleID, hasID := in.NotarizationAppleID.Get()
	password, hasPassword := in.NotarizationPassword.Get()
	teamID, hasTeam := in.NotarizationTeamID.Get()
	if hasID && hasPassword && hasTeam {
		cfg.notarization = Some(NotarizationCredentials{
			AppleID:  appleID,
			Password: password,
			TeamID:   teamID,
		})
	}

	cfg.caps = Capabilities{
		CanSignExecutable:     cfg.execIdentity.IsSet(),
		CanNotarizeExecutable: cfg.notarization.IsSet(),
		CanSignPackage:        cfg.pkgIdentity.IsSet(),
		CanNotarizePackages:   cfg.pkgIdentity.IsSet() && cfg.notarization.IsSet(),
	}

	return cfg
}

// Product returns the product being released
func (c *BuildConfig) Product() *Product {
	return c.product
}

// Capabilities returns the derived stage gates
func (c *BuildConfig) Capabilities() Capabilities {
	return c.caps
}

// ExecutableSigningIdentity returns the identity used to sign the merged binary
func (c *BuildConfig) ExecutableSigningIdentity() Optional[string] {
	return c.execIdentity
}

// PackageSigningIdentity returns the identity passed to the package builder
func (c *BuildConfig) PackageSigningIdentity() Optional[string] {
	return c.pkgIdentity
}

// Notarization returns the complete credential triple, if one was supplied
func (c *BuildConfig) Notarization() Optional[NotarizationCredentials] {
	return c.notarization
}
