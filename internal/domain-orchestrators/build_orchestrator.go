// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces/gateways"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces/repositories"
	domainservices "github.com/khronokernel/dcbuild/internal/domain/interfaces/services"
	"github.com/khronokernel/dcbuild/internal/domain/services"
)

// Stage names that do not depend on the product targets
const (
	StageMerge            = "merge"
	StageSign             = "sign"
	StageNotarize         = "notarize"
	StagePackage          = "package"
	StageNotarizePackages = "notarize-packages"
	StageChecksums        = "checksums"
)

// CompileStage returns the name of the compile stage for target
func CompileStage(target string) string {
	return "compile-" + target
}

// Toolchain groups the external tools driven by a release run
type Toolchain struct {
	Compiler  gateways.Compiler
	Merger    gateways.Merger
	Inspector gateways.UniversalInspector
	Signer    gateways.Signer
	Notarizer gateways.Notarizer
	Packager  gateways.PackageBuilder
}

// BuildOrchestratorConfig holds configuration for the orchestrator
type BuildOrchestratorConfig struct {
	Logger interfaces.Logger
	Clock  func() time.Time
}

// BuildOrchestrator coordinates the complete release workflow
type BuildOrchestrator struct {
	tools     Toolchain
	versions  domainservices.VersionResolver
	artifacts domainservices.ReleaseArtifacts
	manifests repositories.ManifestWriter
	logger    interfaces.Logger
	now       func() time.Time
}

// NewBuildOrchestrator creates a new build orchestrator
func NewBuildOrchestrator(
	tools Toolchain,
	versions domainservices.VersionResolver,
	artifacts domainservices.ReleaseArtifacts,
	manifests repositories.ManifestWriter,
	config BuildOrchestratorConfig,
) *BuildOrchestrator {
	logger := config.Logger
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	now := config.Clock
	if now == nil {
		now = time.Now
	}

	return &BuildOrchestrator{
		tools:     tools,
		versions:  versions,
		artifacts: artifacts,
		manifests: manifests,
		logger:    logger,
		now:       now,
	}
}

// BuildResult contains the result of a release run
type BuildResult struct {
	Product        string
	Version        string
	Artifacts      []*entities.Artifact
	Universal      *entities.UniversalReport
	Executed       []string
	Skipped        []string
	StageDurations map[string]time.Duration
	TotalDuration  time.Duration
	ManifestPath   string
	Success        bool
	Error          error
}

// stage is one step of the pipeline. A nil enabled func means the stage
// always runs.
type stage struct {
	name       string
	skipReason string
	enabled    func(entities.Capabilities) bool
	run        func(ctx context.Context, run *runState) error
}

// runState is the mutable state threaded through the stages of one run
type runState struct {
	cfg         *entities.BuildConfig
	product     *entities.Product
	namer       *services.ArtifactNamer
	result      *BuildResult
	binaries    []*entities.Artifact
	universal   *entities.Artifact
	installer   *entities.Artifact
	uninstaller *entities.Artifact
}

// Run executes every enabled stage in order and stops at the first failure.
// Outputs of a failed run are left in place.
func (o *BuildOrchestrator) Run(ctx context.Context, cfg *entities.BuildConfig) (*BuildResult, error) {
	startTime := o.now()
	result := &BuildResult{StageDurations: make(map[string]time.Duration)}

	product := cfg.Product()
	if product == nil {
		result.Error = errors.New("build config has no product")
		return result, result.Error
	}
	if len(product.Targets) == 0 {
		result.Error = fmt.Errorf("product %s has no targets", product.Name)
		return result, result.Error
	}
	result.Product = product.Name

	state := &runState{
		cfg:     cfg,
		product: product,
		namer:   services.NewArtifactNamer(product.Name, product.BuildDir),
		result:  result,
	}

	caps := cfg.Capabilities()
	for _, s := range o.stages(product) {
		if err := ctx.Err(); err != nil {
			result.Error = fmt.Errorf("stage %s: %w", s.name, err)
			result.TotalDuration = o.now().Sub(startTime)
			return result, result.Error
		}

		if s.enabled != nil && !s.enabled(caps) {
			o.logger.Info("Skipping stage", interfaces.F("stage", s.name), interfaces.F("reason", s.skipReason))
			result.Skipped = append(result.Skipped, s.name)
			continue
		}

		o.logger.Info("Running stage", interfaces.F("stage", s.name))
		stageStart := o.now()
		err := s.run(ctx, state)
		result.StageDurations[s.name] = o.now().Sub(stageStart)
		if err != nil {
			// Tool failures have already printed their diagnostic report,
			// which must remain the last output of the run
			if errors.Is(err, entities.ErrToolInvocationFailed) {
				o.logger.Debug("Stage failed", interfaces.F("stage", s.name), interfaces.F("error", err))
			} else {
				o.logger.Error("Stage failed", interfaces.F("stage", s.name), interfaces.F("error", err))
			}
			result.Error = fmt.Errorf("stage %s: %w", s.name, err)
			result.TotalDuration = o.now().Sub(startTime)
			return result, result.Error
		}
		result.Executed = append(result.Executed, s.name)
	}

	result.Success = true
	result.TotalDuration = o.now().Sub(startTime)
	return result, nil
}

// stages returns the fixed stage list for product
func (o *BuildOrchestrator) stages(product *entities.Product) []stage {
	list := make([]stage, 0, len(product.Targets)+6)
	for _, target := range product.Targets {
		target := target // per-iteration copy; module targets go 1.21 loop semantics
		list = append(list, stage{
			name: CompileStage(target),
			run: func(ctx context.Context, st *runState) error {
				return o.compile(ctx, st, target)
			},
		})
	}

	return append(list,
		stage{name: StageMerge, run: o.merge},
		stage{
			name:       StageSign,
			skipReason: "no executable signing identity",
			enabled:    func(c entities.Capabilities) bool { return c.CanSignExecutable },
			run:        o.sign,
		},
		stage{
			name:       StageNotarize,
			skipReason: "notarization credentials incomplete",
			enabled:    func(c entities.Capabilities) bool { return c.CanNotarizeExecutable },
			run:        o.notarize,
		},
		stage{name: StagePackage, run: o.pkg},
		stage{
			name:       StageNotarizePackages,
			skipReason: "package signing identity or notarization credentials missing",
			enabled:    func(c entities.Capabilities) bool { return c.CanNotarizePackages },
			run:        o.notarizePackages,
		},
		stage{name: StageChecksums, run: o.checksums},
	)
}

func (o *BuildOrchestrator) compile(ctx context.Context, st *runState, target string) error {
	output := st.namer.Binary(target)
	if err := o.tools.Compiler.Compile(ctx, st.product.Name, target, output); err != nil {
		return err
	}

	artifact := &entities.Artifact{
		Name:   st.product.Name,
		Kind:   entities.ArtifactBinary,
		Target: target,
		Path:   output,
	}
	st.binaries = append(st.binaries, artifact)
	st.result.Artifacts = append(st.result.Artifacts, artifact)
	return nil
}

func (o *BuildOrchestrator) merge(ctx context.Context, st *runState) error {
	inputs := make([]string, 0, len(st.binaries))
	for _, b := range st.binaries {
		inputs = append(inputs, b.Path)
	}

	output := st.namer.Universal()
	if err := o.tools.Merger.Merge(ctx, inputs, output); err != nil {
		return err
	}

	st.universal = &entities.Artifact{
		Name: st.product.Name,
		Kind: entities.ArtifactUniversal,
		Path: output,
	}
	st.result.Artifacts = append(st.result.Artifacts, st.universal)

	return o.inspect(ctx, st)
}

// inspect records the slices of the merged binary
func (o *BuildOrchestrator) inspect(ctx context.Context, st *runState) error {
	if o.tools.Inspector == nil {
		return nil
	}

	report, err := o.tools.Inspector.Inspect(ctx, st.universal.Path, st.product.Targets)
	if err != nil {
		return fmt.Errorf("failed to inspect universal binary: %w", err)
	}
	st.result.Universal = report

	o.logger.Info("Universal binary",
		interfaces.F("path", report.Path),
		interfaces.F("archs", strings.Join(report.Archs(), ",")),
		interfaces.F("signed", report.FullySigned()),
	)
	return nil
}

func (o *BuildOrchestrator) sign(ctx context.Context, st *runState) error {
	identity := st.cfg.ExecutableSigningIdentity().OrZero()
	if err := o.tools.Signer.Sign(ctx, st.universal.Path, identity); err != nil {
		return err
	}
	return o.inspect(ctx, st)
}

func (o *BuildOrchestrator) notarize(ctx context.Context, st *runState) error {
	creds := st.cfg.Notarization().OrZero()
	return o.tools.Notarizer.Notarize(ctx, st.universal.Path, creds)
}

func (o *BuildOrchestrator) pkg(ctx context.Context, st *runState) error {
	version, err := o.versions.Resolve(st.product.ConstantsFile)
	if err != nil {
		return err
	}
	st.result.Version = version
	o.logger.Info("Resolved version", interfaces.F("version", version))

	installer := st.product.Installer
	destinations := make([]string, 0, len(installer.Payload))
	for _, entry := range installer.Payload {
		destinations = append(destinations, entry.Destination)
	}

	st.installer, err = o.buildPackage(ctx, st, installer, entities.ArtifactInstaller, st.namer.Installer(),
		services.InstallerWelcome(st.product.DisplayName, destinations))
	if err != nil {
		return err
	}

	uninstaller := st.product.Uninstaller
	st.uninstaller, err = o.buildPackage(ctx, st, uninstaller, entities.ArtifactUninstaller, st.namer.Uninstaller(),
		services.UninstallerWelcome(st.product.DisplayName, uninstaller.Removes))
	return err
}

func (o *BuildOrchestrator) buildPackage(
	ctx context.Context,
	st *runState,
	recipe entities.PackageRecipe,
	kind entities.ArtifactKind,
	output, welcome string,
) (*entities.Artifact, error) {
	version := st.result.Version
	spec := &entities.PackageSpec{
		OutputPath:      output,
		BundleID:        recipe.BundleID,
		Version:         version,
		Title:           fmt.Sprintf(recipe.Title, version),
		Welcome:         welcome,
		Payload:         recipe.Payload,
		PreInstall:      recipe.PreInstall,
		PostInstall:     recipe.PostInstall,
		SigningIdentity: st.cfg.PackageSigningIdentity(),
		Distribution:    true,
	}

	ok, err := o.tools.Packager.Build(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", output, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: builder reported failure for %s", entities.ErrPackageBuildFailed, output)
	}

	artifact := &entities.Artifact{
		Name: st.product.Name,
		Kind: kind,
		Path: output,
	}
	st.result.Artifacts = append(st.result.Artifacts, artifact)
	return artifact, nil
}

func (o *BuildOrchestrator) notarizePackages(ctx context.Context, st *runState) error {
	creds := st.cfg.Notarization().OrZero()
	for _, artifact := range []*entities.Artifact{st.installer, st.uninstaller} {
		if err := o.tools.Notarizer.Notarize(ctx, artifact.Path, creds); err != nil {
			return err
		}
	}
	return nil
}

// checksums writes the package checksums and the release manifest
func (o *BuildOrchestrator) checksums(ctx context.Context, st *runState) error {
	files, err := o.artifacts.GenerateChecksums(ctx, []*entities.Artifact{st.installer, st.uninstaller})
	if err != nil {
		return fmt.Errorf("failed to generate checksums: %w", err)
	}
	o.logger.Debug("Wrote checksums", interfaces.F("files", strings.Join(files, ",")))

	if o.manifests == nil {
		return nil
	}

	caps := st.cfg.Capabilities()
	manifest := &entities.ReleaseManifest{
		Product:      st.product.Name,
		Version:      st.result.Version,
		BuiltAt:      o.now().UTC(),
		Signed:       caps.CanSignExecutable,
		Notarized:    caps.CanNotarizeExecutable,
		PkgSigned:    caps.CanSignPackage,
		PkgNotarized: caps.CanNotarizePackages,
		Artifacts:    st.result.Artifacts,
		Stages:       append(slices.Clone(st.result.Executed), StageChecksums),
		Skipped:      slices.Clone(st.result.Skipped),
	}
	if st.result.Universal != nil {
		manifest.Archs = st.result.Universal.Archs()
	}

	path := st.namer.Manifest()
	if err := o.manifests.WriteManifest(ctx, path, manifest); err != nil {
		return fmt.Errorf("failed to write release manifest: %w", err)
	}
	st.result.ManifestPath = path
	return nil
}
