package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/khronokernel/dcbuild/internal/domain-adapters/gateways"
	orchestrators "github.com/khronokernel/dcbuild/internal/domain-orchestrators"
	"github.com/khronokernel/dcbuild/internal/domain/entities"
	"github.com/khronokernel/dcbuild/internal/domain/interfaces"
	"github.com/khronokernel/dcbuild/internal/domain/services"
	"github.com/khronokernel/dcbuild/internal/external-adapters/yaml"
	zapadapter "github.com/khronokernel/dcbuild/internal/external-adapters/zap"
)

// releaseFunc runs one release for the given credentials
type releaseFunc func(ctx context.Context, in entities.BuildConfigInput) (*orchestrators.BuildResult, error)

func buildAction(c *cli.Context, build releaseFunc) error {
	start := time.Now()

	result, err := build(c.Context, configInput(c))
	if err != nil {
		// Tool failures already printed their diagnostic report
		if errors.Is(err, entities.ErrToolInvocationFailed) {
			return cli.Exit("", 1)
		}
		return cli.Exit("Error: "+err.Error(), 1)
	}

	fmt.Fprintf(c.App.Writer, "Build completed in %.2f seconds\n", time.Since(start).Seconds())
	fmt.Fprintln(c.App.Writer, renderSummary(result))
	return nil
}

// configInput maps the flags onto optional credentials. Empty flags are absent.
func configInput(c *cli.Context) entities.BuildConfigInput {
	return entities.BuildConfigInput{
		ExecutableSigningIdentity: entities.OptionalString(c.String(flagExecutableIdentity)),
		PackageSigningIdentity:    entities.OptionalString(c.String(flagPkgIdentity)),
		NotarizationAppleID:       entities.OptionalString(c.String(flagAppleID)),
		NotarizationPassword:      entities.OptionalString(c.String(flagPassword)),
		NotarizationTeamID:        entities.OptionalString(c.String(flagTeamID)),
	}
}

// runRelease wires the production adapters and runs the pipeline from the
// current directory
func runRelease(ctx context.Context, in entities.BuildConfigInput) (*orchestrators.BuildResult, error) {
	logger := zapadapter.NewLogger()
	//nolint:errcheck // Sync fails on non-file stderr and is best effort
	defer logger.Sync()

	product, err := yaml.NewEmbeddedProductRepository().GetProduct(ctx, productName)
	if err != nil {
		return nil, fmt.Errorf("failed to load product recipe: %w", err)
	}
	cfg := entities.NewBuildConfig(product, in)

	caps := cfg.Capabilities()
	logger.Info("Starting release",
		interfaces.F("product", product.Name),
		interfaces.F("sign", caps.CanSignExecutable),
		interfaces.F("notarize", caps.CanNotarizeExecutable),
		interfaces.F("sign_packages", caps.CanSignPackage),
		interfaces.F("notarize_packages", caps.CanNotarizePackages),
	)

	namer := services.NewArtifactNamer(product.Name, product.BuildDir)
	invoker := gateways.NewToolInvoker(gateways.ToolInvokerConfig{Logger: logger})
	orchestrator := orchestrators.NewBuildOrchestrator(
		orchestrators.Toolchain{
			Compiler:  gateways.NewSwiftCompiler(invoker, namer.ToolchainOutput()),
			Merger:    gateways.NewLipoMerger(invoker),
			Inspector: gateways.NewUniversalInspector(),
			Signer:    gateways.NewCodesignSigner(invoker),
			Notarizer: gateways.NewNotary(invoker, logger),
			Packager:  gateways.NewPackageBuilder(invoker, logger),
		},
		services.NewVersionResolver(product.VersionPrefix),
		services.NewReleaseArtifactsService(logger),
		yaml.NewManifestWriter(),
		orchestrators.BuildOrchestratorConfig{Logger: logger},
	)

	return orchestrator.Run(ctx, cfg)
}
