// Package main provides the dcbuild CLI for building desktop-cleanup releases.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// productName is the embedded recipe built by default
const productName = "desktop-cleanup"

const (
	flagExecutableIdentity = "executable-signing-identity"
	flagPkgIdentity        = "pkg-signing-identity"
	flagAppleID            = "notarization-apple-id"
	flagPassword           = "notarization-password"
	flagTeamID             = "notarization-team-id"
)

func main() {
	app := newApp(os.Stdout, os.Stderr, runRelease, os.Exit)

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		os.Exit(1)
	}
}

// newApp builds the CLI. build runs the release pipeline and exit ends the
// process on failure.
func newApp(stdout, stderr io.Writer, build releaseFunc, exit func(int)) *cli.App {
	return &cli.App{
		Name:      "dcbuild",
		Usage:     "Build, sign, notarize and package the desktop-cleanup release",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagExecutableIdentity,
				Usage: "Signing identity for the universal executable",
			},
			&cli.StringFlag{
				Name:  flagPkgIdentity,
				Usage: "Signing identity for the installer packages",
			},
			&cli.StringFlag{
				Name:  flagAppleID,
				Usage: "Apple ID used for notarization",
			},
			&cli.StringFlag{
				Name:  flagPassword,
				Usage: "App-specific password used for notarization",
			},
			&cli.StringFlag{
				Name:  flagTeamID,
				Usage: "Developer team ID used for notarization",
			},
		},
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			return buildAction(c, build)
		},
		ExitErrHandler: exitErrHandler(stderr, exit),
	}
}

// exitErrHandler handles errors from the CLI, preserving exit codes from cli.Exit().
func exitErrHandler(stderr io.Writer, exit func(int)) cli.ExitErrHandlerFunc {
	return func(_ *cli.Context, err error) {
		if err == nil {
			return
		}

		var exitCoder cli.ExitCoder
		if errors.As(err, &exitCoder) {
			code := exitCoder.ExitCode()
			msg := exitCoder.Error()

			// cli.Exit("", N).Error() returns "exit status N", so skip those
			if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
				//nolint:errcheck // Best-effort write before exiting
				fmt.Fprintln(stderr, msg)
			}
			exit(code)
			return
		}

		// Flag parsing and other unexpected errors
		//nolint:errcheck // Best-effort write before exiting
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exit(1)
	}
}
