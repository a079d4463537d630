package gateways

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/khronokernel/dcbuild/internal/domain/entities"
)

func TestSwiftCompiler_Compile(t *testing.T) {
	runner := newFakeRunner()
	compiler := NewSwiftCompiler(runner, ".build/debug/desktop-cleanup")

	err := compiler.Compile(context.Background(), "desktop-cleanup", "arm64-apple-macos11", ".build/desktop-cleanup-arm64-apple-macos11")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []string{
		"/usr/bin/swift build --product desktop-cleanup -Xswiftc -target -Xswiftc arm64-apple-macos11",
		"/bin/cp .build/debug/desktop-cleanup .build/desktop-cleanup-arm64-apple-macos11",
	}
	if got := runner.joined(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("commands =\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestSwiftCompiler_BuildFailureSkipsCopy(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("/usr/bin/swift", &entities.StageResult{ExitCode: 1})
	compiler := NewSwiftCompiler(runner, ".build/debug/desktop-cleanup")

	err := compiler.Compile(context.Background(), "desktop-cleanup", "arm64-apple-macos11", "out")

	if !errors.Is(err, entities.ErrToolInvocationFailed) {
		t.Fatalf("Compile() error = %v, want ErrToolInvocationFailed", err)
	}
	if len(runner.commands) != 1 {
		t.Errorf("copy should not run after a failed build, commands = %v", runner.joined())
	}
}

func TestSwiftCompiler_CustomToolchainOutput(t *testing.T) {
	runner := newFakeRunner()
	compiler := NewSwiftCompiler(runner, "out/debug/desktop-cleanup")

	if err := compiler.Compile(context.Background(), "desktop-cleanup", "x86_64-apple-macos10.13", "out/desktop-cleanup-x86_64-apple-macos10.13"); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := "/bin/cp out/debug/desktop-cleanup out/desktop-cleanup-x86_64-apple-macos10.13"
	if got := runner.joined(); len(got) != 2 || got[1] != want {
		t.Errorf("commands = %v, want copy %q", got, want)
	}
}

func TestLipoMerger_Merge(t *testing.T) {
	runner := newFakeRunner()
	merger := NewLipoMerger(runner)

	err := merger.Merge(context.Background(), []string{".build/a", ".build/b"}, ".build/desktop-cleanup")
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := "/usr/bin/lipo -create .build/a .build/b -output .build/desktop-cleanup"
	if got := runner.joined(); len(got) != 1 || got[0] != want {
		t.Errorf("commands = %v, want [%s]", got, want)
	}
}

func TestLipoMerger_NoInputs(t *testing.T) {
	merger := NewLipoMerger(newFakeRunner())

	if err := merger.Merge(context.Background(), nil, "out"); err == nil {
		t.Error("Merge() with no inputs should fail")
	}
}

func TestCodesignSigner_Sign(t *testing.T) {
	runner := newFakeRunner()
	signer := NewCodesignSigner(runner)

	if err := signer.Sign(context.Background(), ".build/desktop-cleanup", "Developer ID Application: Example"); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	cmd := runner.commands[0]
	if cmd[0] != "/usr/bin/codesign" || cmd[len(cmd)-1] != ".build/desktop-cleanup" {
		t.Errorf("unexpected command %v", cmd)
	}
	if !strings.Contains(strings.Join(cmd, " "), "--sign Developer ID Application: Example") {
		t.Errorf("identity not passed: %v", cmd)
	}
}

func TestCodesignSigner_Failure(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("/usr/bin/codesign", &entities.StageResult{
		ExitCode: 1,
		Stderr:   []byte("error: The specified item could not be found in the keychain.\n"),
	})
	signer := NewCodesignSigner(runner)

	err := signer.Sign(context.Background(), ".build/desktop-cleanup", "Missing Identity")

	if !errors.Is(err, entities.ErrSigningFailed) {
		t.Fatalf("Sign() error = %v, want ErrSigningFailed", err)
	}
	if errors.Is(err, entities.ErrToolInvocationFailed) {
		t.Error("signing failures are plain errors, not tool invocation failures")
	}
	if !strings.Contains(err.Error(), "could not be found in the keychain") {
		t.Errorf("Sign() error should carry the tool message, got %v", err)
	}
}

var testCreds = entities.NotarizationCredentials{
	AppleID:  "dev@example.com",
	Password: "app-specific-secret",
	TeamID:   "ABCDE12345",
}

func TestNotary_Package(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("/usr/bin/xcrun notarytool", &entities.StageResult{
		Stdout: []byte("Current status: In Progress....\nProcessing complete\n  id: 1234\n  status: Accepted\n"),
	})
	notary := NewNotary(runner, nil)

	if err := notary.Notarize(context.Background(), ".build/Desktop-cleanup-Installer.pkg", testCreds); err != nil {
		t.Fatalf("Notarize() error = %v", err)
	}

	got := runner.joined()
	if len(got) != 2 {
		t.Fatalf("commands = %v, want submit and staple", got)
	}
	if !strings.HasPrefix(got[0], "/usr/bin/xcrun notarytool submit .build/Desktop-cleanup-Installer.pkg --apple-id dev@example.com") {
		t.Errorf("submit command = %s", got[0])
	}
	if got[1] != "/usr/bin/xcrun stapler staple .build/Desktop-cleanup-Installer.pkg" {
		t.Errorf("staple command = %s", got[1])
	}
}

func TestNotary_Executable(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("/usr/bin/xcrun notarytool", &entities.StageResult{Stdout: []byte("  status: Accepted\n")})
	notary := NewNotary(runner, nil)

	if err := notary.Notarize(context.Background(), ".build/desktop-cleanup", testCreds); err != nil {
		t.Fatalf("Notarize() error = %v", err)
	}

	got := runner.joined()
	if len(got) != 2 {
		t.Fatalf("commands = %v, want archive and submit", got)
	}
	if got[0] != "/usr/bin/ditto -c -k --keepParent .build/desktop-cleanup .build/desktop-cleanup.zip" {
		t.Errorf("archive command = %s", got[0])
	}
	if !strings.Contains(got[1], "submit .build/desktop-cleanup.zip") {
		t.Errorf("submit command = %s", got[1])
	}
}

func TestNotary_Rejected(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("/usr/bin/xcrun notarytool", &entities.StageResult{Stdout: []byte("  status: Invalid\n")})
	notary := NewNotary(runner, nil)

	err := notary.Notarize(context.Background(), ".build/Desktop-cleanup-Installer.pkg", testCreds)

	if !errors.Is(err, entities.ErrNotarizationFailed) {
		t.Fatalf("Notarize() error = %v, want ErrNotarizationFailed", err)
	}
	if len(runner.commands) != 1 {
		t.Errorf("rejected submissions must not be stapled, commands = %v", runner.joined())
	}
}

func TestNotary_FailureHidesPassword(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("/usr/bin/xcrun notarytool", &entities.StageResult{
		ExitCode: 69,
		Stderr:   []byte("Error: HTTP status code: 401. Invalid credentials.\n"),
	})
	notary := NewNotary(runner, nil)

	err := notary.Notarize(context.Background(), ".build/Desktop-cleanup-Installer.pkg", testCreds)

	if !errors.Is(err, entities.ErrNotarizationFailed) {
		t.Fatalf("Notarize() error = %v, want ErrNotarizationFailed", err)
	}
	if strings.Contains(err.Error(), testCreds.Password) {
		t.Errorf("error leaks the password: %v", err)
	}
}

func TestNotary_AccountStaysOutOfInfoLogs(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("/usr/bin/xcrun notarytool", &entities.StageResult{Stdout: []byte("status: Accepted\n")})
	logger := &recordingLogger{}
	notary := NewNotary(runner, logger)

	if err := notary.Notarize(context.Background(), ".build/Desktop-cleanup-Installer.pkg", testCreds); err != nil {
		t.Fatalf("Notarize() error = %v", err)
	}

	if len(logger.entries) == 0 {
		t.Fatal("Notarize() logged nothing")
	}
	for _, e := range logger.entries {
		text := e.text()
		if strings.Contains(text, testCreds.Password) {
			t.Errorf("%s entry leaks the password: %s", e.level, text)
		}
		if e.level != "debug" && strings.Contains(text, testCreds.AppleID) {
			t.Errorf("%s entry = %q, want apple id only at debug", e.level, text)
		}
	}
}

func TestSubmissionStatus(t *testing.T) {
	tests := map[string]string{
		"":                                   "",
		"  status: Accepted\n":               "Accepted",
		"Current status: In Progress\n":      "",
		"status: In Progress\nstatus: Invalid": "Invalid",
	}
	for out, want := range tests {
		if got := submissionStatus([]byte(out)); got != want {
			t.Errorf("submissionStatus(%q) = %q, want %q", out, got, want)
		}
	}
}
