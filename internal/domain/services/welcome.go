package services

import (
	"fmt"
	"strings"
)

// InstallerWelcome generates the README shown by the installer package
func InstallerWelcome(displayName string, files []string) string {
	return welcomeMessage(
		fmt.Sprintf("This package will install %s on your system.", displayName),
		"# Files Installed",
		"Installation of this package will add the following files to your system:",
		files,
	)
}

// UninstallerWelcome generates the README shown by the uninstaller package
func UninstallerWelcome(displayName string, files []string) string {
	return welcomeMessage(
		fmt.Sprintf("This package will uninstall %s from your system.", displayName),
		"# Files Removed",
		"Uninstallation of this package will remove the following files from your system:",
		files,
	)
}

func welcomeMessage(overview, heading, intro string, files []string) string {
	lines := []string{
		"# Overview",
		overview,
		heading,
		intro + "\n",
	}
	for i, f := range files {
		item := fmt.Sprintf("* `%s`", f)
		if i < len(files)-1 {
			item += "\n"
		}
		lines = append(lines, item)
	}
	return strings.Join(lines, "\n")
}
