// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"strings"
)

// DefaultExecutableName is the CLI name used when os.Args carries no program path.
const DefaultExecutableName = "trust-bundle-merger"

// GetExecutableName returns the program name the process was started with,
// for use in cobra usage strings. See [ExecutableName].
func GetExecutableName() string {
	if len(os.Args) == 0 {
		return DefaultExecutableName
	}
	return ExecutableName(os.Args[0])
}

// ExecutableName reduces argv0 to its last path component without a trailing
// ".exe". Both '/' and '\' separate components regardless of the host OS, so a
// Windows path logged on Linux still yields the bare name.
func ExecutableName(argv0 string) string {
	name := argv0
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		name = name[:len(name)-4]
	}
	if name == "" || name == "." || name == ".." {
		return DefaultExecutableName
	}
	return name
}
