// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jbind converts structured documents between text formats and
// extracts values from them.
//
// Usage:
//
//	jbind convert [--from F] [--to F] [-o output] [input]
//	jbind get [--from F] [--to F] [--raw] [--recur] <path> [input]
//	jbind formats
//
// Any flag may also be set in a config file (by default .jbind.yaml in the
// current directory or $HOME) or by an environment variable named JBIND_ and
// the flag name in capitals, for example JBIND_PRETTY=1.
package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}
