//go:build tools

package main

//go:generate go install gotest.tools/gotestsum

import (
	_ "gotest.tools/gotestsum"
)
