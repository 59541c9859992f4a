//go:build tools

// Package jampchat tracks tool dependencies (mockgen) so go.mod stays in sync with go generate.
package jampchat

import (
	_ "go.uber.org/mock/mockgen"
)
