// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "agora/internal/platform/net/http"
)

// Module is the contract every service module satisfies
// keep this sibling to avoid import knots when a module also exports its own ports type
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
