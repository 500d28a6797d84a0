package platform

import "go.uber.org/fx"

// Module exposes the platform service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
