package report

import "go.uber.org/fx"

// Module exposes the report service via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
