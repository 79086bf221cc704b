package config

import "go.uber.org/fx"

// Module exports the config module for FX
var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// Supply provides an already loaded config to FX
func Supply(cfg *Config) fx.Option {
	return fx.Module("config", fx.Supply(cfg))
}
