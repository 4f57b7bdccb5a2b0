package config_fx

import (
	"go.uber.org/fx"

	"alxtravel/internal/config"
)

var Module = fx.Provide(config.Load)
