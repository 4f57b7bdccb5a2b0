package controllers_fx

import (
	"go.uber.org/fx"

	"alxtravel/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewAccountController))
