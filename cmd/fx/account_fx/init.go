package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alxtravel/internal/config"
	"alxtravel/internal/repositories"
	"alxtravel/internal/services"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(accountRepo repositories.AccountRepository, cfg *config.Config, logger *zap.Logger) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, []byte(cfg.JWTSecret), cfg.JWTTTL, logger)
}
