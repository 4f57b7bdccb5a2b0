package mail_fx

import (
	"go.uber.org/fx"

	"alxtravel/internal/config"
	"alxtravel/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config) (services.IMailService, error) {
	return services.NewSMTPMailService(services.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.DefaultFromEmail,
		FromName: cfg.AppName,
		UseSSL:   cfg.SMTP.UseSSL,
		AppName:  cfg.AppName,
	})
}
