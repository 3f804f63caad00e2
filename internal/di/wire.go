//go:build wireinject

package di

import (
	"log/slog"
	"os"

	"github.com/google/wire"

	"solicitacao-compras/internal/adapter/discord"
	"solicitacao-compras/internal/adapter/logging"
	"solicitacao-compras/internal/adapter/mail"
	"solicitacao-compras/internal/app"
	"solicitacao-compras/internal/config"
	"solicitacao-compras/internal/domain/ports"
	"solicitacao-compras/internal/server"
	"solicitacao-compras/internal/usecase"
)

// InitializeApp wires the application components together.
func InitializeApp() (*app.App, error) {
	wire.Build(
		config.Load,
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideMailer,
		provideNotifier,
		usecase.NewSubmission,
		server.New,
		app.New,
	)
	return nil, nil
}

func provideSlogLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

func provideMailer(cfg *config.Config, logger ports.Logger) ports.Mailer {
	return mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		To:       cfg.EmailTo,
	}, cfg.RequestTimeout, logger)
}

// provideNotifier returns nil when no webhook URL is configured; the
// use case treats a nil notifier as "skip the secondary notification".
func provideNotifier(cfg *config.Config, logger ports.Logger) ports.Notifier {
	if cfg.DiscordWebhookURL == "" {
		return nil
	}
	return discord.NewWebhook(cfg.DiscordWebhookURL, cfg.RequestTimeout, logger)
}
