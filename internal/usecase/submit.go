package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"solicitacao-compras/internal/domain/model"
	"solicitacao-compras/internal/domain/ports"
	"solicitacao-compras/internal/metrics"
)

// Urgency indicator colors for the webhook embed.
const (
	colorHigh    = 0xE74C3C
	colorMedium  = 0xF1C40F
	colorLow     = 0x2ECC71
	colorNeutral = 0x95A5A6
)

const (
	defaultFromName = "Sistema de Compras"
	noItemsSummary  = "Nenhum item informado"
)

// Submission orchestrates one request through its two sinks: the mail
// dispatch decides the outcome, the webhook notification is
// best-effort and never fails the request.
type Submission struct {
	mailer   ports.Mailer
	notifier ports.Notifier
	logger   ports.Logger
}

// NewSubmission constructs the Submission use case. A nil notifier
// means the webhook channel is not configured and is skipped.
func NewSubmission(mailer ports.Mailer, notifier ports.Notifier, logger ports.Logger) *Submission {
	return &Submission{
		mailer:   mailer,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit renders and dispatches the request. The returned error, when
// non-nil, carries the message to surface to the submitting client.
func (s *Submission) Submit(ctx context.Context, req model.PurchaseRequest) error {
	start := time.Now()

	email, err := buildEmail(req)
	if err != nil {
		s.logger.Error(ctx, "failed to render request email", "error", err)
		return err
	}

	if err := s.mailer.Send(ctx, email); err != nil {
		s.logger.Error(ctx, "failed to dispatch mail", "error", err)
		return err
	}

	s.notify(ctx, req)

	s.logger.Info(ctx, "submission processed",
		"sector", req.Sector,
		"items", len(req.Items),
		"duration", time.Since(start),
	)
	return nil
}

// notify sends the secondary webhook notification. Failures are logged
// and counted, never propagated.
func (s *Submission) notify(ctx context.Context, req model.PurchaseRequest) {
	if s.notifier == nil {
		s.logger.Info(ctx, "webhook not configured, skipping notification")
		return
	}

	err := s.notifier.Send(ctx, buildNotification(req))
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrNotifierNotConfigured):
		s.logger.Info(ctx, "webhook not configured, skipping notification")
	default:
		metrics.WebhookFailures.Inc()
		s.logger.Warn(ctx, "webhook notification failed", "error", err)
	}
}

func buildNotification(req model.PurchaseRequest) model.Notification {
	urgency := req.Urgency
	if urgency == "" {
		urgency = "Não informada"
	}

	return model.Notification{
		Content: "Nova solicitação de compras recebida",
		Title:   fmt.Sprintf("Solicitação de Compra - %s", req.Sector),
		Color:   urgencyColor(req.Urgency),
		Fields: []model.NotificationField{
			{Name: "Data", Value: orNA(req.Date), Inline: true},
			{Name: "Setor", Value: orNA(req.Sector), Inline: true},
			{Name: "Requisitado por", Value: orNA(req.RequestedBy), Inline: true},
			{Name: "Urgência", Value: urgency, Inline: true},
			{Name: "Itens", Value: itemsSummary(req.Items)},
			{Name: "Justificativa", Value: orNA(req.Justification)},
		},
		Footer: defaultFromName,
	}
}

// urgencyColor picks the embed indicator for an urgency level. The
// browser client submits the unaccented "Media", the form label shows
// "Média"; both mean the same level.
func urgencyColor(urgency string) int {
	switch urgency {
	case "Alta":
		return colorHigh
	case "Média", "Media":
		return colorMedium
	case "Baixa":
		return colorLow
	default:
		return colorNeutral
	}
}

func itemsSummary(items []model.LineItem) string {
	if len(items) == 0 {
		return noItemsSummary
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s: %s", item.Description, item.Quantity))
	}
	return strings.Join(lines, "\n")
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
