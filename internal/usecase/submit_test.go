package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solicitacao-compras/internal/adapter/logging"
	"solicitacao-compras/internal/domain/model"
	"solicitacao-compras/internal/domain/ports"
)

type fakeMailer struct {
	sent []model.Email
	err  error
}

func (f *fakeMailer) Send(_ context.Context, email model.Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

type fakeNotifier struct {
	sent []model.Notification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, n model.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func sampleRequest() model.PurchaseRequest {
	return model.PurchaseRequest{
		Date:          "2026-08-29",
		Sector:        "TI",
		RequestedBy:   "Ana",
		Urgency:       "Alta",
		Justification: "Monitor queimado",
		CcEmail:       "ana@example.com",
		Items: []model.LineItem{
			{Description: "Monitor 24\"", Quantity: "1"},
		},
	}
}

func TestSubmitSuccess(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	sub := NewSubmission(mailer, notifier, logging.New(nil))

	err := sub.Submit(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Nova Solicitação de Compra - Setor: TI", mailer.sent[0].Subject)
	assert.Equal(t, "Ana", mailer.sent[0].FromName)
	assert.Equal(t, "ana@example.com", mailer.sent[0].Cc)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, colorHigh, notifier.sent[0].Color)
}

func TestSubmitMailFailureIsFatal(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp unreachable")}
	notifier := &fakeNotifier{}
	sub := NewSubmission(mailer, notifier, logging.New(nil))

	err := sub.Submit(context.Background(), sampleRequest())
	assert.ErrorContains(t, err, "smtp unreachable")

	// The pipeline short-circuits before the webhook step.
	assert.Empty(t, notifier.sent)
}

func TestSubmitWebhookFailureIsSwallowed(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{err: errors.New("discord down")}
	sub := NewSubmission(mailer, notifier, logging.New(nil))

	err := sub.Submit(context.Background(), sampleRequest())
	assert.NoError(t, err)
	require.Len(t, mailer.sent, 1)
}

func TestSubmitUnconfiguredNotifierIsSkip(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{err: ports.ErrNotifierNotConfigured}
	sub := NewSubmission(mailer, notifier, logging.New(nil))

	err := sub.Submit(context.Background(), sampleRequest())
	assert.NoError(t, err)
}

func TestSubmitWithoutNotifier(t *testing.T) {
	mailer := &fakeMailer{}
	sub := NewSubmission(mailer, nil, logging.New(nil))

	err := sub.Submit(context.Background(), sampleRequest())
	assert.NoError(t, err)
	require.Len(t, mailer.sent, 1)
}

func TestUrgencyColor(t *testing.T) {
	cases := []struct {
		urgency string
		color   int
	}{
		{"Alta", colorHigh},
		{"Média", colorMedium},
		{"Media", colorMedium},
		{"Baixa", colorLow},
		{"Urgente", colorNeutral},
		{"", colorNeutral},
	}

	for _, tc := range cases {
		t.Run("urgency="+tc.urgency, func(t *testing.T) {
			assert.Equal(t, tc.color, urgencyColor(tc.urgency))
		})
	}
}

func TestItemsSummary(t *testing.T) {
	t.Run("lines per item", func(t *testing.T) {
		got := itemsSummary([]model.LineItem{
			{Description: "Papel A4", Quantity: "10"},
			{Description: "Toner", Quantity: "1"},
		})
		assert.Equal(t, "- Papel A4: 10\n- Toner: 1", got)
	})

	t.Run("placeholder when empty", func(t *testing.T) {
		assert.Equal(t, noItemsSummary, itemsSummary(nil))
	})
}

func TestBuildNotificationFields(t *testing.T) {
	n := buildNotification(model.PurchaseRequest{Sector: "RH"})

	assert.Equal(t, "Solicitação de Compra - RH", n.Title)
	assert.Equal(t, colorNeutral, n.Color)
	assert.Equal(t, defaultFromName, n.Footer)

	byName := map[string]string{}
	for _, f := range n.Fields {
		byName[f.Name] = f.Value
	}
	assert.Equal(t, "RH", byName["Setor"])
	assert.Equal(t, "Não informada", byName["Urgência"])
	assert.Equal(t, noItemsSummary, byName["Itens"])
	assert.Equal(t, "N/A", byName["Justificativa"])
}
