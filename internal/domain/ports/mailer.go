package ports

import (
	"context"

	"solicitacao-compras/internal/domain/model"
)

// Mailer delivers a request email to the configured recipient.
// A failure here fails the whole submission.
type Mailer interface {
	Send(ctx context.Context, email model.Email) error
}
