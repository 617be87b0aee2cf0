package notification

import (
	"context"

	"go.uber.org/zap"

	domainEvent "transport-manager/internal/domain/event"
	domainNotification "transport-manager/internal/domain/notification"
	"transport-manager/internal/logger"
)

// Dispatcher persists dispatched events as notification rows and hands them
// to the mail sender best-effort. It satisfies event.Dispatcher: Dispatch
// never returns an error and never blocks the emitting operation on delivery.
type Dispatcher struct {
	repo   domainNotification.Repository
	mailer Mailer
}

// Mailer is the outbound email boundary. The stub implementation only logs.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

func NewDispatcher(repo domainNotification.Repository, mailer Mailer) *Dispatcher {
	return &Dispatcher{repo: repo, mailer: mailer}
}

func (d *Dispatcher) Dispatch(ctx context.Context, e domainEvent.Event) {
	n := &domainNotification.Notification{
		UserID:   e.SubjectUser,
		ClientID: e.SubjectClient,
		Type:     string(e.Severity),
		Category: string(e.Category),
		Title:    e.Title,
		Message:  e.Message,
	}

	if err := d.repo.Create(ctx, n); err != nil {
		logger.Error("Failed to persist notification",
			zap.String("category", string(e.Category)),
			zap.String("title", e.Title),
			zap.Error(err),
		)
		return
	}

	if d.mailer != nil && e.SubjectClient != nil {
		if err := d.mailer.Send(ctx, e.SubjectClient.String(), e.Title, e.Message); err != nil {
			logger.Warn("Failed to send notification email",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err),
			)
			return
		}

		n.SentViaEmail = true
		if err := d.repo.MarkEmailSent(ctx, n.ID); err != nil {
			logger.Warn("Failed to record email delivery",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// LogMailer is the default Mailer: it records the send in the log and
// reports success. Real SMTP delivery lives behind the same interface.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	logger.Info("Email notification queued",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
