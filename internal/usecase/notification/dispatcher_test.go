package notification

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainEvent "transport-manager/internal/domain/event"
	domainNotification "transport-manager/internal/domain/notification"
	"transport-manager/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("production"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type memNotificationRepo struct {
	notifications map[uuid.UUID]*domainNotification.Notification
	createErr     error
	markEmailErr  error
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[uuid.UUID]*domainNotification.Notification)}
}

func (r *memNotificationRepo) Create(_ context.Context, n *domainNotification.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	r.notifications[n.ID] = n
	return nil
}

func (r *memNotificationRepo) ListForUser(_ context.Context, userID uuid.UUID, unreadOnly bool, _, _ int) ([]*domainNotification.Notification, int64, error) {
	var out []*domainNotification.Notification
	for _, n := range r.notifications {
		if n.UserID == nil || *n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) ListForClient(_ context.Context, clientID uuid.UUID, unreadOnly bool, _, _ int) ([]*domainNotification.Notification, int64, error) {
	var out []*domainNotification.Notification
	for _, n := range r.notifications {
		if n.ClientID == nil || *n.ClientID != clientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) MarkEmailSent(_ context.Context, id uuid.UUID) error {
	if r.markEmailErr != nil {
		return r.markEmailErr
	}
	if n, ok := r.notifications[id]; ok {
		n.SentViaEmail = true
	}
	return nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	n, ok := r.notifications[id]
	if !ok || n.Read {
		return nil
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	return nil
}

type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func TestDispatch_PersistsNotification(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, nil)

	clientID := uuid.New()
	d.Dispatch(context.Background(), domainEvent.Event{
		Category:      domainEvent.CategoryExpedition,
		Severity:      domainEvent.SeveritySuccess,
		Title:         "Expedition EXP000001 status changed",
		Message:       "delivered",
		SubjectClient: &clientID,
	})

	list, total, err := repo.ListForClient(context.Background(), clientID, false, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "expedition", list[0].Category)
	assert.Equal(t, "success", list[0].Type)
	assert.False(t, list[0].Read)
}

func TestDispatch_EmailsClientSubjects(t *testing.T) {
	repo := newMemNotificationRepo()
	mailer := &recordingMailer{}
	d := NewDispatcher(repo, mailer)

	clientID := uuid.New()
	d.Dispatch(context.Background(), domainEvent.Event{
		Category:      domainEvent.CategoryPayment,
		Severity:      domainEvent.SeverityInfo,
		Title:         "Payment received",
		SubjectClient: &clientID,
	})
	d.Dispatch(context.Background(), domainEvent.Event{
		Category: domainEvent.CategorySystem,
		Severity: domainEvent.SeverityInfo,
		Title:    "no subject, no email",
	})

	assert.Len(t, mailer.sent, 1)
}

func TestDispatch_RecordsEmailDelivery(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, &recordingMailer{})

	clientID := uuid.New()
	d.Dispatch(context.Background(), domainEvent.Event{
		Category:      domainEvent.CategoryPayment,
		Severity:      domainEvent.SeverityInfo,
		Title:         "Invoice issued",
		SubjectClient: &clientID,
	})

	list, _, err := repo.ListForClient(context.Background(), clientID, false, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].SentViaEmail)
}

func TestDispatch_FailedEmailStaysUnsent(t *testing.T) {
	repo := newMemNotificationRepo()
	d := NewDispatcher(repo, &recordingMailer{err: errors.New("smtp down")})

	clientID := uuid.New()
	d.Dispatch(context.Background(), domainEvent.Event{
		Category:      domainEvent.CategoryPayment,
		Severity:      domainEvent.SeverityInfo,
		Title:         "Invoice issued",
		SubjectClient: &clientID,
	})

	list, _, err := repo.ListForClient(context.Background(), clientID, false, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].SentViaEmail)
}

func TestDispatch_NeverPanicsOnFailure(t *testing.T) {
	repo := newMemNotificationRepo()
	repo.createErr = errors.New("database unavailable")
	d := NewDispatcher(repo, &recordingMailer{err: errors.New("smtp down")})

	clientID := uuid.New()
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), domainEvent.Event{
			Category:      domainEvent.CategoryIncident,
			Severity:      domainEvent.SeverityError,
			Title:         "boom",
			SubjectClient: &clientID,
		})
	})
}

func TestService_MarkReadIsIdempotent(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewService(repo)

	userID := uuid.New()
	n := &domainNotification.Notification{UserID: &userID, Title: "hello"}
	require.NoError(t, repo.Create(context.Background(), n))

	require.NoError(t, svc.MarkRead(context.Background(), n.ID))
	firstReadAt := *repo.notifications[n.ID].ReadAt

	require.NoError(t, svc.MarkRead(context.Background(), n.ID))
	assert.Equal(t, firstReadAt, *repo.notifications[n.ID].ReadAt)

	unread, total, err := svc.ListForUser(context.Background(), userID, true, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, unread)
}
