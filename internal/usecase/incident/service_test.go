package incident

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
	domainIncident "transport-manager/internal/domain/incident"
	"transport-manager/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("production"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type memIncidentRepo struct {
	incidents map[uuid.UUID]*domainIncident.Incident
}

func newMemIncidentRepo() *memIncidentRepo {
	return &memIncidentRepo{incidents: make(map[uuid.UUID]*domainIncident.Incident)}
}

func (r *memIncidentRepo) Create(_ context.Context, i *domainIncident.Incident) error {
	i.ID = uuid.New()
	i.CreatedAt = time.Now()
	r.incidents[i.ID] = i
	return nil
}

func (r *memIncidentRepo) GetByID(_ context.Context, id uuid.UUID) (*domainIncident.Incident, error) {
	i, ok := r.incidents[id]
	if !ok {
		return nil, domainIncident.ErrIncidentNotFound
	}
	return i, nil
}

func (r *memIncidentRepo) Update(_ context.Context, i *domainIncident.Incident) error {
	r.incidents[i.ID] = i
	return nil
}

func (r *memIncidentRepo) List(_ context.Context, expeditionID, tourID *uuid.UUID, unresolvedOnly bool, _, _ int) ([]*domainIncident.Incident, int64, error) {
	var out []*domainIncident.Incident
	for _, i := range r.incidents {
		if expeditionID != nil && (i.ExpeditionID == nil || *i.ExpeditionID != *expeditionID) {
			continue
		}
		if tourID != nil && (i.TourID == nil || *i.TourID != *tourID) {
			continue
		}
		if unresolvedOnly && i.IsResolved() {
			continue
		}
		out = append(out, i)
	}
	return out, int64(len(out)), nil
}

type recordingFailer struct {
	failed []uuid.UUID
	err    error
}

func (f *recordingFailer) ForceFail(_ context.Context, id uuid.UUID, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.failed = append(f.failed, id)
	return nil
}

type recordingDispatcher struct {
	events []domainEvent.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e domainEvent.Event) {
	d.events = append(d.events, e)
}

func TestCreate_DefaultsPriority(t *testing.T) {
	svc := NewService(newMemIncidentRepo(), &recordingFailer{}, &recordingDispatcher{})

	resp, err := svc.Create(context.Background(), &CreateIncidentRequest{
		Type:     "delay",
		Severity: "low",
	})
	require.NoError(t, err)
	assert.Equal(t, domainIncident.PriorityNormal, resp.Priority)
	assert.Nil(t, resp.ResolvedAt)
}

func TestCreate_CriticalWithExpeditionCascades(t *testing.T) {
	failer := &recordingFailer{}
	dispatcher := &recordingDispatcher{}
	svc := NewService(newMemIncidentRepo(), failer, dispatcher)

	expeditionID := uuid.New()
	_, err := svc.Create(context.Background(), &CreateIncidentRequest{
		Type:         "loss",
		Severity:     "critical",
		ExpeditionID: &expeditionID,
	})
	require.NoError(t, err)

	require.Len(t, failer.failed, 1)
	assert.Equal(t, expeditionID, failer.failed[0])

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domainEvent.CategoryIncident, dispatcher.events[0].Category)
}

func TestCreate_CriticalWithoutExpeditionDoesNotCascade(t *testing.T) {
	failer := &recordingFailer{}
	svc := NewService(newMemIncidentRepo(), failer, &recordingDispatcher{})

	tourID := uuid.New()
	_, err := svc.Create(context.Background(), &CreateIncidentRequest{
		Type:     "technical",
		Severity: "critical",
		TourID:   &tourID,
	})
	require.NoError(t, err)
	assert.Empty(t, failer.failed)
}

func TestCreate_NonCriticalDoesNotCascade(t *testing.T) {
	failer := &recordingFailer{}
	svc := NewService(newMemIncidentRepo(), failer, &recordingDispatcher{})

	expeditionID := uuid.New()
	_, err := svc.Create(context.Background(), &CreateIncidentRequest{
		Type:         "damage",
		Severity:     "high",
		ExpeditionID: &expeditionID,
	})
	require.NoError(t, err)
	assert.Empty(t, failer.failed)
}

func TestCreate_CascadeFailureIsSwallowed(t *testing.T) {
	failer := &recordingFailer{err: errors.New("already terminal")}
	svc := NewService(newMemIncidentRepo(), failer, &recordingDispatcher{})

	expeditionID := uuid.New()
	resp, err := svc.Create(context.Background(), &CreateIncidentRequest{
		Type:         "loss",
		Severity:     "critical",
		ExpeditionID: &expeditionID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	svc := NewService(newMemIncidentRepo(), &recordingFailer{}, &recordingDispatcher{})

	_, err := svc.Create(context.Background(), &CreateIncidentRequest{
		Type:     "alien_abduction",
		Severity: "low",
	})
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	repo := newMemIncidentRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewService(repo, &recordingFailer{}, dispatcher)

	created, err := svc.Create(context.Background(), &CreateIncidentRequest{
		Type:     "delay",
		Severity: "medium",
	})
	require.NoError(t, err)
	dispatcher.events = nil

	resolved, err := svc.Resolve(context.Background(), created.ID, &ResolveIncidentRequest{
		ResolutionDetails: "rerouted through the northern hub",
	})
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, "rerouted through the northern hub", resolved.ResolutionDetails)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domainEvent.SeveritySuccess, dispatcher.events[0].Severity)

	// Resolving twice is rejected.
	_, err = svc.Resolve(context.Background(), created.ID, &ResolveIncidentRequest{
		ResolutionDetails: "closing again",
	})
	assert.True(t, errors.Is(err, domainIncident.ErrAlreadyResolved))
}

func TestList_UnresolvedOnly(t *testing.T) {
	repo := newMemIncidentRepo()
	svc := NewService(repo, &recordingFailer{}, &recordingDispatcher{})

	first, err := svc.Create(context.Background(), &CreateIncidentRequest{Type: "delay", Severity: "low"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &CreateIncidentRequest{Type: "damage", Severity: "medium"})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), first.ID, &ResolveIncidentRequest{
		ResolutionDetails: "driver found the parcel",
	})
	require.NoError(t, err)

	open, total, err := svc.List(context.Background(), nil, nil, true, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, open, 1)
	assert.Equal(t, domainIncident.TypeDamage, open[0].Type)
}
