package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/jobs"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testLoc = time.FixedZone("UTC+7", 7*3600)

// fakeStore backs every store interface the orchestrator and the jobs need,
// with flag writes visible to subsequent runs (like the real document store).
type fakeStore struct {
	entities []models.NotifiableEntity
	prefs    map[primitive.ObjectID]*models.UserNotificationPreferences
	prefsErr map[primitive.ObjectID]error
	tokens   map[primitive.ObjectID][]models.DeviceToken
	tokenErr error

	invalidated []string
	logEntries  []models.NotificationLogEntry
	activeDays  map[primitive.ObjectID][]engine.DayKey
	checkIns    map[string]bool // ownerHex+refHex+day
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		prefs:      map[primitive.ObjectID]*models.UserNotificationPreferences{},
		prefsErr:   map[primitive.ObjectID]error{},
		tokens:     map[primitive.ObjectID][]models.DeviceToken{},
		activeDays: map[primitive.ObjectID][]engine.DayKey{},
		checkIns:   map[string]bool{},
	}
}

func (f *fakeStore) ActiveByKind(ctx context.Context, kind models.EntityKind) ([]models.NotifiableEntity, error) {
	var out []models.NotifiableEntity
	for _, e := range f.entities {
		if e.Kind == kind && e.Status == models.StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveDueBetween(ctx context.Context, kind models.EntityKind, from, to time.Time) ([]models.NotifiableEntity, error) {
	var out []models.NotifiableEntity
	for _, e := range f.entities {
		if e.Kind != kind || e.Status != models.StatusActive || e.DueAt == nil {
			continue
		}
		if !e.DueAt.Before(from) && e.DueAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) SetNotificationFlag(ctx context.Context, entityID primitive.ObjectID, occurrenceKey, flagKey string) error {
	for i := range f.entities {
		if f.entities[i].ID != entityID {
			continue
		}
		e := &f.entities[i]
		if occurrenceKey != "" && e.OccurrenceKey != occurrenceKey {
			e.OccurrenceKey = occurrenceKey
			e.NotificationFlags = map[string]bool{flagKey: true}
			return nil
		}
		if e.NotificationFlags == nil {
			e.NotificationFlags = map[string]bool{}
		}
		e.NotificationFlags[flagKey] = true
		return nil
	}
	return errors.New("entity not found")
}

func (f *fakeStore) GetOrDefault(ctx context.Context, userID primitive.ObjectID) (*models.UserNotificationPreferences, error) {
	if err := f.prefsErr[userID]; err != nil {
		return nil, err
	}
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	return models.DefaultPreferences(userID), nil
}

func (f *fakeStore) ActiveTokens(ctx context.Context, ownerID primitive.ObjectID) ([]models.DeviceToken, error) {
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return f.tokens[ownerID], nil
}

func (f *fakeStore) MarkInvalid(ctx context.Context, token string) error {
	f.invalidated = append(f.invalidated, token)
	return nil
}

func (f *fakeStore) Append(ctx context.Context, entry *models.NotificationLogEntry) error {
	f.logEntries = append(f.logEntries, *entry)
	return nil
}

func (f *fakeStore) ActiveDays(ctx context.Context, ownerID primitive.ObjectID, kind string, since, until engine.DayKey) ([]engine.DayKey, error) {
	var out []engine.DayKey
	for _, d := range f.activeDays[ownerID] {
		if !d.Before(since) && !until.Before(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) HasCheckIn(ctx context.Context, ownerID, refID primitive.ObjectID, day engine.DayKey) (bool, error) {
	return f.checkIns[ownerID.Hex()+refID.Hex()+string(day)], nil
}

// fakeTransport records sends and answers with configurable per-token results.
type fakeTransport struct {
	sent    []services.MulticastMessage
	results func(tokens []string) *services.MulticastResult
	err     error
}

func (f *fakeTransport) SendMulticast(ctx context.Context, msg services.MulticastMessage) (*services.MulticastResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	if f.results != nil {
		return f.results(msg.Tokens), nil
	}
	results := make([]services.SendResult, len(msg.Tokens))
	for i := range results {
		results[i] = services.SendResult{Success: true}
	}
	return &services.MulticastResult{SuccessCount: len(msg.Tokens), Results: results}, nil
}

func newDispatch(store *fakeStore, transport *fakeTransport, now time.Time) *services.DispatchService {
	return services.NewDispatchService(store, store, store, store, transport, testLoc).
		WithNow(func() time.Time { return now })
}

func billDueIn(ownerID primitive.ObjectID, now time.Time, days int) models.NotifiableEntity {
	due := now.AddDate(0, 0, days)
	return models.NotifiableEntity{
		ID:      primitive.NewObjectID(),
		OwnerID: ownerID,
		Kind:    models.KindBill,
		Name:    "Electricity",
		Status:  models.StatusActive,
		DueAt:   &due,
	}
}

func TestRun_EndToEndBillReminder(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 3)}
	store.tokens[owner] = []models.DeviceToken{
		{Token: "tok-1", Status: models.TokenActive},
		{Token: "tok-2", Status: models.TokenActive},
	}
	transport := &fakeTransport{}

	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.Errors)

	require.Len(t, transport.sent, 1)
	assert.Len(t, transport.sent[0].Tokens, 2)
	assert.Equal(t, "due_3", transport.sent[0].Data["milestone"])

	require.Len(t, store.logEntries, 1)
	assert.Equal(t, "due_3", store.logEntries[0].Milestone)
	assert.Equal(t, 2, store.logEntries[0].SuccessCount)

	assert.True(t, store.entities[0].NotificationFlags["due_3"], "already-sent flag persisted")
}

func TestRun_IdempotentAcrossRuns(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 3)}
	store.tokens[owner] = []models.DeviceToken{{Token: "tok-1", Status: models.TokenActive}}
	transport := &fakeTransport{}

	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	dispatch := newDispatch(store, transport, now)

	first := dispatch.Run(context.Background(), jobs.BillReminders(deps))
	second := dispatch.Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 1, first.Sent)
	assert.Equal(t, 0, second.Sent)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, transport.sent, 1, "exactly one dispatch across both runs")
	assert.Len(t, store.logEntries, 1, "exactly one log entry across both runs")
}

func TestRun_QuietHoursSuppressesWithoutFlag(t *testing.T) {
	night := time.Date(2025, 6, 10, 23, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, night, 3)}
	store.tokens[owner] = []models.DeviceToken{{Token: "tok-1", Status: models.TokenActive}}

	prefs := models.DefaultPreferences(owner)
	prefs.QuietHours = engine.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}
	store.prefs[owner] = prefs

	transport := &fakeTransport{}
	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}

	summary := newDispatch(store, transport, night).Run(context.Background(), jobs.BillReminders(deps))
	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, transport.sent)
	assert.Empty(t, store.entities[0].NotificationFlags, "no flag mutation on quiet-hours skip")

	// A later run the same day, outside the window, still fires.
	morning := time.Date(2025, 6, 10, 9, 0, 0, 0, testLoc)
	summary = newDispatch(store, transport, morning).Run(context.Background(), jobs.BillReminders(deps))
	assert.Equal(t, 1, summary.Sent)
	assert.Len(t, transport.sent, 1)
}

func TestRun_InvalidTokenPruned(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 1)}
	store.tokens[owner] = []models.DeviceToken{
		{Token: "tok-live", Status: models.TokenActive},
		{Token: "tok-dead", Status: models.TokenActive},
	}

	transport := &fakeTransport{results: func(tokens []string) *services.MulticastResult {
		results := make([]services.SendResult, len(tokens))
		for i, tok := range tokens {
			if tok == "tok-dead" {
				results[i] = services.SendResult{ErrorCode: services.ErrCodeUnregistered}
			} else {
				results[i] = services.SendResult{Success: true}
			}
		}
		return &services.MulticastResult{SuccessCount: 1, FailureCount: 1, Results: results}
	}}

	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, []string{"tok-dead"}, store.invalidated)

	require.Len(t, store.logEntries, 1)
	assert.Equal(t, 1, store.logEntries[0].SuccessCount)
	assert.Equal(t, 1, store.logEntries[0].FailureCount)
	assert.True(t, store.entities[0].NotificationFlags["due_1"], "partial failure still marks sent")
}

func TestRun_TransientTokenErrorNotPruned(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 1)}
	store.tokens[owner] = []models.DeviceToken{{Token: "tok-1", Status: models.TokenActive}}

	transport := &fakeTransport{results: func(tokens []string) *services.MulticastResult {
		return &services.MulticastResult{
			FailureCount: 1,
			Results:      []services.SendResult{{ErrorCode: services.ErrCodeUnavailable}},
		}
	}}

	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Empty(t, store.invalidated, "transient failures leave the token alone")
}

func TestRun_NoTokensSkips(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 3)}
	transport := &fakeTransport{}

	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, store.entities[0].NotificationFlags, "no flag without a delivery")
}

func TestRun_CategoryDisabledSkips(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 3)}
	store.tokens[owner] = []models.DeviceToken{{Token: "tok-1", Status: models.TokenActive}}

	prefs := models.DefaultPreferences(owner)
	prefs.Categories[models.KindBill] = models.CategoryPrefs{Enabled: false}
	store.prefs[owner] = prefs

	transport := &fakeTransport{}
	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 0, summary.Sent)
	assert.Empty(t, transport.sent)
}

func TestRun_MilestoneSubFlagDisabledSkips(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 3)}
	store.tokens[owner] = []models.DeviceToken{{Token: "tok-1", Status: models.TokenActive}}

	prefs := models.DefaultPreferences(owner)
	prefs.Categories[models.KindBill] = models.CategoryPrefs{
		Enabled:    true,
		Milestones: map[string]bool{"due_3": false},
	}
	store.prefs[owner] = prefs

	transport := &fakeTransport{}
	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRun_PerEntityErrorIsolation(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	okOwner := primitive.NewObjectID()
	badOwner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{
		billDueIn(badOwner, now, 3),
		billDueIn(okOwner, now, 3),
	}
	store.tokens[okOwner] = []models.DeviceToken{{Token: "tok-1", Status: models.TokenActive}}
	store.prefsErr[badOwner] = errors.New("preferences unavailable")

	transport := &fakeTransport{}
	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 1, summary.Sent, "healthy entity still dispatched")
	assert.Equal(t, 1, summary.Errors)
	assert.Len(t, transport.sent, 1)
}

func TestRun_TransportErrorCounted(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{billDueIn(owner, now, 3)}
	store.tokens[owner] = []models.DeviceToken{{Token: "tok-1", Status: models.TokenActive}}

	transport := &fakeTransport{err: errors.New("fcm unreachable")}
	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.Errors)
	assert.Empty(t, store.entities[0].NotificationFlags, "no flag after transport failure")
	assert.Empty(t, store.logEntries)
}

func TestRun_InactiveEntitySkipped(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, testLoc)
	owner := primitive.NewObjectID()

	archived := billDueIn(owner, now, 3)
	archived.Status = models.StatusArchived

	store := newFakeStore()
	store.entities = []models.NotifiableEntity{archived}
	transport := &fakeTransport{}

	deps := jobs.Deps{Entities: store, Activity: store, Loc: testLoc}
	summary := newDispatch(store, transport, now).Run(context.Background(), jobs.BillReminders(deps))

	assert.Equal(t, 0, summary.Sent)
	assert.Empty(t, transport.sent)
}
