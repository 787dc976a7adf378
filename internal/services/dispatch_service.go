package services

import (
	"context"
	"fmt"
	"time"

	"github.com/adilzhn/remindly/internal/engine"
	"github.com/adilzhn/remindly/internal/models"
	"github.com/adilzhn/remindly/pkg/logger"
)

// DispatchService runs one reminder job end to end: enumerate candidates,
// gate each through settings / quiet hours / the eligibility engine, fan out a
// multicast push, and reconcile the delivery result. Entities are independent;
// one entity's failure never aborts the rest of the batch.
type DispatchService struct {
	prefs     PreferenceStore
	tokens    TokenStore
	flags     FlagStore
	log       LogStore
	transport PushTransport
	loc       *time.Location

	// now is swappable in tests.
	now func() time.Time
}

// NewDispatchService wires the orchestrator with its store and transport
// collaborators. loc is the reference timezone all day math happens in.
func NewDispatchService(prefs PreferenceStore, tokens TokenStore, flags FlagStore, log LogStore, transport PushTransport, loc *time.Location) *DispatchService {
	return &DispatchService{
		prefs:     prefs,
		tokens:    tokens,
		flags:     flags,
		log:       log,
		transport: transport,
		loc:       loc,
		now:       time.Now,
	}
}

// WithNow overrides the clock. Tests use this to pin "today".
func (s *DispatchService) WithNow(now func() time.Time) *DispatchService {
	s.now = now
	return s
}

// RunSummary is the aggregate result returned to the cron trigger. The run
// always completes and reports counts; it never panics past this boundary.
type RunSummary struct {
	Job       string    `json:"job"`
	Sent      int       `json:"sent"`
	Skipped   int       `json:"skipped"`
	Errors    int       `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

type entityOutcome int

const (
	outcomeSkipped entityOutcome = iota
	outcomeSent
)

// Run executes one job batch. A failure listing candidates counts as a single
// error; per-entity failures are isolated and counted individually.
func (s *DispatchService) Run(ctx context.Context, job JobSpec) RunSummary {
	now := s.now().In(s.loc)
	summary := RunSummary{Job: job.Name, Timestamp: now}

	entities, err := job.Candidates(ctx, now)
	if err != nil {
		logger.Log.WithField("job", job.Name).WithError(err).Error("Failed to fetch job candidates")
		summary.Errors++
		return summary
	}

	for i := range entities {
		outcome, err := s.processEntity(ctx, job, &entities[i], now)
		if err != nil {
			logger.Log.WithField("job", job.Name).
				WithField("entity_id", entities[i].ID.Hex()).
				WithError(err).Error("Entity processing failed")
			summary.Errors++
			continue
		}
		if outcome == outcomeSent {
			summary.Sent++
		} else {
			summary.Skipped++
		}
	}

	logger.Log.WithField("job", job.Name).
		WithField("sent", summary.Sent).
		WithField("skipped", summary.Skipped).
		WithField("errors", summary.Errors).
		Info("Job run completed")
	return summary
}

// processEntity walks one entity through the state machine:
// CANDIDATE -> ELIGIBLE? -> TOKENS? -> DISPATCHED -> RECONCILED.
func (s *DispatchService) processEntity(ctx context.Context, job JobSpec, entity *models.NotifiableEntity, now time.Time) (outcome entityOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EntityProcessingError{Job: job.Name, EntityID: entity.ID.Hex(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if entity.Status != models.StatusActive {
		return outcomeSkipped, nil
	}

	prefs, err := s.prefs.GetOrDefault(ctx, entity.OwnerID)
	if err != nil {
		return 0, &EntityProcessingError{Job: job.Name, EntityID: entity.ID.Hex(), Err: fmt.Errorf("load preferences: %w", err)}
	}

	category := prefs.Category(job.Kind)
	if !category.Enabled {
		return outcomeSkipped, nil
	}

	if engine.IsQuietHours(prefs.QuietHours, engine.MinutesOfDay(now, s.loc)) {
		// No flag is written, so the next run of the same cadence re-evaluates
		// this entity once the window ends.
		return outcomeSkipped, nil
	}

	selection, err := job.Select(ctx, entity, now)
	if err != nil {
		return 0, &EntityProcessingError{Job: job.Name, EntityID: entity.ID.Hex(), Err: err}
	}
	if selection == nil {
		return outcomeSkipped, nil
	}

	if !category.MilestoneEnabled(selection.Milestone) {
		return outcomeSkipped, nil
	}

	tokens, err := s.tokens.ActiveTokens(ctx, entity.OwnerID)
	if err != nil {
		return 0, &EntityProcessingError{Job: job.Name, EntityID: entity.ID.Hex(), Err: fmt.Errorf("load tokens: %w", err)}
	}
	if len(tokens) == 0 {
		logger.Log.WithField("job", job.Name).
			WithField("owner_id", entity.OwnerID.Hex()).
			Debug("No active device tokens, skipping")
		return outcomeSkipped, nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, tok := range tokens {
		tokenStrings[i] = tok.Token
	}

	result, err := s.transport.SendMulticast(ctx, MulticastMessage{
		Tokens: tokenStrings,
		Title:  selection.Title,
		Body:   selection.Body,
		Data:   selection.Data,
	})
	if err != nil {
		return 0, &EntityProcessingError{Job: job.Name, EntityID: entity.ID.Hex(), Err: &TransportError{Err: err}}
	}

	s.reconcile(ctx, job, entity, selection, tokenStrings, result)
	return outcomeSent, nil
}

// reconcile prunes permanently-dead tokens, appends the audit entry, and sets
// the already-sent flag. Token cleanup and logging are best effort: a failure
// there must not roll back or block the flag write, so each piece only logs.
func (s *DispatchService) reconcile(ctx context.Context, job JobSpec, entity *models.NotifiableEntity, selection *Selection, tokens []string, result *MulticastResult) {
	for i, r := range result.Results {
		if r.Success || !IsInvalidTokenCode(r.ErrorCode) {
			continue
		}
		if err := s.tokens.MarkInvalid(ctx, tokens[i]); err != nil {
			logger.Log.WithField("job", job.Name).WithError(err).Warn("Failed to invalidate dead device token")
		} else {
			logger.Log.WithField("job", job.Name).
				WithField("error_code", r.ErrorCode).
				Info("Pruned invalid device token")
		}
	}

	entry := &models.NotificationLogEntry{
		OwnerID:      entity.OwnerID,
		EntityID:     entity.ID,
		Kind:         job.Kind,
		Milestone:    selection.Milestone,
		Title:        selection.Title,
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
		SentAt:       s.now(),
	}
	if err := s.log.Append(ctx, entry); err != nil {
		logger.Log.WithField("job", job.Name).WithError(err).Warn("Failed to append notification log entry")
	}

	if err := s.flags.SetNotificationFlag(ctx, entity.ID, selection.OccurrenceKey, selection.FlagKey); err != nil {
		// Losing the flag risks a duplicate send next run; at-least-once
		// delivery is the accepted failure mode here.
		logger.Log.WithField("job", job.Name).
			WithField("entity_id", entity.ID.Hex()).
			WithError(err).Error("Failed to persist already-sent flag")
	}
}
