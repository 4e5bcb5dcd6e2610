package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/advice"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/repository"
	"github.com/google/uuid"
)

// Default form values.
const (
	DefaultCourtStartTime = "19:00"
	DefaultCourtEndTime   = "21:00"
)

// Service drives wizard sessions through their steps.
type Service struct {
	repo     Repository
	advice   AdviceStarter
	activity ActivityRecorder
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]*advice.Pending
}

// NewService creates a new wizard service. A nil activity recorder disables
// activity logging.
func NewService(repo Repository, adv AdviceStarter, act ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:     repo,
		advice:   adv,
		activity: act,
		logger:   logger,
		pending:  make(map[string]*advice.Pending),
	}
}

// Start opens a new session at the costs step.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Step:      StepCollectingCosts,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("wizard session started", "session_id", sess.ID)
	s.record(ctx, sess.ID, activity.TypeSessionStarted, "Session started", nil)
	return sess, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// SubmitCosts stores the costs form and moves on to the players step.
func (s *Service) SubmitCosts(ctx context.Context, id string, costs allocation.SessionCosts) (*Session, error) {
	if err := ValidateCosts(costs); err != nil {
		return nil, err
	}

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := Transition(sess.Step, EventSubmitCosts)
	if err != nil {
		return nil, err
	}

	sess.Costs = &costs
	if err := s.save(ctx, sess, next); err != nil {
		return nil, err
	}

	s.record(ctx, sess.ID, activity.TypeCostsSubmitted,
		fmt.Sprintf("Court %s-%s, %d shuttlecocks", costs.CourtStartTime, costs.CourtEndTime, costs.ShuttlecocksUsed),
		costs)
	return sess, nil
}

// SubmitPlayers stores the players form, computes the breakdown and starts
// fetching advice in the background. The returned session is in the
// computing step and already carries the numbers.
func (s *Service) SubmitPlayers(ctx context.Context, id string, players []allocation.PlayerAttendance) (*Session, error) {
	if err := ValidatePlayers(players); err != nil {
		return nil, err
	}

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := Transition(sess.Step, EventSubmitPlayers)
	if err != nil {
		return nil, err
	}
	if sess.Costs == nil {
		return nil, fmt.Errorf("%w: costs missing", ErrInvalidTransition)
	}

	result := allocation.Allocate(*sess.Costs, players)
	sess.Players = players
	sess.Result = &result
	sess.Advice = nil

	var p *advice.Pending
	if s.advice != nil {
		p = s.advice.Start(context.WithoutCancel(ctx), advice.NewRequest(players, sess.Costs.ShuttlecocksUsed))
	}

	// The computing step and its request become visible together under the
	// lock settle takes, so AwaitResults never sees one without the other.
	s.mu.Lock()
	err = s.save(ctx, sess, next)
	if err == nil && p != nil {
		if prev, ok := s.pending[id]; ok {
			prev.Cancel()
		}
		s.pending[id] = p
	}
	s.mu.Unlock()
	if err != nil {
		if p != nil {
			p.Cancel()
		}
		return nil, err
	}

	s.record(ctx, sess.ID, activity.TypePlayersSubmitted,
		fmt.Sprintf("%d players, grand total %.2f", len(players), result.GrandTotal),
		map[string]any{"players": players, "result": result})
	return sess, nil
}

// AwaitResults waits for the advice to settle, attaches it and moves to the
// results step. Calling it again once results are showing returns the same
// session. If no request is in flight the fallback advice is attached.
func (s *Service) AwaitResults(ctx context.Context, id string) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sess.Step {
	case StepShowingResults:
		return sess, nil
	case StepComputing:
	default:
		return nil, ErrResultsNotReady
	}

	s.mu.Lock()
	p := s.pending[id]
	s.mu.Unlock()

	suggestion := advice.Fallback()
	if p != nil {
		suggestion, err = p.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("waiting for advice: %w", err)
		}
	}

	return s.settle(ctx, id, p, suggestion)
}

// settle attaches the advice exactly once per pending request.
func (s *Service) settle(ctx context.Context, id string, p *advice.Pending, suggestion advice.Suggestion) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Step == StepShowingResults {
		return sess, nil
	}
	if current := s.pending[id]; current != p {
		// Players were resubmitted or the session was reset while waiting.
		return nil, ErrResultsNotReady
	}
	next, err := Transition(sess.Step, EventAdviceSettled)
	if err != nil {
		return nil, ErrResultsNotReady
	}

	sess.Advice = &suggestion
	if err := s.save(ctx, sess, next); err != nil {
		return nil, err
	}
	delete(s.pending, id)

	if suggestion.Failed {
		s.record(ctx, id, activity.TypeAdviceFailed, "Advice unavailable", nil)
	}
	s.record(ctx, id, activity.TypeResultsReady, "Results ready: "+suggestion.SuggestedMethod, suggestion)
	return sess, nil
}

// Back returns to the previous form. Entered data is kept so the form can be
// pre-filled, and any stale results are cleared.
func (s *Service) Back(ctx context.Context, id string) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := Transition(sess.Step, EventBack)
	if err != nil {
		return nil, err
	}

	from := sess.Step
	sess.Result = nil
	sess.Advice = nil
	if err := s.save(ctx, sess, next); err != nil {
		return nil, err
	}

	s.record(ctx, id, activity.TypeSteppedBack, fmt.Sprintf("Back from %s to %s", from, next), nil)
	return sess, nil
}

// StartOver cancels any in-flight advice and clears the session.
func (s *Service) StartOver(ctx context.Context, id string) (*Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := Transition(sess.Step, EventStartOver)
	if err != nil {
		return nil, err
	}

	s.cancelPending(id)
	sess.Costs = nil
	sess.Players = nil
	sess.Result = nil
	sess.Advice = nil
	if err := s.save(ctx, sess, next); err != nil {
		return nil, err
	}

	s.record(ctx, id, activity.TypeStartedOver, "Started over", nil)
	return sess, nil
}

// Close deletes the session.
func (s *Service) Close(ctx context.Context, id string) error {
	if id == "" {
		return ErrSessionNotFound
	}
	s.cancelPending(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("deleting session: %w", err)
	}

	s.logger.Info("wizard session closed", "session_id", id)
	s.record(ctx, id, activity.TypeSessionClosed, "Session closed", nil)
	return nil
}

// FormDefaults loads a session and returns its form defaults.
func (s *Service) FormDefaults(ctx context.Context, id string) (*FormDefaults, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	defaults := DefaultsFor(sess)
	return &defaults, nil
}

// DefaultsFor returns the values the forms should be pre-filled with.
func DefaultsFor(sess *Session) FormDefaults {
	costs := allocation.SessionCosts{
		CourtStartTime: DefaultCourtStartTime,
		CourtEndTime:   DefaultCourtEndTime,
	}
	if sess != nil && sess.Costs != nil {
		costs = *sess.Costs
	}

	var players []allocation.PlayerAttendance
	if sess != nil && len(sess.Players) > 0 {
		players = append(players, sess.Players...)
	} else {
		players = []allocation.PlayerAttendance{newPlayer(costs, 1)}
	}

	return FormDefaults{
		Costs:      costs,
		Players:    players,
		NextPlayer: newPlayer(costs, len(players)+1),
	}
}

func newPlayer(costs allocation.SessionCosts, n int) allocation.PlayerAttendance {
	return allocation.PlayerAttendance{
		Name:          fmt.Sprintf("Player %d", n),
		ArrivalTime:   costs.CourtStartTime,
		DepartureTime: costs.CourtEndTime,
	}
}

// PurgeIdle deletes sessions not updated since cutoff.
func (s *Service) PurgeIdle(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := s.repo.DeleteIdle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging idle sessions: %w", err)
	}
	for _, id := range ids {
		s.cancelPending(id)
	}
	if len(ids) > 0 {
		s.logger.Info("purged idle wizard sessions", "count", len(ids), "cutoff", cutoff)
	}
	return len(ids), nil
}

// Calculate validates both forms and runs the allocation, joining it with
// advice when withAdvice is set. Nothing is persisted.
func (s *Service) Calculate(ctx context.Context, costs allocation.SessionCosts, players []allocation.PlayerAttendance, withAdvice bool) (*Calculation, error) {
	costsErr := ValidateCosts(costs)
	playersErr := ValidatePlayers(players)
	if costsErr != nil || playersErr != nil {
		var all []FieldIssue
		for _, err := range []error{costsErr, playersErr} {
			var verr *ValidationError
			if errors.As(err, &verr) {
				all = append(all, verr.Issues...)
			}
		}
		return nil, &ValidationError{Issues: all}
	}

	var p *advice.Pending
	if withAdvice && s.advice != nil {
		p = s.advice.Start(ctx, advice.NewRequest(players, costs.ShuttlecocksUsed))
		defer p.Cancel()
	}

	calc := &Calculation{
		Costs:   costs,
		Players: players,
		Result:  allocation.Allocate(costs, players),
	}

	if withAdvice {
		suggestion := advice.Fallback()
		if p != nil {
			var err error
			suggestion, err = p.Wait(ctx)
			if err != nil {
				return nil, fmt.Errorf("waiting for advice: %w", err)
			}
		}
		calc.Advice = &suggestion
	}
	return calc, nil
}

// Pending reports whether advice is in flight for the session.
func (s *Service) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

func (s *Service) save(ctx context.Context, sess *Session, next Step) error {
	sess.Step = next
	sess.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, sess); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("updating session: %w", err)
	}
	return nil
}

func (s *Service) cancelPending(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[id]; ok {
		p.Cancel()
		delete(s.pending, id)
	}
}

func (s *Service) record(ctx context.Context, sessionID string, typ activity.ActivityType, summary string, details any) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, sessionID, typ, summary, details)
}
