package advice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrNoAdvisor is reported when no advisor is configured.
var ErrNoAdvisor = errors.New("no advisor configured")

// Service obtains suggestions and never lets an advisor failure escape.
type Service struct {
	advisor Advisor
	timeout time.Duration
	logger  *slog.Logger
}

// NewService creates an advice service. A zero timeout leaves the call
// bounded only by the caller's context.
func NewService(advisor Advisor, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{advisor: advisor, timeout: timeout, logger: logger}
}

// Suggest asks the advisor once. Any failure, including a panic inside the
// advisor or an empty answer, yields the Fallback placeholder.
func (s *Service) Suggest(ctx context.Context, req Request) Suggestion {
	suggestion, err := s.suggest(ctx, req)
	if err != nil {
		s.logger.Warn("advice unavailable", "players", len(req.PlayerTimestamps), "error", err)
		return Fallback()
	}
	return *suggestion
}

func (s *Service) suggest(ctx context.Context, req Request) (suggestion *Suggestion, err error) {
	if s.advisor == nil {
		return nil, ErrNoAdvisor
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			suggestion, err = nil, fmt.Errorf("advisor panic: %v", r)
		}
	}()

	suggestion, err = s.advisor.Suggest(ctx, req)
	if err != nil {
		return nil, err
	}
	if suggestion == nil || strings.TrimSpace(suggestion.SuggestedMethod) == "" {
		return nil, errors.New("advisor returned an empty suggestion")
	}
	return suggestion, nil
}

// Start runs Suggest in the background. The returned task can be awaited
// or cancelled; cancelling settles it with the fallback.
func (s *Service) Start(ctx context.Context, req Request) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer cancel()
		p.result = s.Suggest(ctx, req)
		close(p.done)
	}()
	return p
}

// Pending is an in-flight suggestion.
type Pending struct {
	done   chan struct{}
	cancel context.CancelFunc
	result Suggestion
}

// Done is closed once the suggestion has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the suggestion settles or ctx ends. Only ctx ending
// produces an error; advisor failures settle as the fallback.
func (p *Pending) Wait(ctx context.Context) (Suggestion, error) {
	select {
	case <-p.done:
		return p.result, nil
	case <-ctx.Done():
		return Suggestion{}, ctx.Err()
	}
}

// Cancel abandons the request.
func (p *Pending) Cancel() {
	p.cancel()
}
