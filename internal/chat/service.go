package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brayanMuniz/daijoubu/internal/llm"
	"github.com/brayanMuniz/daijoubu/internal/memory"
	"go.uber.org/zap"
)

const timeoutMessage = "The service is taking too long to respond. Please try again in a moment."

// ErrNotConfigured means no completion provider was built at boot, usually a
// missing API key.
var ErrNotConfigured = errors.New("no completion provider configured")

var errTimeout = errors.New("completion call timed out")

// UpstreamError carries a failed completion call together with its
// classification so the transport layer can pick a status code.
type UpstreamError struct {
	Kind llm.ErrorKind
	Err  error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// Service runs the reply pipeline: crisis check, prompt composition from
// memory, one bounded completion call, normalization with a single
// parse-repair retry, then the best-effort memory update.
type Service struct {
	provider llm.Provider
	store    memory.Store
	timeout  time.Duration
	logger   *zap.Logger
}

func NewService(provider llm.Provider, store memory.Store, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		store:    store,
		timeout:  timeout,
		logger:   logger,
	}
}

// Respond handles one user message and returns exactly one Reply or one
// error. Timeouts and unparseable model output are recovered into degraded
// Replies; only classified upstream failures surface as errors.
func (s *Service) Respond(ctx context.Context, userID string, message string) (*Reply, error) {
	if detectCrisis(message) {
		s.logger.Info("crisis detected, returning safe reply", zap.String("user_id", userID))
		return crisisReply(), nil
	}

	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	messages := composeMessages(s.store.Get(userID), message)

	start := time.Now()
	raw, err := s.invoke(ctx, messages)
	elapsed := time.Since(start)

	if errors.Is(err, errTimeout) {
		s.logger.Warn("completion call timed out",
			zap.String("user_id", userID),
			zap.Duration("timeout", s.timeout))
		return &Reply{Emotional: timeoutMessage}, nil
	}
	if err != nil {
		kind := llm.Classify(err)
		s.logger.Error("completion call failed",
			zap.String("user_id", userID),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return nil, &UpstreamError{Kind: kind, Err: err}
	}

	s.logger.Info("completion call finished",
		zap.String("user_id", userID),
		zap.Duration("elapsed", elapsed))
	if elapsed > 10*time.Second {
		s.logger.Warn("slow completion call",
			zap.String("user_id", userID),
			zap.Duration("elapsed", elapsed))
	}

	// The retry uses the same timeout as the first call; a retry failure of
	// any kind lands in the fallback, never in an error.
	reply := normalize(raw, func() (string, error) {
		return s.invoke(ctx, withStrictInstruction(messages))
	})

	s.maybeUpdateMemory(userID, message)

	return reply, nil
}

// maybeUpdateMemory runs strictly after the Reply is finalized, so the
// prompt's memory summary always reflects prior requests only.
func (s *Service) maybeUpdateMemory(userID string, message string) {
	if strings.Contains(strings.ToLower(message), "beginner") {
		s.store.Update(userID, map[string]string{"level": "beginner"})
	}
}

type completionResult struct {
	text string
	err  error
}

// invoke races one provider call against the configured deadline. On timeout
// the worker goroutine is abandoned rather than joined; the buffered channel
// lets it deliver its result and get collected whenever the underlying
// network call eventually returns.
func (s *Service) invoke(ctx context.Context, messages []llm.Message) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan completionResult, 1)
	go func() {
		text, err := s.provider.Complete(cctx, messages)
		ch <- completionResult{text: text, err: err}
	}()

	select {
	case res := <-ch:
		// The SDK may surface the expired context as its own error; that is
		// still a timeout, not an upstream failure.
		if res.err != nil && cctx.Err() != nil {
			return "", errTimeout
		}
		return res.text, res.err
	case <-cctx.Done():
		return "", errTimeout
	}
}
