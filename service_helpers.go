package groupkit

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"
)

// ============================================================================
// INTERNAL HELPERS / RETRY
// ============================================================================

// RequestJoinWithRetry is RequestJoin with automatic retry for transient
// store errors. Expected outcomes (including JoinAlreadyMember) are never
// retried; only infrastructure failures that look recoverable are.
func (s *Service) RequestJoinWithRetry(ctx context.Context, userID, groupID string) (JoinResult, error) {
	return s.requestJoinWithRetry(ctx, userID, groupID, 3)
}

func (s *Service) requestJoinWithRetry(ctx context.Context, userID, groupID string, maxAttempts int) (JoinResult, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := s.RequestJoin(ctx, userID, groupID)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !isTransientError(err) {
			return "", err
		}
		if attempt == maxAttempts-1 {
			break
		}

		// Exponential backoff with jitter
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		jitter := time.Duration(float64(backoff) * 0.1 * (0.5 + rand.Float64()))
		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", lastErr
}

// GetTransactionMetrics returns the current transaction performance metrics.
func (s *Service) GetTransactionMetrics() TransactionMetrics {
	return s.txMonitor.getMetrics()
}

// ResetTransactionMetrics resets all transaction metrics.
func (s *Service) ResetTransactionMetrics() {
	s.txMonitor.reset()
}

// IsTransactionHealthy checks if transaction performance is within acceptable
// thresholds.
func (s *Service) IsTransactionHealthy() bool {
	metrics := s.txMonitor.getMetrics()

	// Too few samples to judge
	if metrics.TotalTransactions < 10 {
		return true
	}

	failureRate := float64(metrics.FailedTransactions) / float64(metrics.TotalTransactions)
	if failureRate > 0.05 {
		return false
	}

	if metrics.AverageDuration > time.Second {
		return false
	}

	return true
}

// isTransientError checks if an error is transient and can be retried.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	// Never retry contract violations or expected outcomes.
	if IsNotFound(err) || IsUnauthorized(err) || IsInvalidResource(err) {
		return false
	}

	msg := strings.ToLower(err.Error())
	transient := []string{
		"connection",
		"timeout",
		"deadlock",
		"lock wait timeout",
		"connection refused",
		"connection reset",
		"broken pipe",
		"temporary failure",
		"try again",
		"resource temporarily unavailable",
	}
	for _, t := range transient {
		if strings.Contains(msg, t) {
			return true
		}
	}
	return false
}
