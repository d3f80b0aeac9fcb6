package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/transfer_reconciler/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// snapshotMu serializes load-modify-save cycles on the transaction snapshot.
	// Services that write the snapshot share one mutex.
	snapshotMu *sync.Mutex
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// lockSnapshot acquires the snapshot write lock and returns its release function.
func (s *BaseService) lockSnapshot() func() {
	if s.snapshotMu == nil {
		s.snapshotMu = &sync.Mutex{}
	}
	s.snapshotMu.Lock()
	return s.snapshotMu.Unlock
}
