package usecase

import (
	"context"
	"time"

	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
	"go.uber.org/zap"
)

// OperationLogger writes extraction log entries to the structured logger and,
// when a repository is configured, to the persistent operation log.
type OperationLogger struct {
	repo   repository.OperationLogRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewOperationLogger creates an OperationLogger. repo may be nil.
func NewOperationLogger(repo repository.OperationLogRepository, logger *zap.Logger) *OperationLogger {
	return &OperationLogger{repo: repo, logger: logger, now: time.Now}
}

// Log records an event without timing information.
func (l *OperationLogger) Log(ctx context.Context, url, extractionID, category, event, message string) {
	l.write(ctx, &entity.OperationLog{
		URL:          url,
		ExtractionID: extractionID,
		Category:     category,
		Event:        event,
		Message:      message,
	})
}

// LogTimed records an event together with how long the operation took.
func (l *OperationLogger) LogTimed(ctx context.Context, url, extractionID, category, event, message string, d time.Duration) {
	ms := d.Milliseconds()
	l.write(ctx, &entity.OperationLog{
		URL:          url,
		ExtractionID: extractionID,
		Category:     category,
		Event:        event,
		Message:      message,
		DurationMS:   &ms,
	})
}

// LogError records a failure under an error category.
func (l *OperationLogger) LogError(ctx context.Context, url, extractionID, category, message, stack string) {
	l.write(ctx, &entity.OperationLog{
		URL:          url,
		ExtractionID: extractionID,
		Category:     category,
		Event:        entity.EventError,
		Message:      message,
		Stack:        stack,
	})
}

func (l *OperationLogger) write(ctx context.Context, entry *entity.OperationLog) {
	entry.CreatedAt = l.now().UTC()

	fields := []zap.Field{
		zap.String("url", entry.URL),
		zap.String("extraction_id", entry.ExtractionID),
		zap.String("category", entry.Category),
		zap.String("event", entry.Event),
	}
	if entry.DurationMS != nil {
		fields = append(fields, zap.Int64("duration_ms", *entry.DurationMS))
	}
	switch entry.Event {
	case entity.EventError:
		if entry.Stack != "" {
			fields = append(fields, zap.String("stack", entry.Stack))
		}
		l.logger.Error(entry.Message, fields...)
	case entity.EventFailed:
		l.logger.Warn(entry.Message, fields...)
	default:
		l.logger.Info(entry.Message, fields...)
	}

	if l.repo == nil {
		return
	}
	// The log sink must never fail an extraction.
	if err := l.repo.Append(context.WithoutCancel(ctx), entry); err != nil {
		l.logger.Warn("failed to persist operation log", zap.String("extraction_id", entry.ExtractionID), zap.Error(err))
	}
}
