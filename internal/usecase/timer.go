package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/pkg/metrics"
)

// PanicError is returned by Timer.Time when the timed function panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Timer wraps a stage of the workflow with Started/Completed/Failed log entries and a duration histogram.
type Timer struct {
	ops *OperationLogger
	now func() time.Time
}

func NewTimer(ops *OperationLogger) *Timer {
	metrics.Init()
	return &Timer{ops: ops, now: time.Now}
}

// Time runs fn and returns its error unchanged. A panic in fn is returned as *PanicError.
func (t *Timer) Time(ctx context.Context, url, extractionID, category string, fn func(ctx context.Context) error) (err error) {
	t.ops.Log(ctx, url, extractionID, category, entity.EventStarted, category+" started")
	start := t.now()

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		elapsed := t.now().Sub(start)
		if err != nil {
			metrics.OperationDuration.WithLabelValues(category, "failure").Observe(elapsed.Seconds())
			t.ops.LogTimed(ctx, url, extractionID, category, entity.EventFailed,
				fmt.Sprintf("%s failed: %v", category, err), elapsed)
			return
		}
		metrics.OperationDuration.WithLabelValues(category, "success").Observe(elapsed.Seconds())
		t.ops.LogTimed(ctx, url, extractionID, category, entity.EventCompleted, category+" completed", elapsed)
	}()

	return fn(ctx)
}
