package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
	"github.com/user/extraction-service/pkg/metrics"
	"github.com/user/extraction-service/pkg/utils"
	"go.uber.org/zap"
)

// Failure messages returned to callers.
const (
	msgInvalidURL = "Invalid URL format"
	msgNoData     = "Failed to extract data from URL"
)

// Extractor runs one extraction attempt end to end.
type Extractor interface {
	ProcessURL(ctx context.Context, url, extractionID string) entity.Result
}

type extractionUseCase struct {
	extractor    repository.ExtractorRepository
	dataRepo     repository.ExtractedDataRepository
	statusRepo   repository.StatusRepository
	states       repository.StateStore
	ops          *OperationLogger
	timer        *Timer
	logger       *zap.Logger
	cleanupDelay time.Duration

	validate func(string) error
	now      func() time.Time
}

// NewExtractionUseCase creates the extraction orchestrator. cleanupDelay is how
// long a successful attempt keeps its progress record visible before deleting it.
func NewExtractionUseCase(
	extractor repository.ExtractorRepository,
	dataRepo repository.ExtractedDataRepository,
	statusRepo repository.StatusRepository,
	states repository.StateStore,
	ops *OperationLogger,
	logger *zap.Logger,
	cleanupDelay time.Duration,
) Extractor {
	metrics.Init()
	return &extractionUseCase{
		extractor:    extractor,
		dataRepo:     dataRepo,
		statusRepo:   statusRepo,
		states:       states,
		ops:          ops,
		timer:        NewTimer(ops),
		logger:       logger,
		cleanupDelay: cleanupDelay,
		validate:     utils.ValidateURL,
		now:          time.Now,
	}
}

// ProcessURL validates the URL, extracts and stores its data, and keeps the
// status table and progress record in step. The progress record is removed on
// every return path.
func (uc *extractionUseCase) ProcessURL(ctx context.Context, url, extractionID string) (result entity.Result) {
	start := uc.now()
	log := uc.logger.With(zap.String("url", url), zap.String("extraction_id", extractionID))

	metrics.ExtractionsInProgress.Inc()
	defer metrics.ExtractionsInProgress.Dec()

	defer uc.cleanup(ctx, log, extractionID, &result)
	defer func() {
		if r := recover(); r != nil {
			result = uc.fail(ctx, url, extractionID, fmt.Errorf("%v", r), string(debug.Stack()))
		}
	}()

	if extractionID != "" {
		err := uc.states.Create(ctx, &entity.ExtractionState{
			ExtractionID: extractionID,
			URL:          url,
			StartTime:    start.UTC(),
			Progress:     0,
			Stage:        entity.StageInitializing,
		})
		if err != nil {
			log.Warn("failed to create extraction state", zap.Error(err))
		}
	}

	uc.ops.Log(ctx, url, extractionID, entity.CategoryExtraction, entity.EventStarted, "Beginning extraction process")
	uc.progress(ctx, log, extractionID, 5, entity.StageValidatingURL)

	if err := uc.validate(url); err != nil {
		uc.ops.LogError(ctx, url, extractionID, entity.CategoryValidationError, msgInvalidURL, "")
		metrics.ExtractionsTotal.WithLabelValues("failure", "validation").Inc()
		return entity.Result{Success: false, Error: msgInvalidURL}
	}

	if err := uc.statusRepo.InitializeEntry(ctx, url); err != nil {
		return uc.fail(ctx, url, extractionID, fmt.Errorf("initialize status entry: %w", err), "")
	}
	if err := uc.statusRepo.UpdateStatus(ctx, url, entity.StatusInProgress); err != nil {
		return uc.fail(ctx, url, extractionID, fmt.Errorf("update status: %w", err), "")
	}

	uc.progress(ctx, log, extractionID, 10, entity.StageStartingExtraction)

	var data *entity.ExtractedData
	extractErr := uc.timer.Time(ctx, url, extractionID, entity.CategoryDataExtraction, func(ctx context.Context) error {
		var err error
		data, err = uc.extractor.Extract(ctx, url, extractionID)
		return err
	})
	if extractErr != nil {
		uc.ops.LogError(ctx, url, extractionID, entity.CategoryExtractionError, extractErr.Error(), stackOf(extractErr))
		if err := uc.statusRepo.UpdateStatus(ctx, url, entity.StatusFailed); err != nil {
			return uc.fail(ctx, url, extractionID, fmt.Errorf("update status: %w", err), "")
		}
		msg := "Extraction failed: " + extractErr.Error()
		uc.ops.LogTimed(ctx, url, extractionID, entity.CategoryExtraction, entity.EventFailed, msg, uc.now().Sub(start))
		metrics.ExtractionsTotal.WithLabelValues("failure", classifyError(extractErr)).Inc()
		return entity.Result{Success: false, Error: msg}
	}

	if data.IsEmpty() {
		if err := uc.statusRepo.UpdateStatus(ctx, url, entity.StatusFailed); err != nil {
			return uc.fail(ctx, url, extractionID, fmt.Errorf("update status: %w", err), "")
		}
		uc.ops.Log(ctx, url, extractionID, entity.CategoryExtraction, entity.EventFailed, "No data extracted")
		metrics.ExtractionsTotal.WithLabelValues("failure", "empty").Inc()
		return entity.Result{Success: false, Error: msgNoData}
	}

	storeErr := uc.timer.Time(ctx, url, extractionID, entity.CategoryDataStorage, func(ctx context.Context) error {
		return uc.dataRepo.Save(ctx, data)
	})
	if storeErr != nil {
		// Storage is best effort: the caller still gets the extracted data.
		uc.ops.LogError(ctx, url, extractionID, entity.CategoryStorageError, storeErr.Error(), stackOf(storeErr))
		metrics.StorageErrorsTotal.Inc()
	}

	if err := uc.statusRepo.UpdateStatus(ctx, url, entity.StatusCompleted); err != nil {
		return uc.fail(ctx, url, extractionID, fmt.Errorf("update status: %w", err), "")
	}
	uc.progress(ctx, log, extractionID, 100, entity.StageCompleted)

	total := uc.now().Sub(start)
	uc.ops.LogTimed(ctx, url, extractionID, entity.CategoryExtraction, entity.EventCompleted, "Extraction completed successfully", total)
	metrics.ExtractionsTotal.WithLabelValues("success", "").Inc()
	metrics.ExtractionDuration.WithLabelValues(utils.Domain(url)).Observe(total.Seconds())

	return entity.Result{Success: true, Data: data}
}

// fail is the catch-all path: log, mark the URL Failed if possible, report failure.
func (uc *extractionUseCase) fail(ctx context.Context, url, extractionID string, err error, stack string) entity.Result {
	msg := "Error processing URL: " + err.Error()
	uc.ops.LogError(ctx, url, extractionID, entity.CategoryProcessingError, msg, stack)
	metrics.ExtractionsTotal.WithLabelValues("failure", "processing").Inc()

	func() {
		defer func() { _ = recover() }()
		_ = uc.statusRepo.UpdateStatus(context.WithoutCancel(ctx), url, entity.StatusFailed)
	}()

	return entity.Result{Success: false, Error: msg}
}

func (uc *extractionUseCase) progress(ctx context.Context, log *zap.Logger, extractionID string, pct int, stage string) {
	if extractionID == "" {
		return
	}
	if err := uc.states.UpdateProgress(ctx, extractionID, pct, stage); err != nil {
		log.Warn("failed to update extraction progress", zap.Int("progress", pct), zap.String("stage", stage), zap.Error(err))
	}
}

// cleanup removes the progress record. Successful attempts keep it for
// cleanupDelay so pollers can observe the final 100%.
func (uc *extractionUseCase) cleanup(ctx context.Context, log *zap.Logger, extractionID string, result *entity.Result) {
	if extractionID == "" {
		return
	}
	if result.Success {
		sleepContext(ctx, uc.cleanupDelay)
	}
	if err := uc.states.Delete(context.WithoutCancel(ctx), extractionID); err != nil {
		log.Warn("failed to delete extraction state", zap.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func stackOf(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return ""
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, repository.ErrPageTimeout):
		return "timeout"
	case errors.Is(err, repository.ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, repository.ErrContentRestricted):
		return "restricted"
	case errors.Is(err, repository.ErrRobotsDisallowed):
		return "robots"
	case errors.Is(err, repository.ErrExtractionFailed):
		return "extraction"
	default:
		var pe *PanicError
		if errors.As(err, &pe) {
			return "panic"
		}
		return "unknown"
	}
}
