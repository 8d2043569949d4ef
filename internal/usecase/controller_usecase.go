package usecase

import (
	"context"

	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
)

const defaultLogLimit = 200

// Controller exposes progress records, the status table and the operation log
// to callers that did not start the extraction themselves.
type Controller interface {
	GetProgress(ctx context.Context, extractionID string) (*entity.ExtractionState, error)
	Pause(ctx context.Context, extractionID string) error
	Resume(ctx context.Context, extractionID string) error
	Stop(ctx context.Context, extractionID string) error
	GetStatus(ctx context.Context, url string) (*entity.ExtractionStatus, error)
	GetData(ctx context.Context, url string) (*entity.ExtractedData, error)
	ListLogs(ctx context.Context, extractionID string, limit int) ([]*entity.OperationLog, error)
}

type controllerUseCase struct {
	states     repository.StateStore
	statusRepo repository.StatusRepository
	dataRepo   repository.ExtractedDataRepository
	logRepo    repository.OperationLogRepository
}

// NewController creates a Controller. logRepo may be nil, in which case ListLogs returns nothing.
func NewController(
	states repository.StateStore,
	statusRepo repository.StatusRepository,
	dataRepo repository.ExtractedDataRepository,
	logRepo repository.OperationLogRepository,
) Controller {
	return &controllerUseCase{
		states:     states,
		statusRepo: statusRepo,
		dataRepo:   dataRepo,
		logRepo:    logRepo,
	}
}

func (uc *controllerUseCase) GetProgress(ctx context.Context, extractionID string) (*entity.ExtractionState, error) {
	return uc.states.Get(ctx, extractionID)
}

// Pause only flags the record; the running attempt does not consult it.
func (uc *controllerUseCase) Pause(ctx context.Context, extractionID string) error {
	return uc.states.SetPaused(ctx, extractionID, true)
}

func (uc *controllerUseCase) Resume(ctx context.Context, extractionID string) error {
	return uc.states.SetPaused(ctx, extractionID, false)
}

func (uc *controllerUseCase) Stop(ctx context.Context, extractionID string) error {
	return uc.states.SetStopped(ctx, extractionID, true)
}

func (uc *controllerUseCase) GetStatus(ctx context.Context, url string) (*entity.ExtractionStatus, error) {
	return uc.statusRepo.FindByURL(ctx, url)
}

func (uc *controllerUseCase) GetData(ctx context.Context, url string) (*entity.ExtractedData, error) {
	return uc.dataRepo.FindByURL(ctx, url)
}

func (uc *controllerUseCase) ListLogs(ctx context.Context, extractionID string, limit int) ([]*entity.OperationLog, error) {
	if uc.logRepo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > defaultLogLimit {
		limit = defaultLogLimit
	}
	return uc.logRepo.ListByExtraction(ctx, extractionID, limit)
}
