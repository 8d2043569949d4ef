package chromedp_extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
	"go.uber.org/zap"
)

// CompanyExtractor renders a page and pulls company and product data out of it.
type CompanyExtractor struct {
	loader PageLoader
	robots *RobotsChecker
	logger *zap.Logger
	now    func() time.Time
}

// NewCompanyExtractor creates the extractor. robots may be nil to skip robots.txt checks.
func NewCompanyExtractor(loader PageLoader, robots *RobotsChecker, logger *zap.Logger) *CompanyExtractor {
	return &CompanyExtractor{
		loader: loader,
		robots: robots,
		logger: logger,
		now:    time.Now,
	}
}

// Extract implements repository.ExtractorRepository.
func (e *CompanyExtractor) Extract(ctx context.Context, url, extractionID string) (*entity.ExtractedData, error) {
	log := e.logger.With(zap.String("url", url), zap.String("extraction_id", extractionID))

	if e.robots != nil {
		allowed, err := e.robots.Allowed(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", repository.ErrRobotsDisallowed, url)
		}
	}

	page, err := e.loader.Load(ctx, url)
	if err != nil {
		return nil, err
	}

	data, err := ParseCompanyData(url, page.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrExtractionFailed, err)
	}
	data.HTTPStatusCode = page.StatusCode
	data.ResponseTimeMS = int(page.ResponseTime.Milliseconds())
	data.ExtractedAt = e.now().UTC()

	log.Info("extracted company data",
		zap.String("company", data.CompanyName),
		zap.Int("products", len(data.Products)),
		zap.Int("emails", len(data.Emails)),
		zap.Int("status", page.StatusCode),
	)
	return data, nil
}
