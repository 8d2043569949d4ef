package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/extraction-service/internal/entity"
	"github.com/user/extraction-service/internal/repository"
)

// ExtractedDataRepoImpl provides a concrete implementation for the ExtractedDataRepository interface using PostgreSQL.
type ExtractedDataRepoImpl struct {
	db *pgxpool.Pool
}

// NewExtractedDataRepo creates a new instance of ExtractedDataRepoImpl.
func NewExtractedDataRepo(db *pgxpool.Pool) *ExtractedDataRepoImpl {
	return &ExtractedDataRepoImpl{db: db}
}

// Save stores or updates the extracted data for a URL in the database.
func (r *ExtractedDataRepoImpl) Save(ctx context.Context, data *entity.ExtractedData) error {
	socialJSON, productsJSON, err := encodeJSONColumns(data)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO extracted_data (url, title, company_name, description, website, logo, emails, phones,
			social_links, products, http_status_code, response_time_ms, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			company_name = EXCLUDED.company_name,
			description = EXCLUDED.description,
			website = EXCLUDED.website,
			logo = EXCLUDED.logo,
			emails = EXCLUDED.emails,
			phones = EXCLUDED.phones,
			social_links = EXCLUDED.social_links,
			products = EXCLUDED.products,
			http_status_code = EXCLUDED.http_status_code,
			response_time_ms = EXCLUDED.response_time_ms,
			extracted_at = EXCLUDED.extracted_at
		RETURNING id;
	`

	err = r.db.QueryRow(ctx, query,
		data.URL,
		data.Title,
		data.CompanyName,
		data.Description,
		data.Website,
		data.Logo,
		nonNil(data.Emails),
		nonNil(data.Phones),
		socialJSON,
		productsJSON,
		data.HTTPStatusCode,
		data.ResponseTimeMS,
		data.ExtractedAt,
	).Scan(&data.ID)
	if err != nil {
		return fmt.Errorf("save extracted data for %s: %w", data.URL, err)
	}
	return nil
}

// FindByURL retrieves the extracted data for a specific URL from the database.
func (r *ExtractedDataRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ExtractedData, error) {
	query := `
		SELECT id, url, title, company_name, description, website, logo, emails, phones,
			social_links, products, http_status_code, response_time_ms, extracted_at
		FROM extracted_data
		WHERE url = $1;
	`
	var data entity.ExtractedData
	var socialJSON, productsJSON []byte

	err := r.db.QueryRow(ctx, query, url).Scan(
		&data.ID,
		&data.URL,
		&data.Title,
		&data.CompanyName,
		&data.Description,
		&data.Website,
		&data.Logo,
		&data.Emails,
		&data.Phones,
		&socialJSON,
		&productsJSON,
		&data.HTTPStatusCode,
		&data.ResponseTimeMS,
		&data.ExtractedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find extracted data for %s: %w", url, err)
	}

	if err := decodeJSONColumns(&data, socialJSON, productsJSON); err != nil {
		return nil, err
	}
	return &data, nil
}

func encodeJSONColumns(data *entity.ExtractedData) ([]byte, []byte, error) {
	social := data.SocialLinks
	if social == nil {
		social = map[string]string{}
	}
	socialJSON, err := json.Marshal(social)
	if err != nil {
		return nil, nil, fmt.Errorf("encode social links: %w", err)
	}
	products := data.Products
	if products == nil {
		products = []entity.Product{}
	}
	productsJSON, err := json.Marshal(products)
	if err != nil {
		return nil, nil, fmt.Errorf("encode products: %w", err)
	}
	return socialJSON, productsJSON, nil
}

func decodeJSONColumns(data *entity.ExtractedData, socialJSON, productsJSON []byte) error {
	if len(socialJSON) > 0 {
		if err := json.Unmarshal(socialJSON, &data.SocialLinks); err != nil {
			return fmt.Errorf("decode social links: %w", err)
		}
	}
	if len(productsJSON) > 0 {
		if err := json.Unmarshal(productsJSON, &data.Products); err != nil {
			return fmt.Errorf("decode products: %w", err)
		}
	}
	return nil
}

// nonNil keeps NOT NULL text[] columns happy.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
