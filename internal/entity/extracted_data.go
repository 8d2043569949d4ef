package entity

import "time"

// Product is a single product or service offered on a company page.
type Product struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Price       string `json:"price,omitempty" bson:"price,omitempty"`
	Currency    string `json:"currency,omitempty" bson:"currency,omitempty"`
	URL         string `json:"url,omitempty" bson:"url,omitempty"`
	Image       string `json:"image,omitempty" bson:"image,omitempty"`
}

// ExtractedData holds the company and product data extracted from one URL.
// Products are stored as JSONB in PostgreSQL.
type ExtractedData struct {
	ID             int64             `json:"id,omitempty" bson:"-"`
	URL            string            `json:"url" bson:"url"`
	Title          string            `json:"title,omitempty" bson:"title,omitempty"`
	CompanyName    string            `json:"company_name,omitempty" bson:"company_name,omitempty"`
	Description    string            `json:"description,omitempty" bson:"description,omitempty"`
	Website        string            `json:"website,omitempty" bson:"website,omitempty"`
	Logo           string            `json:"logo,omitempty" bson:"logo,omitempty"`
	Emails         []string          `json:"emails,omitempty" bson:"emails,omitempty"`
	Phones         []string          `json:"phones,omitempty" bson:"phones,omitempty"`
	SocialLinks    map[string]string `json:"social_links,omitempty" bson:"social_links,omitempty"`
	Products       []Product         `json:"products,omitempty" bson:"products,omitempty"`
	HTTPStatusCode int               `json:"http_status_code,omitempty" bson:"http_status_code,omitempty"`
	ResponseTimeMS int               `json:"response_time_ms,omitempty" bson:"response_time_ms,omitempty"`
	ExtractedAt    time.Time         `json:"extracted_at" bson:"extracted_at"`
}

// IsEmpty reports whether nothing useful was extracted.
func (d *ExtractedData) IsEmpty() bool {
	if d == nil {
		return true
	}
	return d.CompanyName == "" && d.Description == "" && len(d.Products) == 0
}
