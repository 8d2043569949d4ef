package chromedp_extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/user/extraction-service/internal/repository"
	"go.uber.org/zap"
)

type stubLoader struct {
	page  *Page
	err   error
	calls int
}

func (s *stubLoader) Load(_ context.Context, url string) (*Page, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p := *s.page
	p.URL = url
	return &p, nil
}

func TestCompanyExtractor_Extract(t *testing.T) {
	loader := &stubLoader{page: &Page{HTML: jsonLDPage, StatusCode: 200, ResponseTime: 420 * time.Millisecond}}
	e := NewCompanyExtractor(loader, nil, zap.NewNop())
	fixed := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	data, err := e.Extract(context.Background(), "https://acme.example.com/about", "ext-1")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if data.CompanyName != "Acme Corporation" {
		t.Errorf("company: got %q", data.CompanyName)
	}
	if data.HTTPStatusCode != 200 || data.ResponseTimeMS != 420 {
		t.Errorf("status/timing: %d %d", data.HTTPStatusCode, data.ResponseTimeMS)
	}
	if !data.ExtractedAt.Equal(fixed) {
		t.Errorf("extracted at: got %v", data.ExtractedAt)
	}
}

func TestCompanyExtractor_LoaderError(t *testing.T) {
	loader := &stubLoader{err: repository.ErrPageTimeout}
	e := NewCompanyExtractor(loader, nil, zap.NewNop())

	_, err := e.Extract(context.Background(), "https://acme.example.com", "")
	if !errors.Is(err, repository.ErrPageTimeout) {
		t.Fatalf("got %v", err)
	}
}

func TestCompanyExtractor_RobotsDisallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /\n"))
	}))
	defer srv.Close()

	loader := &stubLoader{page: &Page{HTML: jsonLDPage}}
	robots := NewRobotsChecker(srv.Client(), "CompanyBot", zap.NewNop())
	e := NewCompanyExtractor(loader, robots, zap.NewNop())

	_, err := e.Extract(context.Background(), srv.URL+"/about", "")
	if !errors.Is(err, repository.ErrRobotsDisallowed) {
		t.Fatalf("got %v", err)
	}
	if loader.calls != 0 {
		t.Error("page loaded despite robots.txt")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{0, nil},
		{200, nil},
		{301, nil},
		{401, repository.ErrContentRestricted},
		{403, repository.ErrContentRestricted},
		{404, repository.ErrNavigationFailed},
		{503, repository.ErrNavigationFailed},
	}
	for _, tt := range tests {
		if err := checkStatus(tt.code); !errors.Is(err, tt.want) {
			t.Errorf("checkStatus(%d) = %v, want %v", tt.code, err, tt.want)
		}
	}
}
