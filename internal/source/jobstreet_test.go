package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lokersync/lokersync/internal/model"
)

const jobstreetDetailHTML = `<!DOCTYPE html>
<html><body>
<h1>Staff Akuntansi</h1>
<div>
<strong>Kualifikasi</strong>
<ul><li>Pendidikan minimal S1 Akuntansi</li><li>Pengalaman minimal 3 tahun</li><li>Wanita, maksimal 30 tahun</li></ul>
<strong>Benefit</strong>
<p>BPJS dan THR</p>
</div>
</body></html>`

func newJobStreetTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobsearch/v5/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("siteKey") != "ID" {
			t.Errorf("missing siteKey, query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{
				"id": 81512345,
				"title": "Staff Akuntansi",
				"employer": {"name": "PT Hitung"},
				"workTypes": ["Full time"],
				"locations": [{"seoHierarchy": [{"contextualName": "Jakarta Barat"}, {"contextualName": "DKI Jakarta"}]}]
			}],
			"solMetadata": {"totalJobCount": 45}
		}`))
	})
	mux.HandleFunc("/id/job/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(jobstreetDetailHTML))
	})
	return httptest.NewServer(mux)
}

func newTestJobStreetBoard(srv *httptest.Server) *JobStreetBoard {
	b := NewJobStreetBoard(Options{})
	b.client = &http.Client{Transport: redirectTransport(srv)}
	b.detail.WithTransport(redirectTransport(srv))
	return b
}

func TestJobStreetFetchPage(t *testing.T) {
	srv := newJobStreetTestServer(t)
	defer srv.Close()

	board := newTestJobStreetBoard(srv)

	postings, hasMore, err := board.FetchPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	if postings[0].ID != "81512345" {
		t.Errorf("posting ID = %q", postings[0].ID)
	}
	// 45 total jobs at 30 per page is two pages.
	if !hasMore {
		t.Error("expected hasMore on page 1 of 2")
	}

	_, hasMore, err = board.FetchPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasMore {
		t.Error("expected no more pages after page 2")
	}
}

func TestJobStreetRow_ScrapesDetail(t *testing.T) {
	srv := newJobStreetTestServer(t)
	defer srv.Close()

	board := newTestJobStreetBoard(srv)

	postings, _, err := board.FetchPage(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	headers := []string{"source_id", "education", "experience", "gender", "content", "province"}
	row, ok, err := board.Row(context.Background(), postings[0], headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected posting to be kept")
	}

	if row[0] != "81512345" {
		t.Errorf("source_id = %q", row[0])
	}
	if row[1] != "S1" {
		t.Errorf("education = %q, want S1 from page text", row[1])
	}
	if row[2] != "3-5 Tahun" {
		t.Errorf("experience = %q, want bucket for minimal 3 tahun", row[2])
	}
	if row[3] != "Perempuan" {
		t.Errorf("gender = %q, want Perempuan from page text", row[3])
	}
	if !strings.Contains(row[4], "<li>Pendidikan minimal S1 Akuntansi</li>") {
		t.Errorf("content = %q, want cleaned qualification list", row[4])
	}
	if !strings.Contains(row[4], "<p>BPJS dan THR</p>") {
		t.Errorf("content = %q, want benefit paragraph", row[4])
	}
	if row[5] != "DKI Jakarta" {
		t.Errorf("province = %q", row[5])
	}
}

func TestJobStreetFetchPage_EndOfPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	board := newTestJobStreetBoard(srv)

	postings, hasMore, err := board.FetchPage(context.Background(), 5)
	if err != nil {
		t.Fatalf("404 must end pagination without error, got %v", err)
	}
	if postings != nil || hasMore {
		t.Errorf("postings = %v, hasMore = %v, want nil and false", postings, hasMore)
	}
}

func TestJobStreetRow_WrongPayloadType(t *testing.T) {
	srv := newJobStreetTestServer(t)
	defer srv.Close()

	board := newTestJobStreetBoard(srv)

	_, _, err := board.Row(context.Background(), model.Posting{ID: "1", Payload: 42}, nil)
	if err == nil {
		t.Fatal("expected error for foreign payload")
	}
}
