package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lokersync/lokersync/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { s.Disconnect() })
	return s
}

func testRow(sourceID, jobSource, title string) []string {
	r := model.Record{
		InternalID: "uuid-" + sourceID,
		SourceID:   sourceID,
		JobSource:  jobSource,
		Title:      title,
		SalaryMin:  1000000,
		SalaryMax:  2000000,
	}
	return r.Row(model.Headers())
}

func TestSQLiteStore_AppendThenExistingIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendRow(ctx, testRow("101", model.SourceLoker, "Staff Gudang")); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := s.AppendRow(ctx, testRow("x9", model.SourceGlints, "Designer")); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	ids, err := s.ExistingIDs(ctx)
	if err != nil {
		t.Fatalf("ExistingIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	if _, ok := ids[model.DedupKey(model.SourceLoker, "101")]; !ok {
		t.Error("missing Loker.id key")
	}
	if _, ok := ids[model.DedupKey(model.SourceGlints, "x9")]; !ok {
		t.Error("missing Glints key")
	}
}

func TestSQLiteStore_SameIDDifferentSourcesBothKept(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendRow(ctx, testRow("500", model.SourceLoker, "A")); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if err := s.AppendRow(ctx, testRow("500", model.SourceJobStreet, "B")); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	ids, err := s.ExistingIDs(ctx)
	if err != nil {
		t.Fatalf("ExistingIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %d ids, want 2 distinct keys", len(ids))
	}
}

func TestSQLiteStore_DuplicateAppendIgnored(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendRow(ctx, testRow("42", model.SourceLoker, "First")); err != nil {
		t.Fatalf("first AppendRow: %v", err)
	}
	if err := s.AppendRow(ctx, testRow("42", model.SourceLoker, "Second")); err != nil {
		t.Fatalf("duplicate AppendRow: %v", err)
	}

	records, err := s.ListRecords(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Title != "First" {
		t.Errorf("Title = %q, the first insert must win", records[0].Title)
	}
}

func TestSQLiteStore_ListRecordsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := model.Record{
		InternalID:  "uuid-7",
		SourceID:    "7",
		JobSource:   model.SourceJobStreet,
		Link:        "https://id.jobstreet.com/id/job/7",
		CompanyName: "PT Hitung",
		Title:       "Staff Akuntansi",
		Content:     "<p>Deskripsi</p>",
		Province:    "DKI Jakarta",
		City:        "Jakarta Barat",
		Experience:  "3-5 Tahun",
		JobType:     "Full time",
		Level:       "Mid Level",
		SalaryMin:   5000000,
		SalaryMax:   7000000,
		Education:   "S1",
		WorkPolicy:  "On-site Working",
		Gender:      "Perempuan",
		Tags:        "S1, Mid Level",
	}
	if err := s.AppendRow(ctx, want.Row(model.Headers())); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	records, err := s.ListRecords(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0] != want {
		t.Errorf("record = %+v, want %+v", records[0], want)
	}
}

func TestSQLiteStore_BadRowWidth(t *testing.T) {
	s := newTestStore(t)

	if err := s.AppendRow(context.Background(), []string{"too", "short"}); err == nil {
		t.Fatal("expected error for row with wrong width")
	}
}

func TestSQLiteStore_SalaryFallsBackToZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	row := testRow("9", model.SourceLoker, "Kurir")
	headers := model.Headers()
	for i, col := range headers {
		if col == "salary_min" || col == "salary_max" {
			row[i] = "Negosiasi"
		}
	}
	if err := s.AppendRow(ctx, row); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	records, err := s.ListRecords(ctx, 1)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if records[0].SalaryMin != 0 || records[0].SalaryMax != 0 {
		t.Errorf("salary = (%d, %d), want zeros", records[0].SalaryMin, records[0].SalaryMax)
	}
}
