package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"agripivot_backend/internal/feature/prices/domain/entity"
)

// mockPriceWriter is a mock implementation of the PriceWriter interface.
type mockPriceWriter struct {
	InsertBatchFunc func(ctx context.Context, obs []entity.PriceObservation) error
	Inserted        [][]entity.PriceObservation
}

func (m *mockPriceWriter) InsertBatch(ctx context.Context, obs []entity.PriceObservation) error {
	m.Inserted = append(m.Inserted, obs)
	if m.InsertBatchFunc != nil {
		return m.InsertBatchFunc(ctx, obs)
	}
	return nil
}

// writeCSV drops a temp file with the given content and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}

func TestSeedUsecase_SeedFromCSV(t *testing.T) {
	tests := []struct {
		name         string
		csv          string
		wantInserted int
		wantMissing  int
		wantBadPrice int
		wantRows     []entity.PriceObservation
	}{
		{
			name: "sample-style headers",
			csv: "Price Date,Modal Price,Market,Commodity,State\n" +
				"2023-03-14,1250.50,Lasalgaon,Onion,Maharashtra\n" +
				"2023-03-15,1300,Lasalgaon,Onion,Maharashtra\n",
			wantInserted: 2,
			wantRows: []entity.PriceObservation{
				{Date: "2023-03-14", Market: "Lasalgaon", Commodity: "Onion", Price: 1250.50},
				{Date: "2023-03-15", Market: "Lasalgaon", Commodity: "Onion", Price: 1300},
			},
		},
		{
			name: "lowercase headers with padded names",
			csv: " date , price ,mandi,commodity\n" +
				"2023-01-02,900,Pimpalgaon,Onion\n",
			wantInserted: 1,
			wantRows: []entity.PriceObservation{
				{Date: "2023-01-02", Market: "Pimpalgaon", Commodity: "Onion", Price: 900},
			},
		},
		{
			name: "dd-mm-yyyy and dd/mm/yyyy dates are normalized",
			csv: "Date,Price,Market,Commodity\n" +
				"15-03-2023,1000,Azadpur,Onion\n" +
				"16/03/2023,1010,Azadpur,Onion\n",
			wantInserted: 2,
			wantRows: []entity.PriceObservation{
				{Date: "2023-03-15", Market: "Azadpur", Commodity: "Onion", Price: 1000},
				{Date: "2023-03-16", Market: "Azadpur", Commodity: "Onion", Price: 1010},
			},
		},
		{
			name: "unknown date format stored raw",
			csv: "Date,Price,Commodity\n" +
				"March 15 2023,1000,Onion\n",
			wantInserted: 1,
			wantRows: []entity.PriceObservation{
				{Date: "March 15 2023", Commodity: "Onion", Price: 1000},
			},
		},
		{
			name: "non-numeric price dropped, rest kept",
			csv: "Date,Price,Market,Commodity\n" +
				"2023-03-14,1250,Lasalgaon,Onion\n" +
				"2023-03-15,N/A,Lasalgaon,Onion\n" +
				"2023-03-16,1280,Lasalgaon,Onion\n",
			wantInserted: 2,
			wantBadPrice: 1,
		},
		{
			name: "rows missing required fields dropped",
			csv: "Date,Price,Market,Commodity\n" +
				",1250,Lasalgaon,Onion\n" +
				"2023-03-15,,Lasalgaon,Onion\n" +
				"2023-03-16,1280,Lasalgaon,\n" +
				"2023-03-17,1300,,Onion\n",
			wantInserted: 1, // missing market is fine, everything else is not
			wantMissing:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &mockPriceWriter{}
			uc := NewSeedUsecase(writer)

			report, err := uc.SeedFromCSV(context.Background(), writeCSV(t, tt.csv))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if report.Inserted != tt.wantInserted {
				t.Errorf("inserted = %d, want %d", report.Inserted, tt.wantInserted)
			}
			if report.SkippedMissing != tt.wantMissing {
				t.Errorf("skipped missing = %d, want %d", report.SkippedMissing, tt.wantMissing)
			}
			if report.SkippedBadPrice != tt.wantBadPrice {
				t.Errorf("skipped bad price = %d, want %d", report.SkippedBadPrice, tt.wantBadPrice)
			}

			if tt.wantRows != nil {
				if len(writer.Inserted) != 1 {
					t.Fatalf("expected one batch write, got %d", len(writer.Inserted))
				}
				got := writer.Inserted[0]
				if len(got) != len(tt.wantRows) {
					t.Fatalf("batch size = %d, want %d", len(got), len(tt.wantRows))
				}
				for i, want := range tt.wantRows {
					if got[i] != want {
						t.Errorf("row %d = %+v, want %+v", i, got[i], want)
					}
				}
			}
		})
	}
}

// TestSeedUsecase_SeedFromCSV_NothingToInsert verifies the silent no-op when
// no row validates: no write, no error.
func TestSeedUsecase_SeedFromCSV_NothingToInsert(t *testing.T) {
	writer := &mockPriceWriter{}
	uc := NewSeedUsecase(writer)

	report, err := uc.SeedFromCSV(context.Background(),
		writeCSV(t, "Date,Price,Commodity\n,,\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Inserted != 0 {
		t.Errorf("inserted = %d, want 0", report.Inserted)
	}
	if len(writer.Inserted) != 0 {
		t.Errorf("InsertBatch called %d times on empty batch", len(writer.Inserted))
	}
}

// TestSeedUsecase_SeedFromCSV_WriteError surfaces store failures as errors.
func TestSeedUsecase_SeedFromCSV_WriteError(t *testing.T) {
	wantErr := errors.New("disk full")
	writer := &mockPriceWriter{
		InsertBatchFunc: func(ctx context.Context, obs []entity.PriceObservation) error {
			return wantErr
		},
	}
	uc := NewSeedUsecase(writer)

	_, err := uc.SeedFromCSV(context.Background(),
		writeCSV(t, "Date,Price,Commodity\n2023-03-14,1250,Onion\n"))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestSeedUsecase_SeedFromCSV_MissingFile(t *testing.T) {
	uc := NewSeedUsecase(&mockPriceWriter{})

	if _, err := uc.SeedFromCSV(context.Background(), filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestPickDataFile(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "primary.csv")
	sample := filepath.Join(dir, "sample.csv")

	if _, ok := PickDataFile(primary, sample); ok {
		t.Error("expected no data source when neither file exists")
	}

	if err := os.WriteFile(sample, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if path, ok := PickDataFile(primary, sample); !ok || path != sample {
		t.Errorf("expected sample fallback, got %q ok=%v", path, ok)
	}

	if err := os.WriteFile(primary, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if path, ok := PickDataFile(primary, sample); !ok || path != primary {
		t.Errorf("expected primary preferred, got %q ok=%v", path, ok)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023-03-15", "2023-03-15"},
		{"15-03-2023", "2023-03-15"},
		{"15/03/2023", "2023-03-15"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := normalizeDate(tt.in); got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
