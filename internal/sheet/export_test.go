package sheet

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/amishk599/synergy/internal/model"
)

func readBack(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return rows
}

func TestExport_RoundTrip(t *testing.T) {
	data, err := Export([]model.ResultRow{{CompanyName: "Acme", PersonalizedSection: "text"}})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := [][]string{
		{"Company Name", "Personalized Section"},
		{"Acme", "text"},
	}
	if diff := cmp.Diff(want, readBack(t, data)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_PreservesOrderAndDuplicates(t *testing.T) {
	rows := []model.ResultRow{
		{CompanyName: "Beta", PersonalizedSection: "b"},
		{CompanyName: "Acme", PersonalizedSection: "a"},
		{CompanyName: "Beta", PersonalizedSection: "b"},
	}

	data, err := Export(rows)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	got := readBack(t, data)
	if len(got) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(got))
	}
	for i, row := range rows {
		if got[i+1][0] != row.CompanyName || got[i+1][1] != row.PersonalizedSection {
			t.Errorf("row %d = %v, want %v", i+1, got[i+1], row)
		}
	}
}

func TestExport_EmptyHasHeaderOnly(t *testing.T) {
	data, err := Export(nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := readBack(t, data); len(got) != 1 {
		t.Errorf("got %d rows, want header only", len(got))
	}
}

func TestExport_ReadableAsCompanies(t *testing.T) {
	data, err := Export([]model.ResultRow{{CompanyName: "Acme", PersonalizedSection: "text"}})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// The export has no Description column, so it is not a valid company file.
	if _, err := ReadCompanies(bytes.NewReader(data), ExportFileName); err == nil {
		t.Error("expected missing column error")
	}
}
