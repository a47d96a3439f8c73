package sheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/amishk599/synergy/internal/model"
)

func TestReadCompanies_CSV(t *testing.T) {
	input := "Company Name,Website,Description\n" +
		"Acme,acme.io,Rockets for small satellites\n" +
		",,\n" +
		"\"Beta, Inc\",beta.dev,\"Payroll APIs\"\n"

	got, err := ReadCompanies(strings.NewReader(input), "companies.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.CompanyRecord{
		{Name: "Acme", Description: "Rockets for small satellites"},
		{Name: "Beta, Inc", Description: "Payroll APIs"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCompanies_CSVWithBOM(t *testing.T) {
	input := "\ufeffCompany Name,Description\nAcme,Rockets\n"

	got, err := ReadCompanies(strings.NewReader(input), "COMPANIES.CSV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Acme" {
		t.Errorf("got %v", got)
	}
}

func TestReadCompanies_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetRow("Sheet1", "A1", &[]any{"Description", "Company Name"})
	f.SetSheetRow("Sheet1", "A2", &[]any{"Rockets", "Acme"})
	f.SetSheetRow("Sheet1", "A3", &[]any{"Payroll", "Beta"})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("building workbook: %v", err)
	}

	got, err := ReadCompanies(buf, "companies.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.CompanyRecord{
		{Name: "Acme", Description: "Rockets"},
		{Name: "Beta", Description: "Payroll"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCompanies_MissingColumn(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no description", "Company Name,Website\nAcme,acme.io\n"},
		{"no name", "Name,Description\nAcme,Rockets\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCompanies(strings.NewReader(tt.input), "c.csv")
			if !errors.Is(err, ErrMissingColumn) {
				t.Errorf("expected ErrMissingColumn, got %v", err)
			}
		})
	}
}

func TestReadCompanies_UnsupportedFormat(t *testing.T) {
	_, err := ReadCompanies(strings.NewReader("x"), "companies.json")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadCompanies_DoesNotLimitRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("Company Name,Description\n")
	for i := 0; i < 30; i++ {
		b.WriteString("Co,desc\n")
	}

	got, err := ReadCompanies(strings.NewReader(b.String()), "c.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 30 {
		t.Errorf("got %d records, want 30", len(got))
	}
}

func TestReadFirmDescription(t *testing.T) {
	text := "  We back climate founders.\nSeed to Series A.\n"

	got, err := ReadFirmDescription(strings.NewReader(text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Errorf("got %q, want verbatim %q", got, text)
	}
}

func TestReadFirmDescription_InvalidUTF8(t *testing.T) {
	_, err := ReadFirmDescription(bytes.NewReader([]byte{0xff, 0xfe, 'a'}))
	if !errors.Is(err, ErrInvalidText) {
		t.Errorf("expected ErrInvalidText, got %v", err)
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	companies := filepath.Join(dir, "companies.csv")
	firm := filepath.Join(dir, "firm.txt")
	if err := os.WriteFile(companies, []byte("Company Name,Description\nAcme,Rockets\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(firm, []byte("Seed fund"), 0o644); err != nil {
		t.Fatal(err)
	}

	recs, err := ReadCompaniesFile(companies)
	if err != nil || len(recs) != 1 {
		t.Fatalf("ReadCompaniesFile = %v, %v", recs, err)
	}
	desc, err := ReadFirmDescriptionFile(firm)
	if err != nil || desc != "Seed fund" {
		t.Fatalf("ReadFirmDescriptionFile = %q, %v", desc, err)
	}
	desc, err = ReadFirmDescriptionFile("")
	if err != nil || desc != "" {
		t.Fatalf("empty path = %q, %v", desc, err)
	}
	if _, err := ReadCompaniesFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
