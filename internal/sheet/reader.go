// Package sheet reads company tables and writes the personalized export.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/amishk599/synergy/internal/model"
)

// Column headers expected in a company file.
const (
	ColumnCompanyName = "Company Name"
	ColumnDescription = "Description"
)

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnsupportedFormat = errors.New("unsupported company file format")
	ErrInvalidText       = errors.New("firm description is not valid UTF-8")
)

// ReadCompanies parses a .csv or .xlsx company table. The format is chosen by
// the extension of name. Only the first sheet of a workbook is read.
func ReadCompanies(r io.Reader, name string) ([]model.CompanyRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return toRecords(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func toRecords(rows [][]string) ([]model.CompanyRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q and %q (file is empty)", ErrMissingColumn, ColumnCompanyName, ColumnDescription)
	}

	header := rows[0]
	nameIdx, descIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case ColumnCompanyName:
			if nameIdx < 0 {
				nameIdx = i
			}
		case ColumnDescription:
			if descIdx < 0 {
				descIdx = i
			}
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnCompanyName)
	}
	if descIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColumnDescription)
	}

	var records []model.CompanyRecord
	for _, row := range rows[1:] {
		rec := model.CompanyRecord{
			Name:        cell(row, nameIdx),
			Description: cell(row, descIdx),
		}
		if rec.Name == "" && rec.Description == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// cell returns the trimmed value at i; excelize drops trailing empty cells.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadFirmDescription returns the whole content of r verbatim.
func ReadFirmDescription(r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("reading firm description: %w", err)
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", ErrInvalidText
	}
	return buf.String(), nil
}

// ReadCompaniesFile opens path and parses it with ReadCompanies.
func ReadCompaniesFile(path string) ([]model.CompanyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening company file: %w", err)
	}
	defer f.Close()
	return ReadCompanies(f, path)
}

// ReadFirmDescriptionFile reads the firm description at path. An empty path
// yields an empty description.
func ReadFirmDescriptionFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening firm description: %w", err)
	}
	defer f.Close()
	return ReadFirmDescription(f)
}
