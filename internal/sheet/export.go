package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/amishk599/synergy/internal/model"
)

const (
	ExportFileName = "personalized_emails.xlsx"
	ExportMIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	ColumnPersonalizedSection = "Personalized Section"

	exportSheet = "Sheet1"
)

// Export renders rows as an XLSX workbook with a header row followed by one
// row per result, in order.
func Export(rows []model.ResultRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(exportSheet, "A1", &[]any{ColumnCompanyName, ColumnPersonalizedSection}); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "B1", bold); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, axis, &[]any{row.CompanyName, row.PersonalizedSection}); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", "B", 80); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}
