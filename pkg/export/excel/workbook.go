package excel

import (
	"bytes"
	"fmt"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary    = "Synthese"
	sheetValidation = "Validation"
	sheetDiffusion  = "Diffusion"
	sheetStays      = "Sejours"
)

// rateFills maps a rate class to its cell background color, matching the
// color code used on the paper indicator sheets.
var rateFills = map[domain.RateClass]string{
	domain.RateExcellent: "92D050",
	domain.RateGood:      "FFC000",
	domain.RateMedium:    "FF7F27",
	domain.RateLow:       "FF0000",
	domain.RateNone:      "C8C8C8",
}

type workbook struct {
	f          *excelize.File
	headStyle  int
	rateStyles map[domain.RateClass]int
}

// Render builds the four-sheet indicator workbook for a report and returns
// the xlsx bytes.
func Render(report *domain.Report) ([]byte, error) {
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer wb.f.Close()

	if err := wb.writeSummary(report); err != nil {
		return nil, err
	}
	if err := wb.writeValidation(report.Rows); err != nil {
		return nil, err
	}
	if err := wb.writeDiffusion(report.Rows); err != nil {
		return nil, err
	}
	if err := wb.writeStays(report.Stays); err != nil {
		return nil, err
	}

	wb.f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if _, err := wb.f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()

	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rateStyles := make(map[domain.RateClass]int, len(rateFills))
	for class, color := range rateFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create rate style: %w", err)
		}
		rateStyles[class] = style
	}

	return &workbook{f: f, headStyle: headStyle, rateStyles: rateStyles}, nil
}

func (wb *workbook) newSheet(name string, headers []string) error {
	if _, err := wb.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellValue(name, cell, header); err != nil {
			return err
		}
		if err := wb.f.SetCellStyle(name, cell, cell, wb.headStyle); err != nil {
			return err
		}
	}

	return wb.f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (wb *workbook) setCell(sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return wb.f.SetCellValue(sheet, cell, value)
}

// setRateCell writes a rate with its color class. Nil rates render as "N/A"
// on a grey background.
func (wb *workbook) setRateCell(sheet string, col, row int, rate *float64, class domain.RateClass) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if rate == nil {
		if err := wb.f.SetCellValue(sheet, cell, "N/A"); err != nil {
			return err
		}
	} else if err := wb.f.SetCellValue(sheet, cell, *rate); err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, cell, cell, wb.rateStyles[class])
}

func (wb *workbook) writeSummary(report *domain.Report) error {
	headers := []string{
		"Specialite", "Sejours", "Taux validation (%)", "Taux J0 (%)", "Taux diffusion (%)",
		"Ref. periode", "Ref. validation (%)", "Ref. J0 (%)", "Ref. diffusion (%)",
	}
	if err := wb.newSheet(sheetSummary, headers); err != nil {
		return err
	}

	for i, row := range report.Rows {
		r := i + 2
		if err := wb.setCell(sheetSummary, 1, r, row.Specialty); err != nil {
			return err
		}
		if err := wb.setCell(sheetSummary, 2, r, row.StayCount); err != nil {
			return err
		}
		if err := wb.setRateCell(sheetSummary, 3, r, row.ValidatedRate, row.ValidatedRateClass); err != nil {
			return err
		}
		if err := wb.setRateCell(sheetSummary, 4, r, row.J0Rate, row.J0RateClass); err != nil {
			return err
		}
		if err := wb.setRateCell(sheetSummary, 5, r, row.DiffusedRate, row.DiffusedRateClass); err != nil {
			return err
		}
		if ref := row.Historical; ref != nil {
			if err := wb.setCell(sheetSummary, 6, r, ref.Period); err != nil {
				return err
			}
			for col, v := range map[int]*float64{7: ref.ValidatedRate, 8: ref.J0Rate, 9: ref.DiffusedRate} {
				if v == nil {
					continue
				}
				if err := wb.setCell(sheetSummary, col, r, *v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (wb *workbook) writeValidation(rows []domain.SpecialtyIndicatorRow) error {
	headers := []string{
		"Specialite", "Sejours", "Valides", "Taux validation (%)",
		"Valides J0", "Taux J0 (%)", "Delai moyen (j)",
	}
	if err := wb.newSheet(sheetValidation, headers); err != nil {
		return err
	}

	for i, row := range rows {
		r := i + 2
		if err := wb.setCell(sheetValidation, 1, r, row.Specialty); err != nil {
			return err
		}
		if err := wb.setCell(sheetValidation, 2, r, row.StayCount); err != nil {
			return err
		}
		if err := wb.setCell(sheetValidation, 3, r, row.ValidatedCount); err != nil {
			return err
		}
		if err := wb.setRateCell(sheetValidation, 4, r, row.ValidatedRate, row.ValidatedRateClass); err != nil {
			return err
		}
		if err := wb.setCell(sheetValidation, 5, r, row.J0Count); err != nil {
			return err
		}
		if err := wb.setRateCell(sheetValidation, 6, r, row.J0Rate, row.J0RateClass); err != nil {
			return err
		}
		if row.MeanValidationDelay != nil {
			if err := wb.setCell(sheetValidation, 7, r, *row.MeanValidationDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (wb *workbook) writeDiffusion(rows []domain.SpecialtyIndicatorRow) error {
	headers := []string{
		"Specialite", "Eligibles diffusion", "Diffuses", "Taux diffusion (%)", "Delai moyen (j ouvres)",
	}
	if err := wb.newSheet(sheetDiffusion, headers); err != nil {
		return err
	}

	for i, row := range rows {
		r := i + 2
		if err := wb.setCell(sheetDiffusion, 1, r, row.Specialty); err != nil {
			return err
		}
		if err := wb.setCell(sheetDiffusion, 2, r, row.DiffusionDenominator); err != nil {
			return err
		}
		if err := wb.setCell(sheetDiffusion, 3, r, row.DiffusedCount); err != nil {
			return err
		}
		if err := wb.setRateCell(sheetDiffusion, 4, r, row.DiffusedRate, row.DiffusedRateClass); err != nil {
			return err
		}
		if row.MeanDiffusionDelay != nil {
			if err := wb.setCell(sheetDiffusion, 5, r, *row.MeanDiffusionDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (wb *workbook) writeStays(stays []domain.ReconciledStay) error {
	headers := []string{
		"Sejour", "Specialite", "Sortie", "Document",
		"Delai validation (j)", "Statut validation", "Delai diffusion (j ouvres)", "Statut diffusion",
	}
	if err := wb.newSheet(sheetStays, headers); err != nil {
		return err
	}

	for i, stay := range stays {
		r := i + 2
		if err := wb.setCell(sheetStays, 1, r, stay.StayID); err != nil {
			return err
		}
		if err := wb.setCell(sheetStays, 2, r, stay.Specialty); err != nil {
			return err
		}
		if err := wb.setCell(sheetStays, 3, r, stay.DischargeDate.Format("2006-01-02")); err != nil {
			return err
		}
		if err := wb.setCell(sheetStays, 4, r, stay.DocumentID); err != nil {
			return err
		}
		if stay.ValidationDelay != nil {
			if err := wb.setCell(sheetStays, 5, r, *stay.ValidationDelay); err != nil {
				return err
			}
		}
		if err := wb.setCell(sheetStays, 6, r, string(stay.Validation)); err != nil {
			return err
		}
		if stay.DiffusionDelay != nil {
			if err := wb.setCell(sheetStays, 7, r, *stay.DiffusionDelay); err != nil {
				return err
			}
		}
		if err := wb.setCell(sheetStays, 8, r, string(stay.Diffusion)); err != nil {
			return err
		}
	}
	return nil
}
