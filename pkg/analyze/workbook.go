package analyze

import (
	"fmt"

	"github.com/webunittest/swtest/pkg/swerr"
	"github.com/webunittest/swtest/pkg/testcase"
	"github.com/xuri/excelize/v2"
)

const (
	measuredTitle = "Measured"
	resultTitle   = "Result"
	passColor     = "#C6EFCE"
	failColor     = "#FFC7CE"
)

// Copies the test table workbook to dst with a Measured and a Result column
// appended. Result cells are filled green for Pass and red for Fail.
func WriteWorkbook(src, dst string, verdicts []Verdict) error {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return fmt.Errorf("%w: opening test table %s: %v", swerr.ErrProjectAccess, src, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	cells, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("%w: reading sheet %q of %s: %v", swerr.ErrProjectAccess, sheet, src, err)
	}
	rowsByTest, err := testcase.RowsByTest(cells)
	if err != nil {
		return err
	}

	measuredColumn := len(cells[0]) + 1
	resultColumn := measuredColumn + 1
	if err := setCell(f, sheet, measuredColumn, 1, measuredTitle); err != nil {
		return err
	}
	if err := setCell(f, sheet, resultColumn, 1, resultTitle); err != nil {
		return err
	}

	styles := make(map[Result]int)
	for result, color := range map[Result]string{ResultPass: passColor, ResultFail: failColor} {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("creating cell style: %w", err)
		}
		styles[result] = style
	}

	for _, verdict := range verdicts {
		row, ok := rowsByTest[verdict.Test]
		if !ok {
			continue
		}
		if err := setCell(f, sheet, measuredColumn, row, verdict.MeasuredText()); err != nil {
			return err
		}
		if err := setCell(f, sheet, resultColumn, row, verdict.Result.String()); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(resultColumn, row)
		if err := f.SetCellStyle(sheet, cell, cell, styles[verdict.Result]); err != nil {
			return fmt.Errorf("styling %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(dst); err != nil {
		return fmt.Errorf("%w: writing %s: %v", swerr.ErrProjectAccess, dst, err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, column, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("writing %s: %w", cell, err)
	}
	return nil
}
