package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"classgroup-service/internal/domain"
)

// parseXLSX reads the first sheet of an OOXML workbook and treats each row as
// [question, answer, ...]. Rows with fewer than two cells are dropped.
func parseXLSX(data []byte) ([]domain.QAPair, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	pairs := make([]domain.QAPair, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if pair, ok := pairFromCells(row[0], row[1]); ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}

// parseXLS handles the legacy BIFF workbook format with the same row rule.
// The reader panics on sparse row indexes (a gap row in the sheet), so any
// panic degrades to a parse error.
func parseXLS(data []byte) (pairs []domain.QAPair, err error) {
	defer func() {
		if r := recover(); r != nil {
			pairs, err = nil, fmt.Errorf("read xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	pairs = make([]domain.QAPair, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil || row.LastCol() < 2 {
			continue
		}
		if pair, ok := pairFromCells(row.Col(0), row.Col(1)); ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}
