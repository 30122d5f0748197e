// Package ingest turns uploaded question files into QA pairs. Supported
// shapes: tabular workbooks (first sheet, question and answer columns), rich
// text documents (adjacent Q/A marker lines) and plain text (marker blocks
// with a delimiter fallback). A pair is kept only when both trimmed fields
// are non-empty.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"classgroup-service/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for extensions no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrNoPairs is returned when a readable file yields zero valid pairs.
	ErrNoPairs = errors.New("no question/answer pairs found")
)

// Ingest parses data according to the file extension ("xlsx", ".docx", ...)
// and returns the extracted pairs. Callers retain their previous pool on any
// error; an empty parse is an error, never an empty replacement.
func Ingest(data []byte, ext string) ([]domain.QAPair, error) {
	var (
		pairs []domain.QAPair
		err   error
	)
	switch normalizeExt(ext) {
	case "xlsx":
		pairs, err = parseXLSX(data)
	case "xls":
		pairs, err = parseXLS(data)
	case "docx":
		pairs, err = parseDOCX(data)
	case "txt":
		pairs, err = parseText(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", normalizeExt(ext), err)
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	return pairs, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// pairFromCells keeps a row as a pair only when both trimmed cells are
// non-empty.
func pairFromCells(question, answer string) (domain.QAPair, bool) {
	q := strings.TrimSpace(question)
	a := strings.TrimSpace(answer)
	if q == "" || a == "" {
		return domain.QAPair{}, false
	}
	return domain.QAPair{Question: q, Answer: a}, true
}
