package ingest

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/fumiama/go-docx"

	"classgroup-service/internal/domain"
)

var (
	questionMarkerRe = regexp.MustCompile(`(?i)^(?:question|q)\s*[:-]?\s*(.+)$`)
	answerMarkerRe   = regexp.MustCompile(`(?i)^(?:answer|a)\s*[:-]?\s*(.+)$`)
)

// parseDOCX extracts raw paragraph text from a Word document and pairs
// adjacent Q/A marker lines.
func parseDOCX(data []byte) ([]domain.QAPair, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(doc.Document.Body.Items))
	for _, item := range doc.Document.Body.Items {
		paragraph, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if line := strings.TrimSpace(paragraph.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return pairMarkedLines(lines), nil
}

// pairMarkedLines scans trimmed non-empty lines and emits a pair for every
// question-marker line whose immediately following line is an answer-marker
// line. An orphaned question line yields nothing; scanning resumes at the
// next line.
func pairMarkedLines(lines []string) []domain.QAPair {
	pairs := []domain.QAPair{}
	for i := 0; i < len(lines); i++ {
		qMatch := questionMarkerRe.FindStringSubmatch(lines[i])
		if qMatch == nil {
			continue
		}
		if i+1 >= len(lines) {
			break
		}
		aMatch := answerMarkerRe.FindStringSubmatch(lines[i+1])
		if aMatch == nil {
			continue
		}
		if pair, ok := pairFromCells(qMatch[1], aMatch[1]); ok {
			pairs = append(pairs, pair)
		}
		i++ // the answer line is consumed
	}
	return pairs
}
