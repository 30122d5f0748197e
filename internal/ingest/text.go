package ingest

import (
	"regexp"

	"classgroup-service/internal/domain"
)

var (
	blockSplitRe     = regexp.MustCompile(`\n\s*\n`)
	lineSplitRe      = regexp.MustCompile(`\r?\n`)
	blockQuestionRe  = regexp.MustCompile(`(?im)^(?:question|q)\s*[:-]?\s*(.+)$`)
	blockAnswerRe    = regexp.MustCompile(`(?im)^(?:answer|a)\s*[:-]?\s*(.+)$`)
	firstDelimiterRe = regexp.MustCompile(`^(.*?)\s*(?:\t|,)\s*(.+)$`)
)

// parseText runs the marker pass over blank-line-delimited blocks; each block
// containing both a question and an answer marker line yields one pair. When
// the whole file produces no marker pairs, a per-line pass splits each line on
// its first tab or comma instead, skipping delimiterless lines.
func parseText(data []byte) ([]domain.QAPair, error) {
	text := string(data)

	pairs := []domain.QAPair{}
	for _, block := range blockSplitRe.Split(text, -1) {
		qMatch := blockQuestionRe.FindStringSubmatch(block)
		aMatch := blockAnswerRe.FindStringSubmatch(block)
		if qMatch == nil || aMatch == nil {
			continue
		}
		if pair, ok := pairFromCells(qMatch[1], aMatch[1]); ok {
			pairs = append(pairs, pair)
		}
	}
	if len(pairs) > 0 {
		return pairs, nil
	}

	for _, line := range lineSplitRe.Split(text, -1) {
		m := firstDelimiterRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if pair, ok := pairFromCells(m[1], m[2]); ok {
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}
