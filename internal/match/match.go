// Package match decides whether a free-text answer is close enough to the
// canonical one. Four normalization tiers are tried and any single hit counts;
// each tier is a bidirectional substring test, so "the number 3 exactly"
// matches a canonical "3" and the other way around.
package match

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
	numberWordRe = regexp.MustCompile(`\b(zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|twenty)\b`)
)

// Number names above twenty, ordinals and hyphenated compounds are left alone.
var numberWords = map[string]string{
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"ten": "10", "eleven": "11", "twelve": "12", "thirteen": "13",
	"fourteen": "14", "fifteen": "15", "sixteen": "16", "seventeen": "17",
	"eighteen": "18", "nineteen": "19", "twenty": "20",
}

// IsCorrect reports whether the user's answer matches the canonical answer
// under any tier. An empty (post-normalization) user answer never matches.
func IsCorrect(userAnswer, canonicalAnswer string) bool {
	user := normalize(userAnswer)
	canonical := normalize(canonicalAnswer)
	if user == "" {
		return false
	}

	userStripped := stripNonAlnum(user)
	canonicalStripped := stripNonAlnum(canonical)

	userDigits := replaceNumberWords(user)
	canonicalDigits := replaceNumberWords(canonical)

	return contains(canonical, user) ||
		contains(canonicalStripped, userStripped) ||
		contains(canonicalDigits, userDigits) ||
		contains(stripNonAlnum(canonicalDigits), stripNonAlnum(userDigits))
}

// normalize lowercases, collapses whitespace runs to single spaces and trims.
func normalize(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

func stripNonAlnum(s string) string {
	return nonAlnumRe.ReplaceAllString(s, "")
}

func replaceNumberWords(s string) string {
	return numberWordRe.ReplaceAllStringFunc(s, func(word string) string {
		return numberWords[word]
	})
}

func contains(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
