package censor

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
)

// normalize lower-cases, trims and de-duplicates the beep word list.
func normalize(words []string) []string {
	return lo.Uniq(lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, w != ""
	}))
}

// pattern matches any beep word followed by a non-word rune or the end of the
// text. The preceding rune is checked by findWords, since RE2 has no lookbehind.
func pattern(words []string) *regexp.Regexp {
	words = normalize(words)
	if len(words) == 0 {
		return nil
	}
	// longest first, so "son of a" wins over "son" at the same position
	sort.SliceStable(words, func(i, j int) bool {
		return utf8.RuneCountInString(words[i]) > utf8.RuneCountInString(words[j])
	})
	quoted := lo.Map(words, func(w string, _ int) string { return regexp.QuoteMeta(w) })
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)(?:[^\p{L}\p{M}\p{N}_]|$)`)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)
}

// findWords returns the byte spans of whole-word matches in text. Word
// boundaries are Unicode aware, so words like "café" or "a$$" match too.
func findWords(re *regexp.Regexp, text string) [][2]int {
	var spans [][2]int
	for pos := 0; pos < len(text); {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[2], pos+loc[3]

		if start > 0 {
			if before, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(before) {
				_, size := utf8.DecodeRuneInString(text[start:])
				pos = start + size
				continue
			}
		}

		spans = append(spans, [2]int{start, end})
		// resume at the end of the word so the separator can start the next match
		pos = end
	}
	return spans
}

// FindBeeps returns one Beep per whole-word, case-insensitive occurrence of a
// beep word, carrying the time span of the segment it occurs in.
func FindBeeps(transcript *models.Transcript, words []string) []model.Beep {
	if transcript == nil {
		return nil
	}
	re := pattern(words)
	if re == nil {
		return nil
	}

	var beeps []model.Beep
	for i, segment := range transcript.Segments {
		for _, span := range findWords(re, segment.Text) {
			beeps = append(beeps, model.Beep{
				Word:    strings.ToLower(segment.Text[span[0]:span[1]]),
				Segment: i,
				Start:   segment.Start,
				End:     segment.End,
			})
		}
	}
	return beeps
}

// Mask replaces every beep word in text with asterisks, one per rune.
func Mask(text string, words []string) string {
	re := pattern(words)
	if re == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, span := range findWords(re, text) {
		b.WriteString(text[last:span[0]])
		b.WriteString(strings.Repeat("*", utf8.RuneCountInString(text[span[0]:span[1]])))
		last = span[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
