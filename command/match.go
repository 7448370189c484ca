package command

import (
	"slices"
	"strings"
)

// Match attempts to match the given words of input against the Pattern. The
// words should already be split and lowercased, as by Tokenize. If they match,
// the returned map holds the text captured by each placeholder, keyed by the
// placeholder name, and ok is true.
//
// Each placeholder captures at least one word. When the input could be split
// among the placeholders in more than one way, the split that gives the most
// words to the earliest placeholder is used; "give ITEM to PERSON" matched
// against "give golden apple to evil wizard" gives item="golden apple" and
// person="evil wizard".
func (p Pattern) Match(words []string) (captures map[string]string, ok bool) {
	if len(words) < len(p.placeholders) {
		return nil, false
	}
	if len(words) < len(p.prefix) || !slices.Equal(words[:len(p.prefix)], p.prefix) {
		return nil, false
	}
	rest := words[len(p.prefix):]

	if len(rest) == 0 && len(p.body) == 0 {
		return map[string]string{}, true
	}
	if len(rest) == 0 || len(p.body) == 0 {
		return nil, false
	}

	have := len(rest) - p.fixed
	for counts := range Combinations(have, len(p.placeholders)) {
		if captures, ok := p.walk(rest, counts); ok {
			return captures, true
		}
	}
	return nil, false
}

// walk lays the body over words with each placeholder taking the next count
// from counts. It reports whether every literal lined up.
func (p Pattern) walk(words []string, counts []int) (map[string]string, bool) {
	captures := make(map[string]string, len(counts))
	pos := 0
	slot := 0

	for _, tok := range p.body {
		if !tok.Placeholder {
			if pos >= len(words) || words[pos] != tok.Word {
				return nil, false
			}
			pos++
			continue
		}

		n := counts[slot]
		slot++
		if pos+n > len(words) {
			return nil, false
		}
		captures[tok.Word] = strings.Join(words[pos:pos+n], " ")
		pos += n
	}

	if pos != len(words) {
		return nil, false
	}
	return captures, true
}

// Tokenize splits a line of input on runs of whitespace and lowercases each
// word.
func Tokenize(line string) []string {
	words := strings.Fields(line)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	return words
}
