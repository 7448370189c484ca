// Package util has text helpers shared by the game and the server.
package util

import (
	"strings"
	"unicode"
)

// MakeTextList joins items into an English list such as "a lamp, a key, and
// an apple". If articles is true, each item gets an indefinite article.
func MakeTextList(items []string, articles bool) string {
	if len(items) < 1 {
		return ""
	}

	withArts := make([]string, len(items))
	for i, item := range items {
		if articles && item != "" {
			iRunes := []rune(item)
			leadingUpper := unicode.IsUpper(iRunes[0])
			allCaps := leadingUpper && len(iRunes) > 1 && unicode.IsUpper(iRunes[1])
			if leadingUpper && !allCaps {
				iRunes[0] = unicode.ToLower(iRunes[0])
				item = string(iRunes)
			}
			item = ArticleFor(item, false) + " " + item
		}
		withArts[i] = item
	}

	switch len(withArts) {
	case 1:
		return withArts[0]
	case 2:
		return withArts[0] + " and " + withArts[1]
	default:
		// oxford comma
		withArts[len(withArts)-1] = "and " + withArts[len(withArts)-1]
		return strings.Join(withArts, ", ")
	}
}

// ArticleFor returns the article for s, capitalized the same way s is. If
// definite is true it is "the"; otherwise it is "a" or "an".
func ArticleFor(s string, definite bool) string {
	sRunes := []rune(s)
	if len(sRunes) < 1 {
		return ""
	}

	leadingUpper := unicode.IsUpper(sRunes[0])
	allCaps := leadingUpper
	if leadingUpper && len(sRunes) > 1 {
		allCaps = unicode.IsUpper(sRunes[1])
	}

	var art string
	if definite {
		switch {
		case allCaps:
			art = "THE"
		case leadingUpper:
			art = "The"
		default:
			art = "the"
		}
		return art
	}

	art = "a"
	if leadingUpper {
		art = "A"
	}
	switch unicode.ToUpper(sRunes[0]) {
	case 'A', 'E', 'I', 'O', 'U':
		if allCaps {
			art += "N"
		} else {
			art += "n"
		}
	}
	return art
}
