// Package command compiles command templates such as "give ITEM to PERSON",
// matches player input against them, and dispatches matched input to the
// handler registered for the template.
//
// A template is a series of whitespace-separated words. Words in all
// lowercase are literals and must be typed exactly; words in all capitals are
// placeholders that capture one or more words of input. The captured text is
// given to the handler under the lowercased placeholder name.
//
// Commands may be restricted to a scope, a dot-separated path such as
// "ship.cabin". A scoped command is only available while the current scope of
// the player is at or below that path, and more deeply scoped commands are
// tried before less deeply scoped ones.
package command

import (
	"strconv"
	"strings"
	"unicode"
)

// Token is a single word of a compiled template.
type Token struct {
	// Word is the literal text of the token. For placeholders this is the
	// lowercased placeholder name.
	Word string

	// Placeholder is whether the token captures input as opposed to matching
	// it literally.
	Placeholder bool
}

// String returns the token as it would appear in a template.
func (t Token) String() string {
	if t.Placeholder {
		return strings.ToUpper(t.Word)
	}
	return t.Word
}

// Pattern is a compiled command template. The zero value matches nothing
// useful; create one with Compile.
//
// A Pattern is immutable once created and is safe to share.
type Pattern struct {
	original     string
	scope        string
	prefix       []string
	body         []Token
	placeholders []string
	fixed        int
}

// Compile compiles the given template into a Pattern restricted to the given
// scope. An empty scope means the Pattern is always active.
//
// The returned error will be a *CompileError if the template has a word that
// is not made of letters, a word that mixes upper and lower case, or the same
// placeholder more than once, or if scope is not a valid scope.
func Compile(template string, scope string) (Pattern, error) {
	if scope != "" {
		if err := ValidateScope(scope); err != nil {
			return Pattern{}, &CompileError{
				Template: template,
				Reason:   err.Error(),
				wrap:     err,
			}
		}
	}

	words := strings.Fields(template)
	if len(words) < 1 {
		return Pattern{}, &CompileError{Template: template, Reason: "commands must have at least one word"}
	}

	p := Pattern{
		original: template,
		scope:    scope,
	}

	var tokens []Token
	seen := map[string]bool{}
	for _, w := range words {
		if !isAlpha(w) {
			return Pattern{}, &CompileError{
				Template: template,
				Token:    w,
				Reason:   "commands may consist of letters only",
			}
		}

		if isAll(w, unicode.IsUpper) {
			name := strings.ToLower(w)
			if seen[name] {
				return Pattern{}, &CompileError{
					Template: template,
					Token:    w,
					Reason:   "placeholder appears more than once",
				}
			}
			seen[name] = true
			p.placeholders = append(p.placeholders, name)
			tokens = append(tokens, Token{Word: name, Placeholder: true})
		} else if isAll(w, unicode.IsLower) {
			tokens = append(tokens, Token{Word: w})
		} else {
			return Pattern{}, &CompileError{
				Template: template,
				Token:    w,
				Reason:   "words in commands must either be in lowercase or capitals, not a mix",
			}
		}
	}

	// leading run of literals must be matched before any capture can start
	for _, tok := range tokens {
		if tok.Placeholder {
			break
		}
		p.prefix = append(p.prefix, tok.Word)
	}
	p.body = tokens[len(p.prefix):]
	p.fixed = len(p.body) - len(p.placeholders)

	return p, nil
}

// MustCompile is like Compile but panics if the template cannot be compiled.
// It is intended for templates that are hard-coded into a program.
func MustCompile(template string, scope string) Pattern {
	p, err := Compile(template, scope)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// literalPattern makes a Pattern that matches exactly one word, which does not
// need to be alphabetic. It is used for builtin glyph aliases such as "?".
func literalPattern(word string) Pattern {
	return Pattern{
		original: word,
		prefix:   []string{word},
	}
}

// Original returns the template the Pattern was compiled from.
func (p Pattern) Original() string {
	return p.original
}

// Scope returns the scope the Pattern is restricted to. It will be empty if
// the Pattern is always active.
func (p Pattern) Scope() string {
	return p.scope
}

// Prefix returns the literal words that input must begin with.
func (p Pattern) Prefix() []string {
	return append([]string(nil), p.prefix...)
}

// Body returns the tokens of the template that follow the prefix.
func (p Pattern) Body() []Token {
	return append([]Token(nil), p.body...)
}

// Placeholders returns the names of the placeholders in the Pattern in the
// order they appear in the template.
func (p Pattern) Placeholders() []string {
	return append([]string(nil), p.placeholders...)
}

// FixedCount returns the number of literal words that follow the prefix.
func (p Pattern) FixedCount() int {
	return p.fixed
}

// String returns the original template.
func (p Pattern) String() string {
	return p.original
}

// GoString gives a Go-syntax representation of the Pattern.
func (p Pattern) GoString() string {
	return "command.MustCompile(" + strconv.Quote(p.original) + ", " + strconv.Quote(p.scope) + ")"
}

func isAlpha(s string) bool {
	return s != "" && isAll(s, unicode.IsLetter)
}

func isAll(s string, pred func(rune) bool) bool {
	for _, ch := range s {
		if !pred(ch) {
			return false
		}
	}
	return true
}
