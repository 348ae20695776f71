package dub

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	typeUnknown tokenType = iota
	typeInt
	typeFloat
	typeIdentifier
	typeString
	typeComma
	typeColon
	typeEOF
)

type token struct {
	typ  tokenType
	pos  int
	text string
}

// lex splits input into tokens. The last token is always typeEOF.
func lex(input string) ([]token, error) {
	var tokens []token
	pos := 0
	for {
		for pos < len(input) && isSpace(input[pos]) {
			pos++
		}
		if pos == len(input) {
			return append(tokens, token{typ: typeEOF, pos: pos}), nil
		}
		typ, end, err := scan(input, pos)
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, token{typ: typ, pos: pos, text: input[pos:end]})
		pos = end
	}
}

// scan reads the token starting at pos and returns where it ends.
func scan(input string, pos int) (tokenType, int, error) {
	r, w := utf8.DecodeRuneInString(input[pos:])
	switch {
	case r == ',':
		return typeComma, pos + w, nil
	case r == ':':
		return typeColon, pos + w, nil
	case r == '"':
		n := strings.IndexByte(input[pos+1:], '"')
		if n < 0 {
			return 0, 0, fmt.Errorf("unterminated string at position %d", pos)
		}
		return typeString, pos + n + 2, nil
	case unicode.IsLetter(r):
		end := pos + w
		for end < len(input) {
			r, w := utf8.DecodeRuneInString(input[end:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			end += w
		}
		return typeIdentifier, end, endsAt(input, end, " \t")
	case r == '-' || r == '.' || isDigit(r):
		return scanNumber(input, pos)
	}
	return 0, 0, fmt.Errorf("unexpected character: %#U", r)
}

// scanNumber reads an int like 60 or -3, or a float like 1.0, -1. or .5.
func scanNumber(input string, pos int) (tokenType, int, error) {
	end := pos
	if input[end] == '-' {
		end++
	}
	digits := 0
	for end < len(input) && isDigit(rune(input[end])) {
		end++
		digits++
	}
	typ := typeInt
	if end < len(input) && input[end] == '.' {
		typ = typeFloat
		end++
		for end < len(input) && isDigit(rune(input[end])) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, 0, fmt.Errorf("malformed number at position %d: %q", pos, input[pos:end])
	}
	return typ, end, endsAt(input, end, " \t,:")
}

// endsAt checks that a token ending at end is followed by the end of input
// or one of the delimiters.
func endsAt(input string, end int, delimiters string) error {
	if end == len(input) {
		return nil
	}
	r, _ := utf8.DecodeRuneInString(input[end:])
	if strings.ContainsRune(delimiters, r) {
		return nil
	}
	return fmt.Errorf("unexpected character: %#U", r)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
