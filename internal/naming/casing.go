// Package naming converts identifier casing and resolves the exported name of
// each member from the run-wide policy and per-member overrides.
package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidIdentifier reports an identifier the casing functions cannot
// operate on. Only the empty identifier is rejected.
var ErrInvalidIdentifier = errors.New("naming: invalid identifier")

// IdentifierError describes which conversion rejected the identifier.
type IdentifierError struct {
	Op         string
	Identifier string
}

// Error implements the error interface.
func (e *IdentifierError) Error() string {
	return fmt.Sprintf("naming: %s: invalid identifier %q", e.Op, e.Identifier)
}

// Is reports whether target is ErrInvalidIdentifier.
func (e *IdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// ToCamel lower-cases the leading word of id. A leading acronym is lower-cased
// as a whole, up to the capital that starts the next word:
//
//	"Name"           -> "name"
//	"HTMLParser"     -> "htmlParser"
//	"XMLHttpRequest" -> "xmlHttpRequest"
//	"ABC"            -> "abc"
//
// Identifiers that do not start with a letter are returned unchanged.
func ToCamel(id string) (string, error) {
	if id == "" {
		return "", &IdentifierError{Op: "camel", Identifier: id}
	}
	first, size := utf8.DecodeRuneInString(id)
	if !unicode.IsLetter(first) {
		return id, nil
	}

	// boundary is the byte offset where the leading acronym ends.
	boundary := 0
	for boundary < len(id) {
		r, n := utf8.DecodeRuneInString(id[boundary:])
		if !unicode.IsUpper(r) {
			break
		}
		if next, _ := utf8.DecodeRuneInString(id[boundary+n:]); unicode.IsLower(next) {
			break
		}
		boundary += n
	}

	if boundary == 0 {
		return string(unicode.ToLower(first)) + id[size:], nil
	}
	return strings.ToLower(id[:boundary]) + id[boundary:], nil
}

// ToPascal upper-cases the first letter of id and leaves the rest untouched.
// Unlike ToCamel it does not look for acronym boundaries, so
// ToPascal("htmlParser") is "HtmlParser".
func ToPascal(id string) (string, error) {
	if id == "" {
		return "", &IdentifierError{Op: "pascal", Identifier: id}
	}
	first, size := utf8.DecodeRuneInString(id)
	if !unicode.IsLetter(first) || !unicode.IsLower(first) {
		return id, nil
	}
	return string(unicode.ToUpper(first)) + id[size:], nil
}
