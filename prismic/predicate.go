package prismic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("prismic: document not found")

	// ErrUnavailable matches every failure to reach or decode the API.
	ErrUnavailable = errors.New("prismic: store unavailable")
)

// UnavailableError records which request failed and why.
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("prismic: request %s: %v", e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is reports ErrUnavailable as matching.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Predicate is a single query clause such as at(document.type, "post").
type Predicate struct {
	Op    string
	Path  string
	Value string
}

// At matches documents whose field at path equals value.
func At(path, value string) Predicate {
	return Predicate{Op: "at", Path: path, Value: value}
}

func (p Predicate) String() string {
	return fmt.Sprintf("[%s(%s, %s)]", p.Op, p.Path, strconv.Quote(p.Value))
}

// encodePredicates renders predicates in the API's q syntax: [[at(a, "b")][...]].
func encodePredicates(preds []Predicate) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, p := range preds {
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}

// matches reports whether doc satisfies p. Only the paths the site queries
// are understood; used by FixtureStore.
func (p Predicate) matches(doc Document) bool {
	if p.Op != "at" {
		return false
	}
	switch {
	case p.Path == "document.type":
		return doc.Type == p.Value
	case p.Path == "document.id":
		return doc.ID == p.Value
	case strings.HasPrefix(p.Path, "my.") && strings.HasSuffix(p.Path, ".uid"):
		docType := strings.TrimSuffix(strings.TrimPrefix(p.Path, "my."), ".uid")
		return doc.Type == docType && doc.UID == p.Value
	default:
		return false
	}
}
