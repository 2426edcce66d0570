// Package catalog imports the book catalog from its JSON source.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"livraria/internal/models"
	"livraria/pkg/money"
)

// DateLayout is the only accepted publication date format.
const DateLayout = "2006-01-02"

var (
	// ErrMissingField is returned when an entry lacks a required field.
	ErrMissingField = errors.New("missing required catalog field")
	// ErrInvalidField is returned when a field has the wrong type or value.
	ErrInvalidField = errors.New("invalid catalog field")
)

// Catalog field names.
const (
	fieldTitle         = "titulo"
	fieldPrice         = "preco"
	fieldCategory      = "categoria"
	fieldTags          = "tags"
	fieldAuthors       = "autores"
	fieldLatestEdition = "mais_recente_edicao"
	fieldPublished     = "data_publicacao"
	fieldPublisher     = "editora"
	fieldDescription   = "descricao"
	fieldISBN          = "isbn"
	fieldStock         = "estoque"
	fieldCoverImage    = "imagem_capa"
)

var requiredFields = []string{
	fieldTitle, fieldPrice, fieldCategory, fieldTags, fieldAuthors,
	fieldPublished, fieldPublisher, fieldDescription, fieldISBN, fieldStock,
}

// Entry is one raw catalog record, keyed by catalog field name.
type Entry map[string]any

// ReadFile decodes the catalog file at path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JSON array of catalog entries. Numbers are kept as
// json.Number so prices are never routed through float64.
func Decode(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return entries, nil
}

// toBook converts an entry to a Book. The second result reports whether a
// publication date was present but could not be parsed.
func toBook(e Entry) (models.Book, bool, error) {
	for _, field := range requiredFields {
		if _, ok := e[field]; !ok {
			return models.Book{}, false, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	var (
		b   models.Book
		err error
	)
	if b.Title, err = stringField(e, fieldTitle); err != nil {
		return models.Book{}, false, err
	}
	if b.Price, err = money.FromValue(e[fieldPrice]); err != nil {
		return models.Book{}, false, fmt.Errorf("%w: %s: %v", ErrInvalidField, fieldPrice, err)
	}
	if b.Price.IsNegative() {
		return models.Book{}, false, fmt.Errorf("%w: %s: negative price %s", ErrInvalidField, fieldPrice, b.Price)
	}
	if b.Category, err = stringField(e, fieldCategory); err != nil {
		return models.Book{}, false, err
	}
	if b.Tags, err = stringsField(e, fieldTags); err != nil {
		return models.Book{}, false, err
	}
	if b.Authors, err = stringsField(e, fieldAuthors); err != nil {
		return models.Book{}, false, err
	}
	if b.Publisher, err = stringField(e, fieldPublisher); err != nil {
		return models.Book{}, false, err
	}
	if b.Description, err = stringField(e, fieldDescription); err != nil {
		return models.Book{}, false, err
	}
	if b.ISBN, err = stringField(e, fieldISBN); err != nil {
		return models.Book{}, false, err
	}
	if b.Stock, err = intField(e, fieldStock); err != nil {
		return models.Book{}, false, err
	}

	if v, ok := e[fieldLatestEdition]; ok && v != nil {
		latest, isBool := v.(bool)
		if !isBool {
			return models.Book{}, false, fmt.Errorf("%w: %s: want boolean, got %T", ErrInvalidField, fieldLatestEdition, v)
		}
		b.LatestEdition = latest
	}

	if v, ok := e[fieldCoverImage]; ok && v != nil {
		if b.CoverImage, err = stringField(e, fieldCoverImage); err != nil {
			return models.Book{}, false, err
		}
	}

	var badDate bool
	b.PublicationDate, badDate = parseDate(e[fieldPublished])

	b.ApplyDefaults()
	return b, badDate, nil
}

// parseDate reads a YYYY-MM-DD date. Anything else yields no date.
func parseDate(v any) (*time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, v != nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil, true
	}
	return &t, false
}

func stringField(e Entry, field string) (string, error) {
	switch v := e[field].(type) {
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %s: want string, got %T", ErrInvalidField, field, e[field])
	}
}

func stringsField(e Entry, field string) ([]string, error) {
	switch v := e[field].(type) {
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s: want list of strings, got element %T", ErrInvalidField, field, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s: want list of strings, got %T", ErrInvalidField, field, e[field])
	}
}

func intField(e Entry, field string) (int, error) {
	switch v := e[field].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: want integer, got %s", ErrInvalidField, field, v)
		}
		return int(n), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %s: want integer, got %T", ErrInvalidField, field, e[field])
	}
}
