// Package query turns loosely-typed search input into a structured book
// filter and renders it as a predicate for each storage backend.
package query

import (
	"fmt"
	"strings"

	"livraria/pkg/money"
)

// Stored field names shared by every backend.
const (
	FieldTitle    = "titulo"
	FieldPrice    = "preco"
	FieldCategory = "categoria"
	FieldTags     = "tags"
)

// Canonical input keys.
const (
	KeyTitle      = "title"
	KeyCategories = "categories"
	KeyPriceMin   = "price_min"
	KeyPriceMax   = "price_max"
	KeyTags       = "tags"
)

// compatibility lists, per canonical key, the legacy keys older front-end
// versions still send, in order of preference. Drop aliases once no caller
// sends them.
var compatibility = map[string][]string{
	KeyTitle:      {"titulo", "título", "nome", "name"},
	KeyCategories: {"categorias", "categoria", "category"},
	KeyPriceMin:   {"preco_min"},
	KeyPriceMax:   {"preco_max"},
	KeyTags:       {"tag"},
}

// Input is the loosely-typed filter received from a caller, e.g. decoded
// form values.
type Input map[string]any

// BookFilter is a normalized book search. Zero fields do not constrain the
// result; set fields combine with AND.
type BookFilter struct {
	Title      string
	Categories []string
	PriceMin   *money.Amount
	PriceMax   *money.Amount
	Tags       []string
}

// Parse builds a BookFilter from input. It never fails: unknown keys are
// ignored and a price bound that does not parse as a decimal is dropped.
func Parse(in Input) BookFilter {
	values := canonicalize(in)

	var f BookFilter
	f.Title = firstString(values[KeyTitle])
	f.Categories = stringSet(values[KeyCategories])
	f.Tags = stringSet(values[KeyTags])
	f.PriceMin = priceBound(values[KeyPriceMin])
	f.PriceMax = priceBound(values[KeyPriceMax])
	return f
}

// IsEmpty reports whether the filter matches every book.
func (f BookFilter) IsEmpty() bool {
	return f.Title == "" && len(f.Categories) == 0 && len(f.Tags) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil
}

// String is used for debug logging.
func (f BookFilter) String() string {
	var parts []string
	if f.Title != "" {
		parts = append(parts, fmt.Sprintf("title~%q", f.Title))
	}
	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("category in %v", f.Categories))
	}
	if f.PriceMin != nil {
		parts = append(parts, "price>="+f.PriceMin.String())
	}
	if f.PriceMax != nil {
		parts = append(parts, "price<="+f.PriceMax.String())
	}
	if len(f.Tags) > 0 {
		parts = append(parts, fmt.Sprintf("tags all %v", f.Tags))
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, " AND ") + "}"
}

// canonicalize folds legacy keys into canonical ones. A canonical key
// always wins over a legacy alias.
func canonicalize(in Input) map[string]any {
	lowered := make(map[string]any, len(in))
	for k, v := range in {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	out := make(map[string]any, len(compatibility))
	for canonical, aliases := range compatibility {
		if v, ok := lowered[canonical]; ok {
			out[canonical] = v
			continue
		}
		for _, alias := range aliases {
			if v, ok := lowered[alias]; ok {
				out[canonical] = v
				break
			}
		}
	}
	return out
}

func priceBound(v any) *money.Amount {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
		if v == "" {
			return nil
		}
	}
	if list, ok := v.([]string); ok {
		v = firstString(list)
	}
	a, err := money.FromValue(v)
	if err != nil {
		return nil
	}
	return &a
}

func firstString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case []string:
		for _, s := range x {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	case []any:
		for _, item := range x {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// stringSet accepts a single string, []string or []any and returns the
// distinct non-empty values in input order.
func stringSet(v any) []string {
	var raw []string
	switch x := v.(type) {
	case string:
		raw = []string{x}
	case []string:
		raw = x
	case []any:
		for _, item := range x {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}

	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
