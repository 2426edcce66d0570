package query

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// FieldTitleSearch is the relational column holding the title lowered in
// Go, so case folding covers accented letters on every SQL dialect.
const FieldTitleSearch = "titulo_busca"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Scope renders the filter as a GORM scope for relational backends. Tags
// are expected in a JSON-encoded text column, so containment is matched on
// the quoted tag. Prices are stored as decimal text and compared as
// NUMERIC.
func (f BookFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Title != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(f.Title)) + "%"
			db = db.Where(FieldTitleSearch+" LIKE ? ESCAPE '\\'", pattern)
		}
		if len(f.Categories) > 0 {
			db = db.Where(FieldCategory+" IN ?", f.Categories)
		}
		if f.PriceMin != nil {
			db = db.Where(numeric(FieldPrice)+" >= "+numeric("?"), f.PriceMin.String())
		}
		if f.PriceMax != nil {
			db = db.Where(numeric(FieldPrice)+" <= "+numeric("?"), f.PriceMax.String())
		}
		for _, tag := range f.Tags {
			db = db.Where(FieldTags+" LIKE ? ESCAPE '\\'", "%"+likeEscaper.Replace(quoteJSON(tag))+"%")
		}
		return db
	}
}

func numeric(expr string) string {
	return "CAST(" + expr + " AS NUMERIC)"
}

func quoteJSON(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b)
}
