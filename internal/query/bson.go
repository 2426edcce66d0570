package query

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BSON renders the filter as a MongoDB predicate. An empty filter renders
// an empty document, which matches everything.
func (f BookFilter) BSON() bson.D {
	predicate := bson.D{}

	if f.Title != "" {
		predicate = append(predicate, bson.E{Key: FieldTitle, Value: bson.D{
			{Key: "$regex", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}},
		}})
	}

	if len(f.Categories) > 0 {
		predicate = append(predicate, bson.E{Key: FieldCategory, Value: bson.D{
			{Key: "$in", Value: f.Categories},
		}})
	}

	if price := priceRange(f); len(price) > 0 {
		predicate = append(predicate, bson.E{Key: FieldPrice, Value: price})
	}

	if len(f.Tags) > 0 {
		predicate = append(predicate, bson.E{Key: FieldTags, Value: bson.D{
			{Key: "$all", Value: f.Tags},
		}})
	}

	return predicate
}

func priceRange(f BookFilter) bson.D {
	var bounds bson.D
	if f.PriceMin != nil {
		if d, err := f.PriceMin.Decimal128(); err == nil {
			bounds = append(bounds, bson.E{Key: "$gte", Value: d})
		}
	}
	if f.PriceMax != nil {
		if d, err := f.PriceMax.Decimal128(); err == nil {
			bounds = append(bounds, bson.E{Key: "$lte", Value: d})
		}
	}
	return bounds
}
