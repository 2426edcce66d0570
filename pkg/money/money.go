// Package money provides an exact decimal currency amount that converts
// losslessly between text, JSON, BSON Decimal128 and SQL numeric columns.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidAmount is returned when a value cannot be read as a decimal amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrFloatSource is returned when an amount is built from a binary float.
	ErrFloatSource = errors.New("amount cannot be built from a floating-point value")
)

// Amount is an exact decimal currency value. The zero value is 0.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// Parse reads a decimal amount from text such as "19.90".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{d: d}, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal wraps an exact decimal.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// FromInt returns a whole amount.
func FromInt(i int64) Amount {
	return Amount{d: decimal.NewFromInt(i)}
}

// FromValue converts a loosely-typed value into an Amount. Strings,
// json.Number, integers, decimals and Amounts are accepted. Floats are
// rejected because their binary representation is already inexact.
func FromValue(v any) (Amount, error) {
	switch x := v.(type) {
	case Amount:
		return x, nil
	case *Amount:
		if x == nil {
			return Amount{}, fmt.Errorf("%w: nil", ErrInvalidAmount)
		}
		return *x, nil
	case decimal.Decimal:
		return FromDecimal(x), nil
	case string:
		return Parse(x)
	case json.Number:
		return Parse(x.String())
	case primitive.Decimal128:
		return Parse(x.String())
	case int:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case float32, float64:
		return Amount{}, ErrFloatSource
	case nil:
		return Amount{}, fmt.Errorf("%w: nil", ErrInvalidAmount)
	default:
		return Amount{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}
}

// Decimal returns the underlying decimal.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String renders the amount keeping the scale it was built with, so
// "19.90" stays "19.90".
func (a Amount) String() string {
	if exp := a.d.Exponent(); exp < 0 {
		return a.d.StringFixed(-exp)
	}
	return a.d.String()
}

// Decimal128 converts the amount to the MongoDB decimal wire type.
func (a Amount) Decimal128() (primitive.Decimal128, error) {
	d, err := primitive.ParseDecimal128(a.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return d, nil
}

func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }
func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }
func (a Amount) LessThan(b Amount) bool { return a.d.LessThan(b.d) }
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }
func (a Amount) IsZero() bool { return a.d.IsZero() }
func (a Amount) IsNegative() bool { return a.d.IsNegative() }
func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) MulInt(n int64) Amount { return Amount{d: a.d.Mul(decimal.NewFromInt(n))} }

// MarshalJSON renders the amount as a quoted decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a quoted decimal or a bare JSON number;
// both are read from their literal text.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = Amount{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalBSONValue stores the amount as Decimal128.
func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := a.Decimal128()
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d)
}

// UnmarshalBSONValue reads Decimal128 values. Strings, integers and doubles
// written by older tooling are accepted too.
func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		parsed, err := Parse(raw.Decimal128().String())
		if err != nil {
			return err
		}
		*a = parsed
	case bsontype.String:
		parsed, err := Parse(raw.StringValue())
		if err != nil {
			return err
		}
		*a = parsed
	case bsontype.Int32:
		*a = FromInt(int64(raw.Int32()))
	case bsontype.Int64:
		*a = FromInt(raw.Int64())
	case bsontype.Double:
		// legacy documents only
		*a = FromDecimal(decimal.NewFromFloat(raw.Double()))
	case bsontype.Null, bsontype.Undefined:
		*a = Amount{}
	default:
		return fmt.Errorf("%w: cannot decode BSON %s", ErrInvalidAmount, t)
	}
	return nil
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	*a = FromDecimal(d)
	return nil
}
