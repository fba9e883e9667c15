package actor

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/mflix/pkg/docstore"
)

var (
	_ bson.Marshaler   = Actor{}
	_ bson.Unmarshaler = (*Actor)(nil)
)

// ToDocument encodes a, writing only the fields that are present.
// A nil actor encodes as an empty document.
func ToDocument(a *Actor) bson.D {
	doc := bson.D{}
	if a == nil {
		return doc
	}
	if !a.ID.IsZero() {
		doc = append(doc, bson.E{Key: FieldID, Value: a.ID})
	}
	if a.Name != "" {
		doc = append(doc, bson.E{Key: FieldName, Value: a.Name})
	}
	if a.DateOfBirth != nil {
		doc = append(doc, bson.E{Key: FieldDateOfBirth, Value: bson.NewDateTimeFromTime(NormalizeTime(*a.DateOfBirth))})
	}
	if a.Awards != nil {
		doc = append(doc, bson.E{Key: FieldAwards, Value: bson.A(a.Awards)})
	}
	if a.NumMovies != nil {
		doc = append(doc, bson.E{Key: FieldNumMovies, Value: intValue(*a.NumMovies)})
	}
	return doc
}

// FromDocument decodes an actor. Missing fields are left at their zero value.
// It accepts both the types the driver produces (bson.DateTime, bson.A,
// int32) and their Go counterparts.
func FromDocument(doc bson.M) (*Actor, error) {
	a := &Actor{}

	if v, ok := present(doc, FieldID); ok {
		id, ok := v.(bson.ObjectID)
		if !ok {
			return nil, invalid(FieldID, v)
		}
		a.ID = id
	}

	if v, ok := present(doc, FieldName); ok {
		name, ok := v.(string)
		if !ok {
			return nil, invalid(FieldName, v)
		}
		a.Name = name
	}

	if v, ok := present(doc, FieldDateOfBirth); ok {
		var t time.Time
		switch d := v.(type) {
		case bson.DateTime:
			t = d.Time().UTC()
		case time.Time:
			t = NormalizeTime(d)
		default:
			return nil, invalid(FieldDateOfBirth, v)
		}
		a.DateOfBirth = &t
	}

	if v, ok := present(doc, FieldAwards); ok {
		var awards []any
		switch list := v.(type) {
		case bson.A:
			awards = list
		case []any:
			awards = list
		default:
			return nil, invalid(FieldAwards, v)
		}
		a.Awards = make([]any, len(awards))
		copy(a.Awards, awards)
	}

	if v, ok := present(doc, FieldNumMovies); ok {
		n, err := toInt(v)
		if err != nil {
			return nil, err
		}
		a.NumMovies = &n
	}

	return a, nil
}

// Decode reads an actor from a raw BSON document. Award entries that are
// documents decode as bson.M.
func Decode(raw bson.Raw) (*Actor, error) {
	var doc bson.M
	if err := docstore.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return FromDocument(doc)
}

// MarshalBSON routes driver encoding through ToDocument.
func (a Actor) MarshalBSON() ([]byte, error) {
	return bson.Marshal(ToDocument(&a))
}

// UnmarshalBSON routes driver decoding through FromDocument.
func (a *Actor) UnmarshalBSON(data []byte) error {
	decoded, err := Decode(bson.Raw(data))
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}

// NormalizeTime returns t in UTC truncated to milliseconds, the precision
// of a BSON datetime.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// present treats an explicit null the same as a missing field.
func present(doc bson.M, key string) (any, bool) {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func intValue(n int) any {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return int32(n)
	}
	return int64(n)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case int:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, invalid(FieldNumMovies, v)
		}
		return int(n), nil
	default:
		return 0, invalid(FieldNumMovies, v)
	}
}

func invalid(field string, v any) error {
	return fmt.Errorf("%w: field %q has type %T", ErrInvalidDocument, field, v)
}
