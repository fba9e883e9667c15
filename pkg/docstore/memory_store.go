package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const idField = "_id"

// MemoryStore implements Store and IndexManager in process memory.
//
// Documents are kept in their marshalled BSON form so that custom
// marshalers run on every write, just as they would against MongoDB.
// Filters support top-level equality only and updates support $set only.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.Raw
	unique      map[string][]string
}

var (
	_ Store        = (*MemoryStore)(nil)
	_ IndexManager = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store with the given unique indexes.
// Non-unique indexes are accepted and ignored.
func NewMemoryStore(indexes ...Index) *MemoryStore {
	m := &MemoryStore{
		collections: make(map[string][]bson.Raw),
		unique:      make(map[string][]string),
	}
	for _, idx := range indexes {
		if idx.Unique && idx.Collection != "" && idx.Field != "" {
			m.addUnique(idx.Collection, idx.Field)
		}
	}
	return m
}

// EnsureIndexes registers unique indexes. It fails with ErrDuplicateKey
// if existing documents already violate one of them.
func (m *MemoryStore) EnsureIndexes(ctx context.Context, indexes ...Index) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, idx := range indexes {
		if idx.Collection == "" || idx.Field == "" {
			return ErrInvalidIndex
		}
		if !idx.Unique {
			continue
		}
		docs := m.collections[idx.Collection]
		for i := range docs {
			for j := i + 1; j < len(docs); j++ {
				if equalValues(docs[i].Lookup(idx.Field), docs[j].Lookup(idx.Field)) {
					return fmt.Errorf("%w: index %s.%s", ErrDuplicateKey, idx.Collection, idx.Field)
				}
			}
		}
		m.addUnique(idx.Collection, idx.Field)
	}
	return nil
}

// FindOne returns the first document matching filter in insertion order.
func (m *MemoryStore) FindOne(ctx context.Context, collection string, filter any, opts FindOptions) (bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.find(collection, f)
	if i < 0 {
		return nil, ErrNoDocument
	}
	return project(m.collections[collection][i], opts.Projection)
}

// InsertOne stores document, assigning an ObjectID when it has no _id.
func (m *MemoryStore) InsertOne(ctx context.Context, collection string, document any) (InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return InsertResult{}, err
	}
	raw, err := toRaw(document)
	if err != nil {
		return InsertResult{}, err
	}
	raw, id, err := withID(raw)
	if err != nil {
		return InsertResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(collection, raw, -1); err != nil {
		return InsertResult{}, err
	}
	m.collections[collection] = append(m.collections[collection], raw)
	return InsertResult{InsertedID: id}, nil
}

// UpdateOne applies a $set update to the first matching document.
// With opts.Upsert and no match, the filter fields and the $set fields
// form a new document.
func (m *MemoryStore) UpdateOne(ctx context.Context, collection string, filter, update any, opts UpdateOptions) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}
	f, err := parseFilter(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	set, err := parseUpdate(update)
	if err != nil {
		return UpdateResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(collection, f)
	if i < 0 {
		if !opts.Upsert {
			return UpdateResult{}, nil
		}
		raw, err := buildUpsert(f, set)
		if err != nil {
			return UpdateResult{}, err
		}
		raw, id, err := withID(raw)
		if err != nil {
			return UpdateResult{}, err
		}
		if err := m.checkUnique(collection, raw, -1); err != nil {
			return UpdateResult{}, err
		}
		m.collections[collection] = append(m.collections[collection], raw)
		return UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
	}

	current := m.collections[collection][i]
	next, err := applySet(current, set)
	if err != nil {
		return UpdateResult{}, err
	}
	if bytes.Equal(current, next) {
		return UpdateResult{MatchedCount: 1}, nil
	}
	if err := m.checkUnique(collection, next, i); err != nil {
		return UpdateResult{}, err
	}
	m.collections[collection][i] = next
	return UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

// DeleteOne removes the first document matching filter.
func (m *MemoryStore) DeleteOne(ctx context.Context, collection string, filter any) (DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return DeleteResult{}, err
	}
	f, err := parseFilter(filter)
	if err != nil {
		return DeleteResult{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(collection, f)
	if i < 0 {
		return DeleteResult{}, nil
	}
	m.collections[collection] = slices.Delete(m.collections[collection], i, i+1)
	return DeleteResult{DeletedCount: 1}, nil
}

// CountDocuments returns how many documents in collection match filter.
func (m *MemoryStore) CountDocuments(ctx context.Context, collection string, filter any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := parseFilter(filter)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, doc := range m.collections[collection] {
		if matches(doc, f) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) addUnique(collection, field string) {
	if slices.Contains(m.unique[collection], field) {
		return
	}
	m.unique[collection] = append(m.unique[collection], field)
}

func (m *MemoryStore) find(collection string, filter []bson.RawElement) int {
	for i, doc := range m.collections[collection] {
		if matches(doc, filter) {
			return i
		}
	}
	return -1
}

// checkUnique must be called with the write lock held.
// skip is the position of the document being replaced, or -1.
func (m *MemoryStore) checkUnique(collection string, doc bson.Raw, skip int) error {
	fields := append([]string{idField}, m.unique[collection]...)
	for _, field := range fields {
		v := doc.Lookup(field)
		for i, other := range m.collections[collection] {
			if i == skip {
				continue
			}
			if equalValues(other.Lookup(field), v) {
				return fmt.Errorf("%w: %s.%s", ErrDuplicateKey, collection, field)
			}
		}
	}
	return nil
}

func toRaw(v any) (bson.Raw, error) {
	if v == nil {
		return bson.Raw{5, 0, 0, 0, 0}, nil
	}
	if raw, ok := v.(bson.Raw); ok {
		if err := raw.Validate(); err != nil {
			return nil, errors.Join(ErrInvalidDocument, err)
		}
		return slices.Clone(raw), nil
	}
	b, err := bson.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	return bson.Raw(b), nil
}

func parseFilter(filter any) ([]bson.RawElement, error) {
	raw, err := toRaw(filter)
	if err != nil {
		return nil, err
	}
	elems, err := raw.Elements()
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	for _, e := range elems {
		if !plainField(e.Key()) {
			return nil, fmt.Errorf("%w: field %q", ErrUnsupportedQuery, e.Key())
		}
		if isOperatorDoc(e.Value()) {
			return nil, fmt.Errorf("%w: operator on field %q", ErrUnsupportedQuery, e.Key())
		}
	}
	return elems, nil
}

func parseUpdate(update any) ([]bson.RawElement, error) {
	raw, err := toRaw(update)
	if err != nil {
		return nil, err
	}
	elems, err := raw.Elements()
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: empty update", ErrUnsupportedUpdate)
	}

	var set []bson.RawElement
	for _, e := range elems {
		if e.Key() != "$set" {
			return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedUpdate, e.Key())
		}
		doc, ok := e.Value().DocumentOK()
		if !ok {
			return nil, fmt.Errorf("%w: $set must be a document", ErrUnsupportedUpdate)
		}
		fields, err := doc.Elements()
		if err != nil {
			return nil, errors.Join(ErrInvalidDocument, err)
		}
		for _, f := range fields {
			if !plainField(f.Key()) {
				return nil, fmt.Errorf("%w: field %q", ErrUnsupportedUpdate, f.Key())
			}
		}
		set = append(set, fields...)
	}
	return set, nil
}

func plainField(key string) bool {
	return key != "" && !strings.HasPrefix(key, "$") && !strings.Contains(key, ".")
}

func isOperatorDoc(v bson.RawValue) bool {
	doc, ok := v.DocumentOK()
	if !ok {
		return false
	}
	elems, err := doc.Elements()
	if err != nil || len(elems) == 0 {
		return false
	}
	return strings.HasPrefix(elems[0].Key(), "$")
}

// matches treats a null filter value as matching a missing field, like MongoDB.
func matches(doc bson.Raw, filter []bson.RawElement) bool {
	for _, e := range filter {
		got, err := doc.LookupErr(e.Key())
		if err != nil {
			if e.Value().Type == bson.TypeNull {
				continue
			}
			return false
		}
		if !equalValues(got, e.Value()) {
			return false
		}
	}
	return true
}

func equalValues(a, b bson.RawValue) bool {
	return a.Type == b.Type && bytes.Equal(a.Value, b.Value)
}

func withID(doc bson.Raw) (bson.Raw, any, error) {
	if _, err := doc.LookupErr(idField); err == nil {
		var holder struct {
			ID any `bson:"_id"`
		}
		if err := bson.Unmarshal(doc, &holder); err != nil {
			return nil, nil, errors.Join(ErrInvalidDocument, err)
		}
		return doc, holder.ID, nil
	}

	id := bson.NewObjectID()
	elems, err := doc.Elements()
	if err != nil {
		return nil, nil, errors.Join(ErrInvalidDocument, err)
	}
	d := make(bson.D, 0, len(elems)+1)
	d = append(d, bson.E{Key: idField, Value: id})
	for _, e := range elems {
		d = append(d, bson.E{Key: e.Key(), Value: e.Value()})
	}
	out, err := marshalD(d)
	return out, id, err
}

func buildUpsert(filter, set []bson.RawElement) (bson.Raw, error) {
	setByKey := make(map[string]bson.RawValue, len(set))
	for _, e := range set {
		setByKey[e.Key()] = e.Value()
	}

	d := make(bson.D, 0, len(filter)+len(set))
	used := make(map[string]bool, len(set))
	for _, e := range filter {
		if v, ok := setByKey[e.Key()]; ok {
			d = append(d, bson.E{Key: e.Key(), Value: v})
			used[e.Key()] = true
			continue
		}
		d = append(d, bson.E{Key: e.Key(), Value: e.Value()})
	}
	for _, e := range set {
		if !used[e.Key()] {
			d = append(d, bson.E{Key: e.Key(), Value: e.Value()})
			used[e.Key()] = true
		}
	}
	return marshalD(d)
}

func applySet(doc bson.Raw, set []bson.RawElement) (bson.Raw, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}

	d := make(bson.D, 0, len(elems)+len(set))
	index := make(map[string]int, len(elems))
	for _, e := range elems {
		index[e.Key()] = len(d)
		d = append(d, bson.E{Key: e.Key(), Value: e.Value()})
	}
	for _, e := range set {
		if i, ok := index[e.Key()]; ok {
			if e.Key() == idField && !equalValues(d[i].Value.(bson.RawValue), e.Value()) {
				return nil, fmt.Errorf("%w: _id is immutable", ErrUnsupportedUpdate)
			}
			d[i].Value = e.Value()
			continue
		}
		index[e.Key()] = len(d)
		d = append(d, bson.E{Key: e.Key(), Value: e.Value()})
	}
	return marshalD(d)
}

func project(doc bson.Raw, fields []string) (bson.Raw, error) {
	if len(fields) == 0 {
		return slices.Clone(doc), nil
	}
	elems, err := doc.Elements()
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	d := bson.D{}
	for _, e := range elems {
		if e.Key() == idField || slices.Contains(fields, e.Key()) {
			d = append(d, bson.E{Key: e.Key(), Value: e.Value()})
		}
	}
	return marshalD(d)
}

func marshalD(d bson.D) (bson.Raw, error) {
	b, err := bson.Marshal(d)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	return bson.Raw(b), nil
}
