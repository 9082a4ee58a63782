package database

import (
	"encoding/json"
	"fmt"
)

// Repository is a typed view over one collection. Values travel through
// their JSON encoding, so T's json tags define the stored field names.
type Repository[T any] struct {
	store      *Store
	collection string
}

func NewRepository[T any](store *Store, collection string) *Repository[T] {
	return &Repository[T]{store: store, collection: collection}
}

func (r *Repository[T]) Collection() string { return r.collection }

func (r *Repository[T]) All() ([]T, error) {
	records, err := r.store.GetAll(r.collection)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, err := FromRecord[T](rec)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", r.collection, rec.ID(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Repository[T]) Get(id string) (T, error) {
	rec, err := r.store.GetByID(r.collection, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return FromRecord[T](rec)
}

func (r *Repository[T]) Create(v T) (T, error) {
	rec, err := ToRecord(v)
	if err != nil {
		var zero T
		return zero, err
	}
	created, err := r.store.Create(r.collection, rec)
	if err != nil {
		var zero T
		return zero, err
	}
	return FromRecord[T](created)
}

// Update merges patch into the stored record. patch is a map or any value
// whose JSON encoding is an object; with structs only the fields that
// survive omitempty are merged.
func (r *Repository[T]) Update(id string, patch any) (T, error) {
	rec, err := ToRecord(patch)
	if err != nil {
		var zero T
		return zero, err
	}
	updated, err := r.store.Update(r.collection, id, rec)
	if err != nil {
		var zero T
		return zero, err
	}
	return FromRecord[T](updated)
}

// Modify decodes the stored value, lets fn change it and stores the result,
// all under the collection lock. Fields outside T's encoding are dropped.
func (r *Repository[T]) Modify(id string, fn func(*T) error) (T, error) {
	stored, err := r.store.Modify(r.collection, id, func(rec Record) (Record, error) {
		v, err := FromRecord[T](rec)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", r.collection, id, err)
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		return ToRecord(v)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return FromRecord[T](stored)
}

func (r *Repository[T]) Put(v T) (T, error) {
	rec, err := ToRecord(v)
	if err != nil {
		var zero T
		return zero, err
	}
	stored, err := r.store.Put(r.collection, rec)
	if err != nil {
		var zero T
		return zero, err
	}
	return FromRecord[T](stored)
}

func (r *Repository[T]) Delete(id string) error {
	return r.store.Delete(r.collection, id)
}

func ToRecord(v any) (Record, error) {
	if rec, ok := v.(Record); ok {
		return rec, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

func FromRecord[T any](rec Record) (T, error) {
	var v T
	data, err := json.Marshal(rec)
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(data, &v)
	return v, err
}
