package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/google/uuid"
)

const (
	CollectionMenuItems     = "menuItems"
	CollectionOrders        = "orders"
	CollectionAdmins        = "admins"
	CollectionUsers         = "users"
	CollectionRiders        = "riders"
	CollectionChefs         = "chefs"
	CollectionTableBookings = "tableBookings"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrMissingID         = errors.New("record has no id")
	ErrInvalidCollection = errors.New("invalid collection name")

	collectionName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Record is one JSON object of a collection file.
type Record map[string]any

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store keeps every collection as one JSON array file under dir. Every
// operation reads and parses the whole file and mutating operations rewrite
// it wholesale. Operations on the same collection are serialized, so
// concurrent mutations of one collection never discard each other; the two
// processes of the platform still own separate directories.
type Store struct {
	dir   string
	seeds map[string][]Record
	newID func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Store)

// WithSeed writes records to a collection the first time it is used, when
// its file does not exist yet.
func WithSeed(collection string, records []Record) Option {
	return func(s *Store) {
		s.seeds[collection] = records
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{
		dir:   dir,
		seeds: make(map[string][]Record),
		newID: newTimeOrderedID,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// newTimeOrderedID returns a UUIDv7, whose leading bits are the creation
// time in milliseconds.
func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) Dir() string { return s.dir }

// Path returns the backing file of a collection.
func (s *Store) Path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *Store) GetAll(collection string) ([]Record, error) {
	unlock, err := s.lock(collection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.load(collection)
}

func (s *Store) GetByID(collection, id string) (Record, error) {
	unlock, err := s.lock(collection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	if i := indexOf(records, id); i >= 0 {
		return records[i], nil
	}
	return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// Create stores a copy of record under a freshly generated id, replacing
// any id the caller supplied.
func (s *Store) Create(collection string, record Record) (Record, error) {
	unlock, err := s.lock(collection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := s.load(collection)
	if err != nil {
		return nil, err
	}

	created := record.clone()
	created["id"] = s.newID()
	records = append(records, created)

	if err := s.write(collection, records); err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges the top-level fields of partial into the record with the
// given id. The id field itself is never changed.
func (s *Store) Update(collection, id string, partial Record) (Record, error) {
	unlock, err := s.lock(collection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := s.load(collection)
	if err != nil {
		return nil, err
	}

	i := indexOf(records, id)
	if i < 0 {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	merged := records[i].clone()
	for k, v := range partial {
		if k == "id" {
			continue
		}
		merged[k] = v
	}
	records[i] = merged

	if err := s.write(collection, records); err != nil {
		return nil, err
	}
	return merged, nil
}

// Modify replaces the record with the given id by what fn returns, with
// the collection locked from read to write. An error from fn aborts the
// change and is returned as is.
func (s *Store) Modify(collection, id string, fn func(Record) (Record, error)) (Record, error) {
	unlock, err := s.lock(collection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := s.load(collection)
	if err != nil {
		return nil, err
	}

	i := indexOf(records, id)
	if i < 0 {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	next, err := fn(records[i].clone())
	if err != nil {
		return nil, err
	}
	next = next.clone()
	next["id"] = id
	records[i] = next

	if err := s.write(collection, records); err != nil {
		return nil, err
	}
	return next, nil
}

// Put inserts record under its own id, or replaces the record already
// stored under that id.
func (s *Store) Put(collection string, record Record) (Record, error) {
	id := record.ID()
	if id == "" {
		return nil, ErrMissingID
	}

	unlock, err := s.lock(collection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := s.load(collection)
	if err != nil {
		return nil, err
	}

	stored := record.clone()
	if i := indexOf(records, id); i >= 0 {
		records[i] = stored
	} else {
		records = append(records, stored)
	}

	if err := s.write(collection, records); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Store) Delete(collection, id string) error {
	unlock, err := s.lock(collection)
	if err != nil {
		return err
	}
	defer unlock()

	records, err := s.load(collection)
	if err != nil {
		return err
	}

	i := indexOf(records, id)
	if i < 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	records = append(records[:i], records[i+1:]...)

	return s.write(collection, records)
}

func (s *Store) lock(collection string) (func(), error) {
	if !collectionName.MatchString(collection) {
		return nil, fmt.Errorf("%q: %w", collection, ErrInvalidCollection)
	}

	s.mu.Lock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock, nil
}

// load must be called with the collection lock held.
func (s *Store) load(collection string) ([]Record, error) {
	data, err := os.ReadFile(s.Path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		seed, ok := s.seeds[collection]
		if !ok {
			return []Record{}, nil
		}
		records := make([]Record, 0, len(seed))
		for _, r := range seed {
			records = append(records, r.clone())
		}
		if err := s.write(collection, records); err != nil {
			return nil, fmt.Errorf("seed %s: %w", collection, err)
		}
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var raw []Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", collection, err)
	}
	return dedupe(raw), nil
}

// write must be called with the collection lock held.
func (s *Store) write(collection string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := os.Rename(tmpName, s.Path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

// dedupe keeps one record per id: the last occurrence, at the position of
// the first one.
func dedupe(raw []Record) []Record {
	out := make([]Record, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		id := r.ID()
		if id != "" {
			if i, ok := seen[id]; ok {
				out[i] = r
				continue
			}
			seen[id] = len(out)
		}
		out = append(out, r)
	}
	return out
}

func indexOf(records []Record, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range records {
		if r.ID() == id {
			return i
		}
	}
	return -1
}
