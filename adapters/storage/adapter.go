// Package storage keeps a history of calculations made through the HTTP
// server. It sits outside the solver; the core never reads from it.
// Backends: sqlite (default), postgres and memory.
package storage

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"steam-toolbox/core/result"
	"steam-toolbox/core/solver"
	"steam-toolbox/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// Store is the storage interface
type Store interface {
	// Save stores a calculation
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a calculation by ID
	Get(ctx context.Context, id string) (*Record, error)

	// List lists calculations, newest first
	List(ctx context.Context, filter *ListFilter) ([]*Record, error)

	// Delete removes a calculation
	Delete(ctx context.Context, id string) error

	// Close closes the store
	Close() error
}

// Record is one stored calculation
type Record struct {
	// ID is unique identifier
	ID string `json:"id"`

	// Name is the case name, if the caller gave one
	Name string `json:"name,omitempty"`

	// Fluid is the fluid class
	Fluid string `json:"fluid"`

	// PressureDropPa is copied out of the result for listing and filtering
	PressureDropPa float64 `json:"pressure_drop_pa"`

	// Fingerprint of the result
	Fingerprint string `json:"fingerprint"`

	// Request and Result are the full JSON documents
	Request json.RawMessage `json:"request"`
	Result  json.RawMessage `json:"result"`

	// CreatedAt timestamp
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord captures a solved request
func NewRecord(name string, req solver.Request, res *result.SolveResult) (*Record, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Internal("failed to marshal request", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Internal("failed to marshal result", err)
	}
	return &Record{
		Name:           name,
		Fluid:          string(req.Fluid.Class),
		PressureDropPa: res.PressureDropPa,
		Fingerprint:    res.Fingerprint(),
		Request:        reqJSON,
		Result:         resJSON,
	}, nil
}

// SolveResult decodes the stored result
func (r *Record) SolveResult() (*result.SolveResult, error) {
	var res result.SolveResult
	if err := json.Unmarshal(r.Result, &res); err != nil {
		return nil, errors.Storage("failed to decode stored result", err).WithContext("id", r.ID)
	}
	return &res, nil
}

// ListFilter filters history listing
type ListFilter struct {
	Fluid  string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// matches applies the non-paging filters
func (f *ListFilter) matches(r *Record) bool {
	if f == nil {
		return true
	}
	if f.Fluid != "" && r.Fluid != f.Fluid {
		return false
	}
	if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && r.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

// CompareResult is a comparison between two stored calculations
type CompareResult struct {
	OldID           string    `json:"old_id"`
	NewID           string    `json:"new_id"`
	OldPressureDrop float64   `json:"old_pressure_drop_pa"`
	NewPressureDrop float64   `json:"new_pressure_drop_pa"`
	Delta           float64   `json:"delta_pa"`
	DeltaPercent    float64   `json:"delta_percent"`
	SameResult      bool      `json:"same_result"`
	CreatedAt       time.Time `json:"created_at"`
}

// Compare compares two stored calculations in any store
func Compare(ctx context.Context, s Store, oldID, newID string) (*CompareResult, error) {
	oldRec, err := s.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newRec, err := s.Get(ctx, newID)
	if err != nil {
		return nil, err
	}

	delta := newRec.PressureDropPa - oldRec.PressureDropPa
	deltaPercent := 0.0
	if oldRec.PressureDropPa > 0 {
		deltaPercent = delta / oldRec.PressureDropPa * 100
	}

	return &CompareResult{
		OldID:           oldID,
		NewID:           newID,
		OldPressureDrop: oldRec.PressureDropPa,
		NewPressureDrop: newRec.PressureDropPa,
		Delta:           delta,
		DeltaPercent:    deltaPercent,
		SameResult:      oldRec.Fingerprint == newRec.Fingerprint,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// prepare fills the ID and timestamp of a new record
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}
}

// MemoryStore is an in-memory storage backend (for testing and for servers
// run with storage disabled)
type MemoryStore struct {
	records map[string]*Record
	mu      sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(rec)
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, errors.NotFound("calculation", id)
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*Record
	for _, rec := range s.records {
		if filter.matches(rec) {
			cp := *rec
			records = append(records, &cp)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	// Apply limit/offset
	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(records) {
				return []*Record{}, nil
			}
			records = records[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(records) {
			records = records[:filter.Limit]
		}
	}
	return records, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return errors.NotFound("calculation", id)
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Open creates a store by backend type. location is a file path for sqlite
// and a DSN for postgres.
func Open(backend Backend, location string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		db, err := InitDB(location)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil
	case BackendPostgres:
		db, err := InitPostgres(location)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported storage backend: %s", backend)
	}
}

// Ensure interfaces are implemented
var (
	_ Store     = (*MemoryStore)(nil)
	_ Store     = (*SQLStore)(nil)
	_ io.Closer = (*SQLStore)(nil)
)
