// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"errors"
	"fmt"
	"sync"

	"modernc.org/kv"
)

// ErrNotFound is returned by Get for a read/strand absent from the index.
var ErrNotFound = errors.New("store: read not found")

// DB is a signal index, holding one StrandRecord per read strand.
type DB struct {
	mu sync.Mutex
	kv *kv.DB
}

func options() *kv.Options {
	return &kv.Options{Compare: ByReadStrand}
}

// Create creates a new signal index at path.
func Create(path string) (*DB, error) {
	db, err := kv.Create(path, options())
	if err != nil {
		return nil, err
	}
	return &DB{kv: db}, nil
}

// Open opens an existing signal index at path.
func Open(path string) (*DB, error) {
	db, err := kv.Open(path, options())
	if err != nil {
		return nil, err
	}
	return &DB{kv: db}, nil
}

// Close closes the index.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.kv.Close()
}

// Put stores r, replacing any existing record with the same key.
func (d *DB) Put(r StrandRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.kv.Set(MarshalReadKey(r.Key()), MarshalStrandRecord(r))
}

// Get returns the record for the given read and strand. A missing record
// is reported as an error wrapping ErrNotFound.
func (d *DB) Get(id string, strand uint8) (StrandRecord, error) {
	key := MarshalReadKey(ReadKey{ID: id, Strand: strand})
	d.mu.Lock()
	v, err := d.kv.Get(nil, key)
	d.mu.Unlock()
	if err != nil {
		return StrandRecord{}, err
	}
	if v == nil {
		return StrandRecord{}, fmt.Errorf("%w: %q strand %d", ErrNotFound, id, strand)
	}
	return UnmarshalStrandRecord(key, v), nil
}

// Has returns whether the index holds a record for the given read and strand.
func (d *DB) Has(id string, strand uint8) (bool, error) {
	key := MarshalReadKey(ReadKey{ID: id, Strand: strand})
	d.mu.Lock()
	v, err := d.kv.Get(nil, key)
	d.mu.Unlock()
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// SeekFirst returns an enumerator positioned on the first record of the
// index. It returns io.EOF if the index is empty.
func (d *DB) SeekFirst() (*kv.Enumerator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.kv.SeekFirst()
}
