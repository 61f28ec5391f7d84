// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store persists per-read signal data in a kv database keyed by
// read identifier and strand.
package store

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/mitenjain/nanopolish/align"
)

var order = binary.BigEndian

// ReadKey identifies one strand of one read in the signal index.
type ReadKey struct {
	ID     string
	Strand uint8
}

// ByReadStrand is a kv compare function, ordering by read identifier and
// strand index.
func ByReadStrand(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}

	kx := UnmarshalReadKey(x)
	ky := UnmarshalReadKey(y)

	switch {
	case kx.ID < ky.ID:
		return -1
	case kx.ID > ky.ID:
		return 1
	}
	switch {
	case kx.Strand < ky.Strand:
		return -1
	case kx.Strand > ky.Strand:
		return 1
	}

	panic("unreachable")
}

// MarshalReadKey returns a slice encoding k.
func MarshalReadKey(k ReadKey) []byte {
	var (
		buf bytes.Buffer
		b   [8]byte
	)
	order.PutUint64(b[:], uint64(len(k.ID)))
	buf.Write(b[:])
	buf.WriteString(k.ID)
	buf.WriteByte(k.Strand)
	return buf.Bytes()
}

// UnmarshalReadKey decodes a key written by MarshalReadKey.
func UnmarshalReadKey(data []byte) ReadKey {
	var k ReadKey
	n64 := binary.Size(uint64(0))
	n := order.Uint64(data[:n64])
	data = data[n64:]
	k.ID = string(data[:n])
	k.Strand = data[n]
	return k
}

// StrandRecord is the persisted signal data for one strand of a read.
type StrandRecord struct {
	ID         string
	Strand     uint8
	SampleRate float64
	Data       align.Strand
}

// Key returns the record's store key.
func (r StrandRecord) Key() ReadKey {
	return ReadKey{ID: r.ID, Strand: r.Strand}
}

// MarshalStrandRecord returns a slice encoding the value payload of r:
// sample rate, calibration, events and base-to-event ranges. Absent
// ranges are encoded with a presence byte.
func MarshalStrandRecord(r StrandRecord) []byte {
	var (
		buf bytes.Buffer
		b   [8]byte
	)
	putFloat := func(f float64) {
		order.PutUint64(b[:], math.Float64bits(f))
		buf.Write(b[:])
	}
	putUint := func(n uint64) {
		order.PutUint64(b[:], n)
		buf.Write(b[:])
	}

	putFloat(r.SampleRate)
	putFloat(r.Data.Calibration.Shift)
	putFloat(r.Data.Calibration.Scale)
	putFloat(r.Data.Calibration.Drift)
	putFloat(r.Data.Calibration.Var)

	putUint(uint64(len(r.Data.Events)))
	for _, e := range r.Data.Events {
		putFloat(e.Mean)
		putFloat(e.Stdv)
		putUint(uint64(e.RawStart))
		putUint(uint64(e.RawEnd))
	}

	putUint(uint64(len(r.Data.BaseToEvent)))
	for _, er := range r.Data.BaseToEvent {
		if er == nil {
			buf.WriteByte(0)
			continue
		}
		buf.WriteByte(1)
		putUint(uint64(er.Start))
		putUint(uint64(er.Stop))
	}

	return buf.Bytes()
}

// UnmarshalStrandRecord decodes a record from its key and value payload.
func UnmarshalStrandRecord(key, data []byte) StrandRecord {
	k := UnmarshalReadKey(key)
	r := StrandRecord{ID: k.ID, Strand: k.Strand}

	n64 := binary.Size(uint64(0))
	getFloat := func() float64 {
		f := math.Float64frombits(order.Uint64(data[:n64]))
		data = data[n64:]
		return f
	}
	getUint := func() uint64 {
		n := order.Uint64(data[:n64])
		data = data[n64:]
		return n
	}

	r.SampleRate = getFloat()
	r.Data.Calibration.Shift = getFloat()
	r.Data.Calibration.Scale = getFloat()
	r.Data.Calibration.Drift = getFloat()
	r.Data.Calibration.Var = getFloat()

	r.Data.Events = make([]align.Event, getUint())
	for i := range r.Data.Events {
		r.Data.Events[i] = align.Event{
			Mean:     getFloat(),
			Stdv:     getFloat(),
			RawStart: int64(getUint()),
			RawEnd:   int64(getUint()),
		}
	}

	r.Data.BaseToEvent = make([]*align.EventRange, getUint())
	for i := range r.Data.BaseToEvent {
		present := data[0]
		data = data[1:]
		if present == 0 {
			continue
		}
		start := int(getUint())
		stop := int(getUint())
		r.Data.BaseToEvent[i] = &align.EventRange{Start: start, Stop: stop}
	}

	return r
}
