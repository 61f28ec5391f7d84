// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mitenjain/nanopolish/align"
)

func testRecord() StrandRecord {
	return StrandRecord{
		ID:         "read-01",
		Strand:     0,
		SampleRate: 4000,
		Data: align.Strand{
			Events: []align.Event{
				{Mean: 85.231, Stdv: 1.5, RawStart: 100, RawEnd: 110},
				{Mean: 90, Stdv: 2, RawStart: 110, RawEnd: 115},
			},
			BaseToEvent: []*align.EventRange{
				{Start: 0, Stop: 1},
				nil,
			},
			Calibration: align.Calibration{Shift: 10, Scale: 2, Drift: 0.01, Var: 0.5},
		},
	}
}

func TestStrandRecordRoundTrip(t *testing.T) {
	want := testRecord()
	got := UnmarshalStrandRecord(MarshalReadKey(want.Key()), MarshalStrandRecord(want))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestByReadStrand(t *testing.T) {
	keys := []ReadKey{
		{ID: "a", Strand: 0},
		{ID: "a", Strand: 1},
		{ID: "ab", Strand: 0},
		{ID: "b", Strand: 0},
	}
	for i, x := range keys {
		for j, y := range keys {
			got := ByReadStrand(MarshalReadKey(x), MarshalReadKey(y))
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got != want {
				t.Errorf("compare(%v, %v) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signal.db")
	db, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	recs := []StrandRecord{testRecord(), testRecord()}
	recs[1].ID = "read-00"
	for _, r := range recs {
		err = db.Put(r)
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.Get("read-01", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, recs[0]) {
		t.Errorf("Get mismatch:\ngot  %+v\nwant %+v", got, recs[0])
	}

	_, err = db.Get("read-01", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing strand: err = %v, want ErrNotFound", err)
	}
	_, err = db.Get("no-such-read", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing read: err = %v, want ErrNotFound", err)
	}

	ok, err := db.Has("read-00", 0)
	if err != nil || !ok {
		t.Errorf("Has(read-00) = %t, %v", ok, err)
	}

	// Enumeration follows read id order regardless of insertion order.
	it, err := db.SeekFirst()
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for {
		k, _, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, UnmarshalReadKey(k).ID)
	}
	want := []string{"read-00", "read-01"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("enumeration order %v, want %v", ids, want)
	}
}
