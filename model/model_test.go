// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"strings"
	"testing"

	"github.com/mitenjain/nanopolish/align"
)

const modelText = `# test pore model
kmer	level_mean	level_stdv
AACGTA	82.5	1.2
ACGTAC	90.25	1.5

CGTACG	101.0	2.0
`

func TestReadTable(t *testing.T) {
	tab, err := ReadTable(strings.NewReader(modelText))
	if err != nil {
		t.Fatal(err)
	}
	if tab.K != 6 {
		t.Errorf("k = %d, want 6", tab.K)
	}
	if tab.Len() != 3 {
		t.Errorf("len = %d, want 3", tab.Len())
	}
	l, ok := tab.Level("ACGTAC")
	if !ok || l.Mean != 90.25 || l.Stdv != 1.5 {
		t.Errorf("Level(ACGTAC) = %+v, %t", l, ok)
	}
	if _, ok := tab.Level("TTTTTT"); ok {
		t.Error("unexpected level for absent k-mer")
	}
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "mixed k", text: "ACGTAC\t90\t1\nACGTA\t80\t1\n"},
		{name: "duplicate kmer", text: "ACGTAC\t90\t1\nACGTAC\t91\t1\n"},
		{name: "bad mean", text: "ACGTAC\tninety\t1\n"},
		{name: "missing fields", text: "ACGTAC\t90\n"},
		{name: "empty", text: "# nothing here\n"},
	}
	for _, tc := range tests {
		_, err := ReadTable(strings.NewReader(tc.text))
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestCalibrate(t *testing.T) {
	tab, err := ReadTable(strings.NewReader(modelText))
	if err != nil {
		t.Fatal(err)
	}

	// Observed levels lie exactly on observed = 2·expected + 10.
	seq := "AACGTACG"
	events := []align.Event{
		{Mean: 2*82.5 + 10},  // AACGTA at base 0
		{Mean: 2*90.25 + 10}, // ACGTAC at base 1
		{Mean: 2*101 + 10},   // CGTACG at base 2
		{Mean: 999},          // unaligned, ignored
	}
	eventToBase := []align.BaseIndex{
		{Pos: 0, OK: true},
		{Pos: 1, OK: true},
		{Pos: 2, OK: true},
		{},
	}

	cal, err := Calibrate(events, eventToBase, seq, tab)
	if err != nil {
		t.Fatal(err)
	}
	const tol = 1e-9
	if math.Abs(cal.Shift-10) > tol {
		t.Errorf("shift = %v, want 10", cal.Shift)
	}
	if math.Abs(cal.Scale-2) > tol {
		t.Errorf("scale = %v, want 2", cal.Scale)
	}
	if cal.Drift != 0 {
		t.Errorf("drift = %v, want 0", cal.Drift)
	}
	if math.Abs(cal.Var) > tol {
		t.Errorf("var = %v, want 0 for an exact fit", cal.Var)
	}
}

func TestCalibrateTooFewEvents(t *testing.T) {
	tab, err := ReadTable(strings.NewReader(modelText))
	if err != nil {
		t.Fatal(err)
	}
	events := []align.Event{{Mean: 100}}
	eventToBase := []align.BaseIndex{{Pos: 0, OK: true}}
	_, err = Calibrate(events, eventToBase, "AACGTACG", tab)
	if err == nil {
		t.Error("expected error with a single usable event")
	}
}
