// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import "strings"

// Record is one row of the event-to-base alignment table.
type Record struct {
	EventIndex  int
	BaseIndex   int
	StrandIndex int
	EventMean   float64
	EventStdv   float64
	RawStart    float64
	RawLength   float64
	Kmer        string
}

// Source bundles the per-strand views a RecordScanner iterates over.
type Source struct {
	Strand      *Strand
	StrandIndex int

	// EventToBase is the inverted base-to-event map for Strand,
	// as produced by InvertMap.
	EventToBase []BaseIndex

	// Sequence is the read's called base sequence.
	Sequence string

	SampleRate float64
}

// RecordScanner yields one Record per event of a strand, in increasing
// event index order. It is a single pass iterator; events with no aligned
// base inherit the base index of the most recent aligned event (0 before
// any event has been aligned) and carry a placeholder k-mer.
type RecordScanner struct {
	src    Source
	k      int
	scaled bool
	unk    string

	next   int
	cursor int
	cur    Record
}

// NewRecordScanner returns a scanner over the events of src using k-mers
// of length k. If scaled is true, event means are reported on the
// recalibrated scale.
func NewRecordScanner(src Source, k int, scaled bool) *RecordScanner {
	return &RecordScanner{
		src:    src,
		k:      k,
		scaled: scaled,
		unk:    strings.Repeat("N", k),
	}
}

// Next advances the scanner to the next event. It returns false when all
// events have been consumed.
func (sc *RecordScanner) Next() bool {
	if sc.next >= len(sc.src.Strand.Events) {
		return false
	}
	i := sc.next
	sc.next++

	e := sc.src.Strand.Events[i]
	kmer := sc.unk
	if b := sc.src.EventToBase[i]; b.OK {
		sc.cursor = b.Pos
		kmer = kmerAt(sc.src.Sequence, b.Pos, sc.k)
	}
	mean := e.Mean
	if sc.scaled {
		mean = sc.src.Strand.ScaledLevel(i, sc.src.SampleRate)
	}
	sc.cur = Record{
		EventIndex:  i,
		BaseIndex:   sc.cursor,
		StrandIndex: sc.src.StrandIndex,
		EventMean:   mean,
		EventStdv:   e.Stdv,
		RawStart:    float64(e.RawStart),
		RawLength:   float64(e.RawEnd - e.RawStart),
		Kmer:        kmer,
	}
	return true
}

// Record returns the record for the event the scanner is positioned on.
func (sc *RecordScanner) Record() Record { return sc.cur }

// kmerAt returns the length k substring of seq starting at pos, truncated
// at the end of seq rather than padded.
func kmerAt(seq string, pos, k int) string {
	if pos >= len(seq) {
		return ""
	}
	end := pos + k
	if end > len(seq) {
		end = len(seq)
	}
	return seq[pos:end]
}
