// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package align provides the event-to-base alignment model for nanopore
// signal data and the construction of per-event alignment records.
package align

// Event is one measured interval of a signal trace.
type Event struct {
	// Mean and Stdv are the unscaled signal level summary.
	Mean float64
	Stdv float64

	// RawStart and RawEnd are the half-open raw sample
	// extent [RawStart, RawEnd) of the event.
	RawStart int64
	RawEnd   int64
}

// EventRange is a contiguous inclusive range [Start, Stop] of event indices.
type EventRange struct {
	Start, Stop int
}

// Calibration holds per-strand affine recalibration parameters mapping
// unscaled event levels onto a reference model's scale.
type Calibration struct {
	Shift float64
	Scale float64
	Drift float64
	Var   float64
}

// Strand is one direction of sequencing signal for a read.
type Strand struct {
	Events []Event

	// BaseToEvent gives, for each base position of the called sequence,
	// the inclusive range of events aligned to that base on this strand.
	// A nil entry means no events aligned to the base.
	BaseToEvent []*EventRange

	Calibration Calibration
}

// ScaledLevel returns the recalibrated level of event i,
// (mean - shift - drift·t)/scale where t is the event's raw start
// sample expressed in seconds at the given sampling rate.
func (s *Strand) ScaledLevel(i int, sampleRate float64) float64 {
	e := s.Events[i]
	var t float64
	if sampleRate > 0 {
		t = float64(e.RawStart) / sampleRate
	}
	return (e.Mean - s.Calibration.Shift - s.Calibration.Drift*t) / s.Calibration.Scale
}

// SignalRead is the signal-domain view of a sequenced read.
type SignalRead struct {
	ID         string
	SampleRate float64
	Strands    []Strand
}
