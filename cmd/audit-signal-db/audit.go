// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The audit-signal-db command allows a signal index built by import-signal
// to be inspected. It iterates the db in read order and emits one JSON
// object per strand record on stdout, summarising the stored events:
// event count, aligned base count, level statistics and the raw sample
// coverage of the event extents. Raw extents that overlap are reported but
// are not an error.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"math"
	"os"

	"github.com/biogo/store/step"
	"gonum.org/v1/gonum/stat"

	"github.com/mitenjain/nanopolish/internal/store"
)

func main() {
	path := flag.String("db", "", "specify the signal index db to audit (required)")
	flag.Parse()
	if *path == "" || flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	db, err := store.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	it, err := db.SeekFirst()
	if err != nil {
		if err == io.EOF {
			return
		}
		log.Fatal(err)
	}
	enc := json.NewEncoder(os.Stdout)
	for {
		k, v, err := it.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Fatal(err)
		}
		s, err := summarize(store.UnmarshalStrandRecord(k, v))
		if err != nil {
			log.Fatal(err)
		}
		err = enc.Encode(s)
		if err != nil {
			log.Fatal(err)
		}
	}
}

// summary describes one strand record of the signal index.
type summary struct {
	ReadID       string  `json:"read_id"`
	Strand       uint8   `json:"strand"`
	SampleRate   float64 `json:"sample_rate"`
	Events       int     `json:"events"`
	Bases        int     `json:"bases"`
	AlignedBases int     `json:"aligned_bases"`
	LevelMean    float64 `json:"level_mean"`
	LevelStdv    float64 `json:"level_stdv"`
	RawSamples   int64   `json:"raw_samples"`
	SpanStart    int64   `json:"span_start"`
	SpanEnd      int64   `json:"span_end"`
	Covered      int     `json:"covered_samples"`
	Overlapped   int     `json:"overlapped_samples"`
}

func summarize(rec store.StrandRecord) (summary, error) {
	s := summary{
		ReadID:     rec.ID,
		Strand:     rec.Strand,
		SampleRate: rec.SampleRate,
		Events:     len(rec.Data.Events),
		Bases:      len(rec.Data.BaseToEvent),
	}
	for _, r := range rec.Data.BaseToEvent {
		if r != nil {
			s.AlignedBases++
		}
	}
	if len(rec.Data.Events) == 0 {
		return s, nil
	}

	means := make([]float64, len(rec.Data.Events))
	for i, e := range rec.Data.Events {
		means[i] = e.Mean
		s.RawSamples += e.RawEnd - e.RawStart
	}
	s.LevelMean = stat.Mean(means, nil)
	s.LevelStdv = math.Sqrt(stat.Variance(means, nil))

	s.SpanStart = rec.Data.Events[0].RawStart
	s.SpanEnd = rec.Data.Events[0].RawEnd
	for _, e := range rec.Data.Events[1:] {
		if e.RawStart < s.SpanStart {
			s.SpanStart = e.RawStart
		}
		if e.RawEnd > s.SpanEnd {
			s.SpanEnd = e.RawEnd
		}
	}

	cover, err := step.New(0, 1, depth(0))
	if err != nil {
		return s, err
	}
	cover.Relaxed = true
	for _, e := range rec.Data.Events {
		if e.RawEnd == e.RawStart {
			continue
		}
		err = cover.ApplyRange(int(e.RawStart), int(e.RawEnd), func(v step.Equaler) step.Equaler {
			return v.(depth) + 1
		})
		if err != nil {
			return s, err
		}
	}
	cover.Do(func(start, end int, v step.Equaler) {
		d := v.(depth)
		if d > 0 {
			s.Covered += end - start
		}
		if d > 1 {
			s.Overlapped += end - start
		}
	})
	return s, nil
}

// depth is a step vector element counting raw sample coverage depth.
type depth int

func (d depth) Equal(e step.Equaler) bool {
	return d == e.(depth)
}
