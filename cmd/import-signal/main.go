// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// import-signal builds a signal index db from a JSONL signal dump. Each
// input line describes one read:
//
//	{
//		"read_id": "...",
//		"sample_rate": 4000,
//		"strands": [{
//			"strand": 0,
//			"calibration": {"shift": 0, "scale": 1, "drift": 0, "var": 0},
//			"events": [{"mean": 0, "stdv": 0, "raw_start": 0, "raw_end": 0}, ...],
//			"base_to_event": [[0, 2], null, [3, 3], ...]
//		}]
//	}
//
// A null base_to_event entry means no events aligned to that base. If a
// strand carries no calibration and -reads and -model are given, an affine
// recalibration is fitted from the read sequence against the pore model;
// otherwise an identity calibration is stored.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/biogo/hts/fai"

	"github.com/mitenjain/nanopolish/align"
	"github.com/mitenjain/nanopolish/internal/store"
	"github.com/mitenjain/nanopolish/model"
)

func main() {
	events := flag.String("events", "", "specify the JSONL signal dump (required)")
	dbPath := flag.String("db", "", "specify the signal index db to create (required)")
	reads := flag.String("reads", "", "specify the read sequence fasta for calibration fitting")
	modelPath := flag.String("model", "", "specify the pore model table for calibration fitting")
	verbose := flag.Bool("verbose", false, "specify verbose logging")
	flag.Parse()

	if *events == "" || *dbPath == "" || flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}
	if (*reads == "") != (*modelPath == "") {
		log.Fatal("-reads and -model must be provided together")
	}

	var (
		tab *model.Table
		fa  *fai.File
	)
	if *modelPath != "" {
		var err error
		tab, err = model.OpenTable(*modelPath)
		if err != nil {
			log.Fatal(err)
		}

		f, err := os.Open(*reads)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		idx, err := fai.NewIndex(f)
		if err != nil {
			log.Fatal(err)
		}
		_, err = f.Seek(0, io.SeekStart)
		if err != nil {
			log.Fatal(err)
		}
		fa = fai.NewFile(f, idx)
	}

	in, err := os.Open(*events)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	db, err := store.Create(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	n, err := importAll(in, db, tab, fa, *verbose)
	if err != nil {
		log.Fatal(err)
	}
	if *verbose {
		log.Printf("imported %d reads into %s", n, *dbPath)
	}
}

// signalDump mirrors one line of the JSONL signal dump.
type signalDump struct {
	ReadID     string       `json:"read_id"`
	SampleRate float64      `json:"sample_rate"`
	Strands    []strandDump `json:"strands"`
}

type strandDump struct {
	Strand      uint8            `json:"strand"`
	Calibration *calibrationDump `json:"calibration"`
	Events      []eventDump      `json:"events"`
	BaseToEvent []*[2]int        `json:"base_to_event"`
}

type calibrationDump struct {
	Shift float64 `json:"shift"`
	Scale float64 `json:"scale"`
	Drift float64 `json:"drift"`
	Var   float64 `json:"var"`
}

type eventDump struct {
	Mean     float64 `json:"mean"`
	Stdv     float64 `json:"stdv"`
	RawStart int64   `json:"raw_start"`
	RawEnd   int64   `json:"raw_end"`
}

// importAll decodes reads from r and stores one record per strand in db,
// fitting calibrations against tab where needed and possible. Malformed
// input and duplicate read strands abort the import.
func importAll(r io.Reader, db *store.DB, tab *model.Table, fa *fai.File, verbose bool) (n int, err error) {
	dec := json.NewDecoder(r)
	for {
		var d signalDump
		err := dec.Decode(&d)
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("read %d: %w", n+1, err)
		}
		if d.ReadID == "" {
			return n, fmt.Errorf("read %d: missing read_id", n+1)
		}

		for _, s := range d.Strands {
			rec, err := toRecord(d, s)
			if err != nil {
				return n, err
			}
			if s.Calibration == nil && tab != nil {
				cal, err := fitCalibration(rec, tab, fa)
				if err != nil {
					return n, fmt.Errorf("read %s strand %d: %w", d.ReadID, s.Strand, err)
				}
				rec.Data.Calibration = cal
				if verbose {
					log.Printf("calibrated %s strand %d: shift=%.3f scale=%.3f", d.ReadID, s.Strand, cal.Shift, cal.Scale)
				}
			}
			ok, err := db.Has(rec.ID, rec.Strand)
			if err != nil {
				return n, err
			}
			if ok {
				return n, fmt.Errorf("duplicate read %s strand %d", rec.ID, rec.Strand)
			}
			err = db.Put(rec)
			if err != nil {
				return n, err
			}
		}
		n++
	}
}

// toRecord converts one dumped strand to its store representation. A
// strand with no calibration gets the identity calibration.
func toRecord(d signalDump, s strandDump) (store.StrandRecord, error) {
	rec := store.StrandRecord{
		ID:         d.ReadID,
		Strand:     s.Strand,
		SampleRate: d.SampleRate,
	}

	rec.Data.Events = make([]align.Event, len(s.Events))
	for i, e := range s.Events {
		if e.RawEnd < e.RawStart {
			return rec, fmt.Errorf("read %s strand %d event %d: inverted raw extent [%d, %d)", d.ReadID, s.Strand, i, e.RawStart, e.RawEnd)
		}
		rec.Data.Events[i] = align.Event{Mean: e.Mean, Stdv: e.Stdv, RawStart: e.RawStart, RawEnd: e.RawEnd}
	}

	rec.Data.BaseToEvent = make([]*align.EventRange, len(s.BaseToEvent))
	for i, p := range s.BaseToEvent {
		if p == nil {
			continue
		}
		if p[1] < p[0] {
			return rec, fmt.Errorf("read %s strand %d base %d: inverted event range [%d, %d]", d.ReadID, s.Strand, i, p[0], p[1])
		}
		rec.Data.BaseToEvent[i] = &align.EventRange{Start: p[0], Stop: p[1]}
	}

	if s.Calibration != nil {
		rec.Data.Calibration = align.Calibration{
			Shift: s.Calibration.Shift,
			Scale: s.Calibration.Scale,
			Drift: s.Calibration.Drift,
			Var:   s.Calibration.Var,
		}
	} else {
		rec.Data.Calibration = align.Calibration{Scale: 1}
	}
	return rec, nil
}

// fitCalibration fits rec's events against the pore model using the read's
// called sequence looked up from the fai-indexed reads file.
func fitCalibration(rec store.StrandRecord, tab *model.Table, fa *fai.File) (align.Calibration, error) {
	sr, err := fa.Seq(rec.ID)
	if err != nil {
		return align.Calibration{}, fmt.Errorf("sequence lookup: %w", err)
	}
	b, err := io.ReadAll(sr)
	if err != nil {
		return align.Calibration{}, err
	}

	eventToBase := align.InvertMap(len(rec.Data.Events), rec.Data.BaseToEvent)
	return model.Calibrate(rec.Data.Events, eventToBase, string(b), tab)
}
