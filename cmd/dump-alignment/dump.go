// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/mitenjain/nanopolish/align"
	"github.com/mitenjain/nanopolish/internal/store"
)

// templateStrand is the only strand currently dumped.
const templateStrand = 0

// readJob is one read handed to a worker. Each read is owned by exactly
// one worker for the duration of its processing.
type readJob struct {
	id  string
	seq string
}

// dumpReads streams reads from src and writes one alignment table per read
// to cfg.outputDir, distributing reads over cfg.threads workers. The first
// error stops the run; tables already written are left in place.
func dumpReads(cfg config, src io.Reader, db *store.DB) error {
	jobs := make(chan readJob, cfg.threads)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	wg.Add(cfg.threads)
	for w := 0; w < cfg.threads; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if failed() {
					continue
				}
				err := dumpRead(cfg, j, db)
				if err != nil {
					fail(fmt.Errorf("read %s: %w", j.id, err))
					continue
				}
				if cfg.verbose {
					log.Printf("wrote alignment for %s", j.id)
				}
			}
		}()
	}

	n := 0
	sc := seqio.NewScanner(fasta.NewReader(src, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		if failed() {
			break
		}
		seq := sc.Seq().(*linear.Seq)
		jobs <- readJob{id: seq.ID, seq: seq.Seq.String()}
		n++
	}
	close(jobs)
	wg.Wait()

	if err := sc.Error(); err != nil {
		fail(fmt.Errorf("error during sequence read: %w", err))
	}
	if cfg.verbose {
		log.Printf("processed %d reads", n)
	}
	return firstErr
}

// dumpRead writes the event-to-base table for the template strand of one
// read to {output-dir}/{read id}.tsv.
func dumpRead(cfg config, j readJob, db *store.DB) error {
	rec, err := db.Get(j.id, templateStrand)
	if err != nil {
		return err
	}
	eventToBase := align.InvertMap(len(rec.Data.Events), rec.Data.BaseToEvent)
	sc := align.NewRecordScanner(align.Source{
		Strand:      &rec.Data,
		StrandIndex: templateStrand,
		EventToBase: eventToBase,
		Sequence:    j.seq,
		SampleRate:  rec.SampleRate,
	}, cfg.k, cfg.scaleEvents)

	f, err := os.Create(filepath.Join(cfg.outputDir, j.id+".tsv"))
	if err != nil {
		return err
	}
	err = align.WriteTable(f, sc)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
