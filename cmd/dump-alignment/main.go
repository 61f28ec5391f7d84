// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// dump-alignment writes the event-to-basecall alignment of nanopore reads.
// For each read in the input sequence file it resolves the read's signal
// data from a signal index, inverts the base-to-event map of the template
// strand and writes one tab-separated table per read to the output
// directory, one row per event.
package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mitenjain/nanopolish/internal/store"
)

const version = "0.1.0"

// config is the validated option set for a run. It is constructed once in
// main and passed by value.
type config struct {
	reads       string
	db          string
	outputDir   string
	threads     int
	k           int
	scaleEvents bool
	verbose     bool
}

func main() {
	reads := flag.String("reads", "", "specify the read sequence file, fasta or gzipped fasta (required)")
	dbPath := flag.String("db", "", "specify the signal index db (required)")
	outputDir := flag.String("output-dir", ".", "specify the output directory")
	threads := flag.Int("threads", 1, "specify the number of worker threads")
	k := flag.Int("k", 6, "specify the k-mer length")
	scaleEvents := flag.Bool("scale-events", false, "specify to report recalibrated event means")
	verbose := flag.Bool("verbose", false, "specify verbose logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dump-alignment %s\n", version)
		return
	}
	if *reads == "" || *dbPath == "" || *threads <= 0 || *k <= 0 || flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}
	cfg := config{
		reads:       *reads,
		db:          *dbPath,
		outputDir:   *outputDir,
		threads:     *threads,
		k:           *k,
		scaleEvents: *scaleEvents,
		verbose:     *verbose,
	}

	in, err := os.Open(cfg.reads)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()
	var src io.Reader = in
	if strings.HasSuffix(cfg.reads, ".gz") {
		gz, err := gzip.NewReader(in)
		if err != nil {
			log.Fatalf("open %s: %v", cfg.reads, err)
		}
		defer gz.Close()
		src = gz
	}

	db, err := store.Open(cfg.db)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	err = dumpReads(cfg, src, db)
	if err != nil {
		log.Fatal(err)
	}
}
