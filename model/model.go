// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model provides pore model tables and recalibration of event
// levels against them.
package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Level is the expected signal level parameters for one k-mer.
type Level struct {
	Mean float64
	Stdv float64
}

// Table is a pore model, mapping each k-mer to its expected level.
type Table struct {
	K int

	levels map[string]Level
}

// Level returns the expected level for kmer and whether the table
// contains it.
func (t *Table) Level(kmer string) (Level, bool) {
	l, ok := t.levels[kmer]
	return l, ok
}

// Len returns the number of k-mers in the table.
func (t *Table) Len() int { return len(t.levels) }

// ReadTable parses a pore model from r. Each line holds a k-mer, a level
// mean and a level standard deviation separated by whitespace. Blank
// lines, comment lines starting with '#' and a leading "kmer" header line
// are skipped. The k-mer length is taken from the first entry.
func ReadTable(r io.Reader) (*Table, error) {
	t := &Table{levels: make(map[string]Level)}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if fields[0] == "kmer" {
			continue
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("model: line %d: expected kmer, level_mean and level_stdv fields", line)
		}
		mean, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("model: line %d: %w", line, err)
		}
		stdv, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("model: line %d: %w", line, err)
		}
		kmer := fields[0]
		if t.K == 0 {
			t.K = len(kmer)
		} else if len(kmer) != t.K {
			return nil, fmt.Errorf("model: line %d: k-mer %q does not match k=%d", line, kmer, t.K)
		}
		if _, exists := t.levels[kmer]; exists {
			return nil, fmt.Errorf("model: line %d: duplicate k-mer %q", line, kmer)
		}
		t.levels[kmer] = Level{Mean: mean, Stdv: stdv}
	}
	err := sc.Err()
	if err != nil {
		return nil, err
	}
	if len(t.levels) == 0 {
		return nil, fmt.Errorf("model: no k-mer entries")
	}
	return t, nil
}

// OpenTable reads a pore model from the file at path.
func OpenTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
