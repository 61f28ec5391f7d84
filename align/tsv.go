// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import (
	"bufio"
	"fmt"
	"io"
)

const tableHeader = "event_index\tbase_index\tstrand_index\tevent_mean\tevent_stdv\traw_start\traw_length\tkmer"

// WriteTable writes the header row and then one tab-separated row for each
// record remaining in sc. Floating point fields are emitted with six
// decimal places.
func WriteTable(w io.Writer, sc *RecordScanner) error {
	bw := bufio.NewWriter(w)
	_, err := fmt.Fprintln(bw, tableHeader)
	if err != nil {
		return err
	}
	for sc.Next() {
		r := sc.Record()
		_, err = fmt.Fprintf(bw, "%d\t%d\t%d\t%.6f\t%.6f\t%.6f\t%.6f\t%s\n",
			r.EventIndex, r.BaseIndex, r.StrandIndex, r.EventMean, r.EventStdv, r.RawStart, r.RawLength, r.Kmer)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
