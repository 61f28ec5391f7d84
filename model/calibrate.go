// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/mitenjain/nanopolish/align"
)

// Calibrate fits the affine recalibration of a strand's events against
// the pore model t by least squares, pairing each aligned event's
// observed mean with the expected level of the k-mer under it,
// observed = scale·expected + shift. Drift is not fitted and Var is the
// variance of the fit residuals. At least two events aligned to k-mers
// present in t are required.
func Calibrate(events []align.Event, eventToBase []align.BaseIndex, sequence string, t *Table) (align.Calibration, error) {
	var expected, observed []float64
	for i, e := range events {
		b := eventToBase[i]
		if !b.OK || b.Pos+t.K > len(sequence) {
			continue
		}
		l, ok := t.Level(sequence[b.Pos : b.Pos+t.K])
		if !ok {
			continue
		}
		expected = append(expected, l.Mean)
		observed = append(observed, e.Mean)
	}
	if len(expected) < 2 {
		return align.Calibration{}, fmt.Errorf("model: %d usable events, need at least 2 to calibrate", len(expected))
	}

	shift, scale := stat.LinearRegression(expected, observed, nil, false)
	if scale == 0 {
		return align.Calibration{}, fmt.Errorf("model: degenerate fit: scale is zero")
	}
	resid := make([]float64, len(expected))
	for i := range resid {
		resid[i] = observed[i] - (shift + scale*expected[i])
	}
	return align.Calibration{
		Shift: shift,
		Scale: scale,
		Var:   stat.Variance(resid, nil),
	}, nil
}
