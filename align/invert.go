// Copyright ©2026 the nanopolish Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

// BaseIndex is the base position an event aligns to. OK is false for
// events with no aligned base.
type BaseIndex struct {
	Pos int
	OK  bool
}

// InvertMap builds the event-to-base mapping for a strand with eventCount
// events from its base-to-event map. Base positions are visited in
// increasing order, so where ranges overlap the later base wins. Ranges
// reaching outside [0, eventCount) are clipped.
func InvertMap(eventCount int, baseToEvent []*EventRange) []BaseIndex {
	m := make([]BaseIndex, eventCount)
	for i, r := range baseToEvent {
		if r == nil {
			continue
		}
		for j := max(r.Start, 0); j <= r.Stop && j < eventCount; j++ {
			m[j] = BaseIndex{Pos: i, OK: true}
		}
	}
	return m
}
