// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package classifier

import "sync/atomic"

// Metrics is the set of monotonically increasing counters surfaced by
// the classification kernel: total SA-range size walked, materialized
// coordinates, per-read hit count and early-termination count. A
// Classifier owns one Metrics privately; Merge folds a worker's Metrics
// into an aggregate for cross-worker reporting.
type Metrics struct {
	SARangeWalked      uint64
	CoordsMaterialized uint64
	Hits               uint64
	EarlyTerminations  uint64
	SkippedShortReads  uint64
}

// Merge atomically folds other into m, field by field. Safe to call from
// multiple goroutines aggregating independent per-worker Metrics values
// into one shared total; it does not synchronize reads of other.
func (m *Metrics) Merge(other *Metrics) {
	atomic.AddUint64(&m.SARangeWalked, other.SARangeWalked)
	atomic.AddUint64(&m.CoordsMaterialized, other.CoordsMaterialized)
	atomic.AddUint64(&m.Hits, other.Hits)
	atomic.AddUint64(&m.EarlyTerminations, other.EarlyTerminations)
	atomic.AddUint64(&m.SkippedShortReads, other.SkippedShortReads)
}

// Reset zeroes every counter, for reuse of a per-worker Metrics value
// between batches.
func (m *Metrics) Reset() {
	*m = Metrics{}
}
