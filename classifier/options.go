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

// Kernel constants. MinHitLen is configurable at construction;
// increment and the weight quadratic offset are hard design constants,
// not exposed as options.
const (
	// DefaultMinHitLen is the default minimum seed length that may
	// contribute to the tally.
	DefaultMinHitLen = 22

	// increment is the cursor back-off/advance step used while driving
	// the bidirectional search.
	increment = 10

	// weightOffset is the quadratic weight function's hard-coded bias
	// against short matches: w = (L - weightOffset)^2.
	weightOffset = 15
)

// ReportMode selects how the final GenusMap is flattened into report
// records: reporting every taxon present, or collapsing to the
// tied top-scoring genus/genera only.
type ReportMode int

const (
	// ReportAllTaxa emits one record per (genus, species) present in the
	// GenusMap, in insertion order. This is the default/canonical mode.
	ReportAllTaxa ReportMode = iota

	// ReportTopGenusOnly emits only the tied top-scoring genus/genera,
	// each paired with its own highest-scoring species.
	ReportTopGenusOnly
)

// Options configures one Classifier.
type Options struct {
	// MinHitLen is the minimum seed length (in bases) that may
	// contribute to the tally; shorter PartialHits are carried through
	// the hit list but ignored by every downstream stage.
	MinHitLen int

	// MaxGenomeHitSize (khits) bounds the number of reference
	// coordinates materialized per mate.
	MaxGenomeHitSize int

	// ReportMode selects the final reporting behavior.
	ReportMode ReportMode
}

// DefaultOptions returns the default kernel configuration.
func DefaultOptions() Options {
	return Options{
		MinHitLen:        DefaultMinHitLen,
		MaxGenomeHitSize: 30,
		ReportMode:       ReportAllTaxa,
	}
}

// weight computes the quadratic per-seed weight for a seed of length L.
// Uses signed arithmetic so a pathological MinHitLen below weightOffset
// cannot underflow into a huge value.
func weight(seedLen int) uint32 {
	d := seedLen - weightOffset
	return uint32(d * d)
}

// dominanceGap computes (remaining_length - 15)^2, the early
// termination bound: once the best score exceeds the second-best score
// by more than this, no remaining unprocessed hit length could close
// the gap.
func dominanceGap(remainingLength int) uint32 {
	d := remainingLength - weightOffset
	return uint32(d * d)
}
