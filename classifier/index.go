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

import "math/rand"

// Range is a half-open SA range [Top, Bot) together with the number of
// query bases already consumed to reach it (Depth). Depth is bookkeeping
// for the index adapter; the kernel never inspects it directly.
type Range struct {
	Top, Bot uint64
	Depth    int
}

// Empty reports whether the range contains no suffixes.
func (r Range) Empty() bool {
	return r.Bot <= r.Top
}

// Size returns the number of reference occurrences the range represents.
func (r Range) Size() uint64 {
	if r.Empty() {
		return 0
	}
	return r.Bot - r.Top
}

// Coord is one concrete reference coordinate resolved from an SA range.
type Coord struct {
	RefID  uint32
	Offset uint64

	// Strand records the strand the occurrence was found on. Forward-
	// strand PartialHits are passed fw==false when walked, so a forward
	// hit's coordinates come back with Strand == false; callers indexing
	// by "selected strand == forward" must not assume Strand == true
	// means forward. Strand is exactly MaterializeCoords'
	// strandFwInverted argument; Classify's scoring does not read it.
	Strand bool
}

// Index is the opaque FM-index-like contract the kernel depends on. Its
// implementation — suffix-array construction, the BWT step, the
// bitpacked reference — is out of scope for this package; package
// fmindex provides one concrete instance.
type Index interface {
	// FullRange returns the SA range spanning the whole index, the
	// starting point of every partial_search call.
	FullRange() Range

	// ExtendRight narrows rng by one base, returning the narrowed range
	// and false when no occurrences remain.
	ExtendRight(rng Range, base byte) (Range, bool)

	// WalkSA materializes up to maxElements concrete reference
	// coordinates from rng. When rng is larger than maxElements the
	// returned subset is drawn uniformly at random from the full range
	// using rnd. Returns a non-nil error only on structural index
	// corruption — an empty rng or empty result is not an error.
	WalkSA(rng Range, maxElements int, rnd *rand.Rand) ([]Coord, error)

	// ReferenceCount returns the number of reference sequences.
	ReferenceCount() int

	// ReferenceName resolves a reference id to its name, for parsing the
	// embedded taxon id when no external reference table is supplied.
	ReferenceName(refID uint32) (string, error)
}
