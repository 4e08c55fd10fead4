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

// Package fmindex implements the one concrete classifier.Index adapter
// used by this repository: a plain suffix array over the concatenated
// reference collection, with a sentinel byte separating references so
// no match straddles a reference boundary.
//
// This is a simplification of a true FM-index (no BWT, no C/Occ rank
// tables) — classifier.Index's contract only needs range narrowing and
// SA-range-to-offset resolution, both of which a sorted suffix array
// gives directly via binary search, so the full backward-search
// machinery is unnecessary scope here. See DESIGN.md for the tradeoff.
package fmindex

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/shenwei356/seedclass/classifier"
)

// sentinel separates concatenated reference sequences in the index
// text. It must never appear in a read or reference sequence; DNA bases
// (A,C,G,T,N and IUPAC ambiguity codes) are all > 0 as ASCII bytes.
const sentinel byte = 0

// Index is a suffix-array-backed classifier.Index.
type Index struct {
	text      []byte
	sa        []int64
	refStarts []int
	refNames  []string
}

var _ classifier.Index = (*Index)(nil)

// FullRange returns the SA range spanning every suffix.
func (ix *Index) FullRange() classifier.Range {
	return classifier.Range{Top: 0, Bot: uint64(len(ix.sa)), Depth: 0}
}

// ExtendRight narrows rng to the suffixes whose character at position
// rng.Depth equals base. Because every suffix in rng shares the same
// rng.Depth-byte prefix, the array is still sorted by that one next
// character within [Top,Bot) — a binary search finds the sub-range.
func (ix *Index) ExtendRight(rng classifier.Range, base byte) (classifier.Range, bool) {
	depth := rng.Depth
	lo, hi := int(rng.Top), int(rng.Bot)

	charAt := func(i int) byte {
		pos := int(ix.sa[i]) + depth
		if pos >= len(ix.text) {
			return 0
		}
		return ix.text[pos]
	}

	lower := lo + sort.Search(hi-lo, func(k int) bool { return charAt(lo+k) >= base })
	upper := lo + sort.Search(hi-lo, func(k int) bool { return charAt(lo+k) > base })

	next := classifier.Range{Top: uint64(lower), Bot: uint64(upper), Depth: depth + 1}
	return next, !next.Empty()
}

// WalkSA resolves up to maxElements concrete coordinates from rng,
// uniformly subsampling when rng holds more than maxElements suffixes.
func (ix *Index) WalkSA(rng classifier.Range, maxElements int, rnd *rand.Rand) ([]classifier.Coord, error) {
	if rng.Empty() || maxElements <= 0 {
		return nil, nil
	}
	if rng.Top > uint64(len(ix.sa)) || rng.Bot > uint64(len(ix.sa)) || rng.Bot < rng.Top {
		return nil, fmt.Errorf("fmindex: corrupt SA range [%d,%d) over %d suffixes", rng.Top, rng.Bot, len(ix.sa))
	}

	size := int(rng.Size())
	var picks []int // indices relative to rng.Top
	if size <= maxElements {
		picks = make([]int, size)
		for i := range picks {
			picks[i] = i
		}
	} else {
		picks = rnd.Perm(size)[:maxElements]
	}

	coords := make([]classifier.Coord, 0, len(picks))
	for _, p := range picks {
		pos := int(ix.sa[int(rng.Top)+p])
		refID, offset, err := ix.resolve(pos)
		if err != nil {
			return nil, err
		}
		coords = append(coords, classifier.Coord{RefID: refID, Offset: offset})
	}
	return coords, nil
}

// resolve maps a concatenated-text position back to (ref_id, ref_offset)
// via binary search over refStarts.
func (ix *Index) resolve(pos int) (uint32, uint64, error) {
	i := sort.Search(len(ix.refStarts), func(i int) bool { return ix.refStarts[i] > pos }) - 1
	if i < 0 || i >= len(ix.refStarts) {
		return 0, 0, fmt.Errorf("fmindex: position %d resolves outside any reference", pos)
	}
	return uint32(i), uint64(pos - ix.refStarts[i]), nil
}

// ReferenceCount returns the number of reference sequences indexed.
func (ix *Index) ReferenceCount() int {
	return len(ix.refNames)
}

// ReferenceName resolves a reference id to its name.
func (ix *Index) ReferenceName(refID uint32) (string, error) {
	if int(refID) >= len(ix.refNames) {
		return "", fmt.Errorf("fmindex: reference id %d out of range [0,%d)", refID, len(ix.refNames))
	}
	return ix.refNames[refID], nil
}
