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

// PartialHit (BWTHit) is one maximal-match interval against the index on
// a given strand.
type PartialHit struct {
	// BwOff is the start position of the match measured from the right
	// end of the remaining query: len(seq) - startOffset - Len.
	BwOff int

	// Len is the match length in bases.
	Len int

	// Top, Bot is the SA range; Size() == Bot-Top is the number of
	// reference occurrences.
	Top, Bot uint64

	// Coords is lazily filled by MaterializeCoords.
	Coords []Coord

	// seedCode packs the matched bases (when Len <= 32) via
	// github.com/shenwei356/kmers, for diagnostics only — no scoring
	// decision reads it.
	seedCode    uint64
	seedCodeSet bool
}

// Size returns the number of reference occurrences (Bot-Top), 0 for an
// empty range.
func (h *PartialHit) Size() uint64 {
	if h.Bot <= h.Top {
		return 0
	}
	return h.Bot - h.Top
}

// ReadBWTHit is the ordered sequence of PartialHits for one strand of one
// mate.
type ReadBWTHit struct {
	Hits    []PartialHit
	Cursor  int
	Done    bool
	Fw      bool // strand: true == forward, false == reverse-complement
	ReadLen int
}

// OffsetSize returns the number of PartialHits recorded so far.
func (h *ReadBWTHit) OffsetSize() int {
	return len(h.Hits)
}
