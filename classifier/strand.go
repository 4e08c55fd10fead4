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

// strandTotals holds the qualifying-PartialHit statistics of one strand
// computed by SelectStrand.
type strandTotals struct {
	sumLen int
	count  int
}

// mean returns the integer-truncated average hit length, matching the
// unsigned integer division the strand comparison is defined against:
// sums that would differ under a floating-point mean (e.g. 81/2 vs.
// 80/2) can truncate to the same integer and fall through to the
// tie-break instead.
func (t strandTotals) mean() int {
	if t.count == 0 {
		return 0
	}
	return t.sumLen / t.count
}

// SelectStrand sums the lengths of qualifying PartialHits (len >=
// minHitLen) on each strand, picks the strand with the higher
// integer-truncated mean length, and ties break to the
// reverse-complement strand (index 1) — hits[1] is Fw==false, matching
// the SearchBothStrands convention. It returns the chosen ReadBWTHit
// and totalHitLength indexed by strand: 0 is the forward strand's sum,
// 1 the reverse-complement's.
func SelectStrand(hits [2]*ReadBWTHit, minHitLen int) (selected *ReadBWTHit, selectedIdx int, totalHitLength [2]int) {
	var totals [2]strandTotals

	for i := 0; i < 2; i++ {
		for _, h := range hits[i].Hits {
			if h.Len < minHitLen {
				continue
			}
			totals[i].sumLen += h.Len
			totals[i].count++
		}
		totalHitLength[i] = totals[i].sumLen
	}

	// Tie breaks to strand 1 (reverse-complement): strand 0 must be
	// strictly better to win.
	if totals[0].mean() > totals[1].mean() {
		return hits[0], 0, totalHitLength
	}
	return hits[1], 1, totalHitLength
}
