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

import "github.com/shenwei356/kmers"

// PartialSearch starts at startOffset in seq and extends the longest
// exact match against idx one base at a time via ExtendRight, appends
// the resulting PartialHit to hit, and advances hit.Cursor/hit.Done.
//
// BwOff is derived, not searched for: since the match spans
// [startOffset, startOffset+length) and BwOff is defined as the distance
// from the match's right edge to the read's right edge, BwOff =
// len(seq) - startOffset - length.
func PartialSearch(idx Index, seq []byte, startOffset int, minHitLen int, hit *ReadBWTHit) {
	rdlen := len(seq)

	rng := idx.FullRange()
	length := 0
	pos := startOffset
	for pos < rdlen {
		next, ok := idx.ExtendRight(rng, seq[pos])
		if !ok || next.Empty() {
			break
		}
		rng = next
		length++
		pos++
	}

	ph := PartialHit{
		BwOff: rdlen - startOffset - length,
		Len:   length,
	}
	if length > 0 {
		ph.Top, ph.Bot = rng.Top, rng.Bot
		if length <= 32 {
			if code, err := kmers.Encode(seq[startOffset : startOffset+length]); err == nil {
				ph.seedCode, ph.seedCodeSet = code, true
			}
		}
	}
	hit.Hits = append(hit.Hits, ph)

	if length > 0 {
		hit.Cursor = startOffset + length
	} else {
		hit.Cursor = startOffset + 1
	}
	if rdlen-hit.Cursor < minHitLen {
		hit.Done = true
	}
}

// strandMaxDiff is the progress-balance pruning threshold: once one
// strand's cursor outruns the other's by more than this, the lagging
// strand is abandoned.
func strandMaxDiff(rdlen, minHitLen int) int {
	d := rdlen / 2
	if 2*minHitLen > d {
		d = 2 * minHitLen
	}
	return d
}

// SearchBothStrands runs PartialSearch interleaved on the forward and
// reverse-complement strands of one mate, applying the increment
// back-off/advance rule and the progress-balance pruning rule. hits[0]
// is the forward-strand ReadBWTHit (Fw == true), hits[1] the
// reverse-complement one (Fw == false).
func SearchBothStrands(idx Index, read *Read, minHitLen int) [2]*ReadBWTHit {
	rdlen := read.Len()

	var hits [2]*ReadBWTHit
	hits[0] = &ReadBWTHit{Fw: true, ReadLen: rdlen}
	hits[1] = &ReadBWTHit{Fw: false, ReadLen: rdlen}

	maxDiff := strandMaxDiff(rdlen, minHitLen)

	var cur [2]int
	var done [2]bool

	for !done[0] || !done[1] {
		for fwi := 0; fwi < 2; fwi++ {
			if done[fwi] {
				continue
			}
			h := hits[fwi]
			seq := read.Strand(fwi == 0)

			PartialSearch(idx, seq, h.Cursor, minHitLen, h)
			if h.Done {
				done[fwi] = true
				cur[fwi] = rdlen
				continue
			}

			cur[fwi] = h.Cursor
			last := &h.Hits[len(h.Hits)-1]
			if last.Len > increment {
				if last.Len < minHitLen {
					h.Cursor -= increment
				} else {
					h.Cursor++
				}
			}
			if h.Cursor+minHitLen >= rdlen {
				h.Done = true
				done[fwi] = true
			}
		}

		if cur[0] > cur[1]+maxDiff {
			hits[1].Done = true
			done[1] = true
		} else if cur[1] > cur[0]+maxDiff {
			hits[0].Done = true
			done[0] = true
		}
	}

	return hits
}
