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

// MaterializeCoords resolves a PartialHit's SA range into at most
// maxGenomeHitSize reference coordinates (the index adapter's own
// subsampling applies when the range is larger). The per-read
// cumulative cap and the shuffle-before-truncate step live in Classify,
// since the shuffle decision depends on genomeHitCnt accumulated across
// every PartialHit processed so far, not just this one.
//
// strandFwInverted is passed straight through to Coord.Strand: pass
// false for the forward strand's PartialHits.
func MaterializeCoords(idx Index, hit *PartialHit, maxGenomeHitSize int, strandFwInverted bool, rnd *rand.Rand) error {
	rng := Range{Top: hit.Top, Bot: hit.Bot}
	coords, err := idx.WalkSA(rng, maxGenomeHitSize, rnd)
	if err != nil {
		return err
	}
	for i := range coords {
		coords[i].Strand = strandFwInverted
	}
	hit.Coords = coords
	return nil
}

// ShuffleIfOverflowing shuffles coords in place, unbiasing the caller's
// subsequent truncation to the remaining budget, whenever the
// already-materialized cumulative count plus this hit's freshly walked
// coordinates would exceed maxGenomeHitSize.
func ShuffleIfOverflowing(coords []Coord, genomeHitCnt, maxGenomeHitSize int, rnd *rand.Rand) {
	if genomeHitCnt+len(coords) > maxGenomeHitSize {
		rnd.Shuffle(len(coords), func(i, j int) {
			coords[i], coords[j] = coords[j], coords[i]
		})
	}
}
