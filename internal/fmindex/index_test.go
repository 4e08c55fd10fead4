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

package fmindex

import (
	"math/rand"
	"testing"

	"github.com/shenwei356/seedclass/classifier"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()
	refs := []Reference{
		{Name: "ref0", Bases: []byte("ACGTACGTTTGGCCAAACGTACGA")},
		{Name: "ref1", Bases: []byte("GGGGCCCCTTTTAAAA")},
		{Name: "ref2", Bases: []byte("ACGTACGTTTGGCCAAATTTTGGG")}, // shares a prefix with ref0
	}
	idx, err := Build(refs, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func extend(t *testing.T, idx *Index, rng classifier.Range, s string) (classifier.Range, bool) {
	t.Helper()
	ok := true
	for i := 0; i < len(s) && ok; i++ {
		rng, ok = idx.ExtendRight(rng, s[i])
	}
	return rng, ok
}

func TestExtendRightUniqueMatch(t *testing.T) {
	idx := buildTestIndex(t)

	rng, ok := extend(t, idx, idx.FullRange(), "GGGGCCCC")
	if !ok || rng.Empty() {
		t.Fatalf("expected a match for GGGGCCCC")
	}
	if rng.Size() != 1 {
		t.Errorf("Size() = %d, want 1", rng.Size())
	}

	coords, err := idx.WalkSA(rng, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("WalkSA: %v", err)
	}
	if len(coords) != 1 {
		t.Fatalf("len(coords) = %d, want 1", len(coords))
	}
	if coords[0].RefID != 1 || coords[0].Offset != 0 {
		t.Errorf("coord = %+v, want {RefID:1 Offset:0}", coords[0])
	}
}

func TestExtendRightSharedPrefix(t *testing.T) {
	idx := buildTestIndex(t)

	// ref0 and ref2 share this 17-base prefix; ref1 does not contain it.
	rng, ok := extend(t, idx, idx.FullRange(), "ACGTACGTTTGGCCAAA")
	if !ok || rng.Empty() {
		t.Fatalf("expected a match for the shared prefix")
	}
	if rng.Size() != 2 {
		t.Errorf("Size() = %d, want 2 (ref0 and ref2 both match)", rng.Size())
	}

	coords, err := idx.WalkSA(rng, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("WalkSA: %v", err)
	}
	seen := map[uint32]bool{}
	for _, c := range coords {
		seen[c.RefID] = true
		if c.Offset != 0 {
			t.Errorf("coord %+v: want Offset 0", c)
		}
	}
	if !seen[0] || !seen[2] {
		t.Errorf("expected coordinates from ref0 and ref2, got %v", coords)
	}
}

func TestExtendRightNoMatch(t *testing.T) {
	idx := buildTestIndex(t)

	_, ok := extend(t, idx, idx.FullRange(), "ZZZZZZZZ")
	if ok {
		t.Fatalf("expected no match for a base absent from the index")
	}
}

func TestWalkSASubsamplesWithinBudget(t *testing.T) {
	idx := buildTestIndex(t)

	rng, ok := extend(t, idx, idx.FullRange(), "ACGTACGTTTGGCCAAA")
	if !ok {
		t.Fatalf("expected a match")
	}

	coords, err := idx.WalkSA(rng, 1, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("WalkSA: %v", err)
	}
	if len(coords) != 1 {
		t.Fatalf("len(coords) = %d, want 1 (capped)", len(coords))
	}
}

func TestReferenceNameAndCount(t *testing.T) {
	idx := buildTestIndex(t)

	if idx.ReferenceCount() != 3 {
		t.Fatalf("ReferenceCount() = %d, want 3", idx.ReferenceCount())
	}
	name, err := idx.ReferenceName(1)
	if err != nil {
		t.Fatalf("ReferenceName(1): %v", err)
	}
	if name != "ref1" {
		t.Errorf("ReferenceName(1) = %q, want %q", name, "ref1")
	}

	if _, err := idx.ReferenceName(99); err == nil {
		t.Error("expected an error for an out-of-range reference id")
	}
}
