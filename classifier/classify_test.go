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

package classifier_test

import (
	"math/rand"
	"testing"

	"github.com/shenwei356/seedclass/classifier"
	"github.com/shenwei356/seedclass/internal/fmindex"
)

type collectSink struct {
	reports []classifier.Report
}

func (s *collectSink) Report(r classifier.Report) {
	s.reports = append(s.reports, r)
}

// TestClassifySingleExactSpeciesHit: a read copied verbatim from one
// 50bp region of a single reference must produce exactly one report,
// scored 2*(50-15)^2 = 2450.
func TestClassifySingleExactSpeciesHit(t *testing.T) {
	ref := syntheticRef(100, 11)
	idx := buildIndex(t, []fmindex.Reference{{Name: refName("ref0", 7, 42), Bases: ref}})

	refs, err := classifier.NewReferenceTable(idx)
	if err != nil {
		t.Fatalf("NewReferenceTable: %v", err)
	}

	read, err := classifier.NewRead("r1", append([]byte{}, ref[:50]...))
	if err != nil {
		t.Fatalf("NewRead: %v", err)
	}

	clf := classifier.New(idx, refs, classifier.DefaultOptions())
	sink := &collectSink{}
	if err := clf.Classify([]*classifier.Read{read}, rand.New(rand.NewSource(1)), sink); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if len(sink.reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1: %+v", len(sink.reports), sink.reports)
	}
	got := sink.reports[0]
	want := classifier.Report{GenusID: 7, SpeciesID: 42, Score: 2450}
	if got != want {
		t.Errorf("report = %+v, want %+v", got, want)
	}
}

// TestClassifyDominanceBoundStopsBeforeWeakerHit: a read spanning a
// strong 50bp hit in one genome and a weaker 25bp hit in another must
// stop after the strong hit once the remaining qualifying length can no
// longer close the score gap, never crediting the second genome.
func TestClassifyDominanceBoundStopsBeforeWeakerHit(t *testing.T) {
	ref1 := syntheticRef(50, 21)
	ref2 := syntheticRef(25, 22)

	read := make([]byte, 0, 76)
	read = append(read, ref1...)
	read = append(read, 'A') // one unmatched base, consumed by the +1 cursor advance
	read = append(read, ref2...)

	idx := buildIndex(t, []fmindex.Reference{
		{Name: refName("ref1", 1, 1), Bases: ref1},
		{Name: refName("ref2", 2, 2), Bases: ref2},
	})
	refs, err := classifier.NewReferenceTable(idx)
	if err != nil {
		t.Fatalf("NewReferenceTable: %v", err)
	}

	r, err := classifier.NewRead("r1", read)
	if err != nil {
		t.Fatalf("NewRead: %v", err)
	}

	clf := classifier.New(idx, refs, classifier.DefaultOptions())
	sink := &collectSink{}
	if err := clf.Classify([]*classifier.Read{r}, rand.New(rand.NewSource(3)), sink); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if len(sink.reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1 (only the dominant hit): %+v", len(sink.reports), sink.reports)
	}
	if sink.reports[0].GenusID != 1 || sink.reports[0].SpeciesID != 1 {
		t.Errorf("report = %+v, want genus=1 species=1", sink.reports[0])
	}

	m := clf.Metrics()
	if m.EarlyTerminations != 1 {
		t.Errorf("EarlyTerminations = %d, want 1", m.EarlyTerminations)
	}
	if m.Hits != 1 {
		t.Errorf("Hits = %d, want 1 (the second hit was never materialized)", m.Hits)
	}
}

// TestClassifyCapsCoordinatesAtMaxGenomeHitSize: a seed shared by more
// genomes than MaxGenomeHitSize allows must cap the number of
// materialized coordinates and therefore the number of distinct species
// reported, rather than reporting every genome that shares it.
func TestClassifyCapsCoordinatesAtMaxGenomeHitSize(t *testing.T) {
	const nRefs = 50
	motif := syntheticRef(25, 99)
	refs := make([]fmindex.Reference, nRefs)
	for i := 0; i < nRefs; i++ {
		bases := append(append([]byte{}, motif...), syntheticRef(20, uint32(2000+i))...)
		refs[i] = fmindex.Reference{Name: refName("ref", uint32(i+1), uint32(i+1)), Bases: bases}
	}
	idx := buildIndex(t, refs)

	refTable, err := classifier.NewReferenceTable(idx)
	if err != nil {
		t.Fatalf("NewReferenceTable: %v", err)
	}

	read, err := classifier.NewRead("r1", append([]byte{}, motif...))
	if err != nil {
		t.Fatalf("NewRead: %v", err)
	}

	opts := classifier.DefaultOptions()
	opts.MaxGenomeHitSize = 10
	clf := classifier.New(idx, refTable, opts)
	sink := &collectSink{}
	if err := clf.Classify([]*classifier.Read{read}, rand.New(rand.NewSource(5)), sink); err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if len(sink.reports) != 10 {
		t.Fatalf("len(reports) = %d, want 10 (capped)", len(sink.reports))
	}
	seen := map[uint32]bool{}
	for _, r := range sink.reports {
		if seen[r.GenusID] {
			t.Errorf("genus %d reported more than once", r.GenusID)
		}
		seen[r.GenusID] = true
	}

	m := clf.Metrics()
	if m.CoordsMaterialized != 10 {
		t.Errorf("CoordsMaterialized = %d, want 10", m.CoordsMaterialized)
	}
}

// TestClassifySkipsReadsShorterThanMinHitLen covers the short-read guard:
// a read below MinHitLen is skipped entirely and counted, producing no
// reports.
func TestClassifySkipsReadsShorterThanMinHitLen(t *testing.T) {
	ref := syntheticRef(100, 30)
	idx := buildIndex(t, []fmindex.Reference{{Name: refName("ref0", 1, 1), Bases: ref}})
	refs, err := classifier.NewReferenceTable(idx)
	if err != nil {
		t.Fatalf("NewReferenceTable: %v", err)
	}

	read, err := classifier.NewRead("short", append([]byte{}, ref[:10]...))
	if err != nil {
		t.Fatalf("NewRead: %v", err)
	}

	clf := classifier.New(idx, refs, classifier.DefaultOptions())
	sink := &collectSink{}
	if err := clf.Classify([]*classifier.Read{read}, rand.New(rand.NewSource(1)), sink); err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(sink.reports) != 0 {
		t.Fatalf("len(reports) = %d, want 0 for a too-short read", len(sink.reports))
	}
	if clf.Metrics().SkippedShortReads != 1 {
		t.Errorf("SkippedShortReads = %d, want 1", clf.Metrics().SkippedShortReads)
	}
}
