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

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// packTaxID packs (genus, species) the way ParseTaxID expects to unpack
// them: species in the high 32 bits, genus in the low 32 bits.
func packTaxID(genusID, speciesID uint32) uint64 {
	return uint64(speciesID)<<32 | uint64(genusID)
}

func TestParseTaxIDRoundTrip(t *testing.T) {
	cases := []struct {
		genusID, speciesID uint32
	}{
		{7, 42},
		{0, 0},
		{1, 1},
		{4294967295, 4294967295},
	}
	for _, c := range cases {
		name := "NC_000913.3|" + strconv.FormatUint(packTaxID(c.genusID, c.speciesID), 10)
		g, s, err := ParseTaxID(name)
		if err != nil {
			t.Fatalf("ParseTaxID(%q): %v", name, err)
		}
		if g != c.genusID || s != c.speciesID {
			t.Errorf("ParseTaxID(%q) = (%d,%d), want (%d,%d)", name, g, s, c.genusID, c.speciesID)
		}
	}
}

func TestParseTaxIDNoPipeStillParsesBareInteger(t *testing.T) {
	name := strconv.FormatUint(packTaxID(7, 42), 10)
	g, s, err := ParseTaxID(name)
	if err != nil {
		t.Fatalf("ParseTaxID(%q): %v", name, err)
	}
	if g != 7 || s != 42 {
		t.Errorf("ParseTaxID(%q) = (%d,%d), want (7,42)", name, g, s)
	}
}

func TestParseTaxIDRejectsUnparsableName(t *testing.T) {
	if _, _, err := ParseTaxID("NC_000913.3|not-a-number"); err == nil {
		t.Fatal("expected an error for a non-numeric trailing field")
	}
}

// namesOnlyIndex is a minimal Index stub exercising only the
// ReferenceCount/ReferenceName methods NewReferenceTable needs.
type namesOnlyIndex struct {
	names []string
}

func (f *namesOnlyIndex) FullRange() Range                     { return Range{} }
func (f *namesOnlyIndex) ExtendRight(Range, byte) (Range, bool) { return Range{}, false }
func (f *namesOnlyIndex) WalkSA(Range, int, *rand.Rand) ([]Coord, error) {
	return nil, nil
}
func (f *namesOnlyIndex) ReferenceCount() int { return len(f.names) }
func (f *namesOnlyIndex) ReferenceName(refID uint32) (string, error) {
	return f.names[refID], nil
}

func TestNewReferenceTableParsesEveryReferenceName(t *testing.T) {
	idx := &namesOnlyIndex{names: []string{
		"genomeA|" + strconv.FormatUint(packTaxID(7, 42), 10),
		"genomeB|" + strconv.FormatUint(packTaxID(9, 99), 10),
	}}

	table, err := NewReferenceTable(idx)
	if err != nil {
		t.Fatalf("NewReferenceTable: %v", err)
	}

	g, s, ok := table.Lookup(0)
	if !ok || g != 7 || s != 42 {
		t.Errorf("Lookup(0) = (%d,%d,%v), want (7,42,true)", g, s, ok)
	}
	g, s, ok = table.Lookup(1)
	if !ok || g != 9 || s != 99 {
		t.Errorf("Lookup(1) = (%d,%d,%v), want (9,99,true)", g, s, ok)
	}
}

func TestLoadReferenceTableFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ref_table.tsv")
	content := "# comment line\n0\t7\t42\n1\t7\t43\n2\t9\t99\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	table, err := LoadReferenceTable(file, 3)
	if err != nil {
		t.Fatalf("LoadReferenceTable: %v", err)
	}

	for _, want := range []struct {
		refID            uint32
		genusID, species uint32
	}{
		{0, 7, 42},
		{1, 7, 43},
		{2, 9, 99},
	} {
		g, s, ok := table.Lookup(want.refID)
		if !ok {
			t.Fatalf("Lookup(%d): not found", want.refID)
		}
		if g != want.genusID || s != want.species {
			t.Errorf("Lookup(%d) = (%d,%d), want (%d,%d)", want.refID, g, s, want.genusID, want.species)
		}
	}
}

func TestLoadReferenceTableRejectsOutOfRangeRefID(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ref_table.tsv")
	if err := os.WriteFile(file, []byte("5\t1\t1\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadReferenceTable(file, 3); err == nil {
		t.Fatal("expected an error for a ref_id outside [0,3)")
	}
}

func TestReferenceTableLookupOutOfRange(t *testing.T) {
	table := &ReferenceTable{genusID: []uint32{1}, speciesID: []uint32{1}}
	if _, _, ok := table.Lookup(5); ok {
		t.Error("expected Lookup to report ok=false for an out-of-range ref_id")
	}
}
