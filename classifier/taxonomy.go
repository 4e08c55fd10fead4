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
	"fmt"
	"strconv"
	"strings"

	"github.com/shenwei356/breader"
)

// ParseTaxID extracts a packed taxon id from a reference name: a
// reference name carries a packed 64-bit integer with species_id in the
// high 32 bits and genus_id in the low 32 bits. The packed integer is
// expected to be the last '|'-delimited field of the name (e.g.
// "NC_000913.3|7000000042"), matching the common convention of trailing
// pipe-delimited metadata in sequence names.
func ParseTaxID(refName string) (genusID, speciesID uint32, err error) {
	field := refName
	if i := strings.LastIndexByte(refName, '|'); i >= 0 {
		field = refName[i+1:]
	}
	packed, perr := strconv.ParseUint(field, 10, 64)
	if perr != nil {
		return 0, 0, fmt.Errorf("classifier: reference name %q does not carry a parsable taxon id: %w", refName, perr)
	}
	speciesID = uint32(packed >> 32)
	genusID = uint32(packed & 0xffffffff)
	return genusID, speciesID, nil
}

// ReferenceTable is the immutable ref_id -> (genus_id, species_id)
// mapping, populated either by parsing each reference name via
// ParseTaxID or by loading an external TSV via LoadReferenceTable.
type ReferenceTable struct {
	genusID   []uint32
	speciesID []uint32
}

// NewReferenceTable builds a ReferenceTable by calling ParseTaxID on
// every reference name exposed by idx.
func NewReferenceTable(idx Index) (*ReferenceTable, error) {
	n := idx.ReferenceCount()
	t := &ReferenceTable{
		genusID:   make([]uint32, n),
		speciesID: make([]uint32, n),
	}
	for i := 0; i < n; i++ {
		name, err := idx.ReferenceName(uint32(i))
		if err != nil {
			return nil, err
		}
		g, s, err := ParseTaxID(name)
		if err != nil {
			return nil, err
		}
		t.genusID[i], t.speciesID[i] = g, s
	}
	return t, nil
}

// refTableRow is one parsed line of an external reference-name table:
// ref_id<TAB>genus_id<TAB>species_id.
type refTableRow struct {
	refID     uint32
	genusID   uint32
	speciesID uint32
}

// LoadReferenceTable reads a ref_id<TAB>genus_id<TAB>species_id table
// from file via github.com/shenwei356/breader, for corpora whose
// sequence names cannot carry a packed taxon id. refCount sizes the
// returned table; rows whose ref_id falls outside [0, refCount) are
// rejected.
func LoadReferenceTable(file string, refCount int) (*ReferenceTable, error) {
	fn := func(line string) (interface{}, bool, error) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || line[0] == '#' {
			return nil, false, nil
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, false, fmt.Errorf("classifier: malformed reference table line: %q", line)
		}
		refID, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, false, fmt.Errorf("classifier: bad ref_id in %q: %w", line, err)
		}
		genusID, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, false, fmt.Errorf("classifier: bad genus_id in %q: %w", line, err)
		}
		speciesID, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, false, fmt.Errorf("classifier: bad species_id in %q: %w", line, err)
		}
		return refTableRow{uint32(refID), uint32(genusID), uint32(speciesID)}, true, nil
	}

	reader, err := breader.NewBufferedReader(file, 2, 64, fn)
	if err != nil {
		return nil, err
	}

	t := &ReferenceTable{
		genusID:   make([]uint32, refCount),
		speciesID: make([]uint32, refCount),
	}
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			return nil, chunk.Err
		}
		for _, data := range chunk.Data {
			row := data.(refTableRow)
			if int(row.refID) >= refCount {
				return nil, fmt.Errorf("classifier: reference table refers to ref_id %d, out of range [0,%d)", row.refID, refCount)
			}
			t.genusID[row.refID] = row.genusID
			t.speciesID[row.refID] = row.speciesID
		}
	}
	return t, nil
}

// Lookup resolves refID to (genus_id, species_id). ok is false when
// refID is out of range.
func (t *ReferenceTable) Lookup(refID uint32) (genusID, speciesID uint32, ok bool) {
	if int(refID) >= len(t.genusID) {
		return 0, 0, false
	}
	return t.genusID[refID], t.speciesID[refID], true
}
