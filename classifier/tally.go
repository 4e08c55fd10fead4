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

// noTimeStamp is the time_stamp sentinel used before any PartialHit has
// voted for a given genus/species, chosen so no real PartialHit index hi
// (always >= 0) can collide with it.
const noTimeStamp = -1

// SpeciesCount is one species-level tally entry.
type SpeciesCount struct {
	ID            uint32
	Count         uint32
	WeightedCount uint32
	timeStamp     int
}

func (s *SpeciesCount) reset(id uint32) {
	s.ID = id
	s.Count = 0
	s.WeightedCount = 0
	s.timeStamp = noTimeStamp
}

// GenusCount is one genus-level tally entry, owning an ordered,
// linearly-scanned list of SpeciesCount.
type GenusCount struct {
	ID            uint32
	Count         uint32
	WeightedCount uint32
	timeStamp     int
	Species       []SpeciesCount
}

func (g *GenusCount) reset(id uint32) {
	g.ID = id
	g.Count = 0
	g.WeightedCount = 0
	g.timeStamp = noTimeStamp
	g.Species = g.Species[:0]
}

func (g *GenusCount) findOrInsertSpecies(id uint32) *SpeciesCount {
	for i := range g.Species {
		if g.Species[i].ID == id {
			return &g.Species[i]
		}
	}
	g.Species = append(g.Species, SpeciesCount{})
	sp := &g.Species[len(g.Species)-1]
	sp.reset(id)
	return sp
}

// GenusMap is the ordered, linearly-scanned top level of the tally. The
// zero value is ready to use; Reset clears it for reuse across reads
// without discarding the backing arrays.
type GenusMap struct {
	genera []GenusCount
}

// Reset clears the map for a new read/pair, keeping underlying capacity.
func (m *GenusMap) Reset() {
	m.genera = m.genera[:0]
}

// Genera returns the current ordered genus entries. The slice is valid
// only until the next Add or Reset call.
func (m *GenusMap) Genera() []GenusCount {
	return m.genera
}

func (m *GenusMap) findOrInsertGenus(id uint32) *GenusCount {
	for i := range m.genera {
		if m.genera[i].ID == id {
			return &m.genera[i]
		}
	}
	m.genera = append(m.genera, GenusCount{})
	g := &m.genera[len(m.genera)-1]
	g.reset(id)
	return g
}

// Add finds-or-inserts the genus and species entries, applies the
// timestamp-guarded dedup increment to each level, and returns the
// species' resulting weighted count as newScore (0 when the species had
// already voted under this hi).
func (m *GenusMap) Add(genusID, speciesID uint32, hi int, w uint32) (newScore uint32) {
	g := m.findOrInsertGenus(genusID)
	if g.timeStamp != hi {
		g.Count++
		g.WeightedCount += w
		g.timeStamp = hi
	}

	sp := g.findOrInsertSpecies(speciesID)
	if sp.timeStamp != hi {
		sp.Count++
		sp.WeightedCount += w
		sp.timeStamp = hi
		return sp.WeightedCount
	}
	return 0
}
