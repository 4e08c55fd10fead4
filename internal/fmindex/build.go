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
	"github.com/twotwotwo/sorts"
)

// Reference is one named sequence to fold into the index.
type Reference struct {
	Name  string
	Bases []byte
}

// Build concatenates refs (each followed by a sentinel byte) and builds
// a suffix array over the result via a parallel quicksort.
func Build(refs []Reference, numCPUs int) (*Index, error) {
	sorts.MaxProcs = numCPUs

	total := 0
	for _, r := range refs {
		total += len(r.Bases) + 1
	}

	text := make([]byte, 0, total)
	refStarts := make([]int, len(refs))
	refNames := make([]string, len(refs))
	for i, r := range refs {
		refStarts[i] = len(text)
		refNames[i] = r.Name
		text = append(text, r.Bases...)
		text = append(text, sentinel)
	}

	sa := make([]int64, len(text))
	for i := range sa {
		sa[i] = int64(i)
	}

	sorts.Quicksort(suffixArray{text: text, sa: sa})

	return &Index{text: text, sa: sa, refStarts: refStarts, refNames: refNames}, nil
}

// suffixArray adapts (text, sa) to sort.Interface for sorts.Quicksort,
// comparing suffixes starting at sa[i]/sa[j] lexicographically. The
// sentinel byte sorts lower than every DNA base, so a reference's
// suffixes never compare as a prefix-match past its own end.
type suffixArray struct {
	text []byte
	sa   []int64
}

func (s suffixArray) Len() int { return len(s.sa) }

func (s suffixArray) Swap(i, j int) { s.sa[i], s.sa[j] = s.sa[j], s.sa[i] }

func (s suffixArray) Less(i, j int) bool {
	a, b := int(s.sa[i]), int(s.sa[j])
	text := s.text
	for a < len(text) && b < len(text) {
		ca, cb := text[a], text[b]
		if ca != cb {
			return ca < cb
		}
		if ca == sentinel {
			return false // identical suffixes, both ended at a sentinel
		}
		a++
		b++
	}
	return a >= len(text) && b < len(text)
}
