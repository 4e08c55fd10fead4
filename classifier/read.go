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

	"github.com/shenwei356/bio/seq"
)

// Read is a base sequence over {A,C,G,T,N} with a precomputed
// reverse-complement view. It is immutable for the duration of one
// classification call.
type Read struct {
	Name string
	Fw   []byte // forward bases
	Rc   []byte // reverse-complement bases
}

// NewRead builds a Read from raw bases, precomputing the
// reverse-complement view via github.com/shenwei356/bio/seq.
func NewRead(name string, bases []byte) (*Read, error) {
	sq, err := seq.NewSeq(seq.DNAredundant, bases)
	if err != nil {
		return nil, fmt.Errorf("classifier: invalid read %q: %w", name, err)
	}
	rc := sq.RevCom()

	return &Read{
		Name: name,
		Fw:   bases,
		Rc:   rc.Seq,
	}, nil
}

// Len returns the read length (identical on both strands).
func (r *Read) Len() int {
	return len(r.Fw)
}

// Strand returns the forward bases when fw is true, the
// reverse-complement bases otherwise.
func (r *Read) Strand(fw bool) []byte {
	if fw {
		return r.Fw
	}
	return r.Rc
}
