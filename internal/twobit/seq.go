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

// Package twobit stores the reference collection backing a fmindex.Index
// in a 2-bit-per-base packed file, plus a sidecar index file giving the
// byte offset, packed length and base count of each reference. It is the
// on-disk counterpart of the in-memory concatenated text the suffix array
// is built over (fmindex.RebuildText reads it back once to rebuild that
// text before fmindex.Load).
package twobit

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var be = binary.BigEndian

// Magic identifies the on-disk format of a reference collection file.
var Magic = [8]byte{'s', 'c', 'l', 's', '2', 'b', 'i', 't'}

// IndexFileExt is the suffix of the sidecar per-reference offset index.
const IndexFileExt = ".idx"

// MainVersion is bumped on incompatible format changes.
var MainVersion uint8 = 0

// MinorVersion tracks compatible additions.
var MinorVersion uint8 = 1

// BufferSize sizes the buffered reader/writer.
var BufferSize = 65536

var ErrInvalidFileFormat = errors.New("twobit: invalid binary format")
var ErrEmptySeq = errors.New("twobit: empty seq")
var ErrInvalidTwoBitData = errors.New("twobit: invalid two-bit data")
var ErrBrokenFile = errors.New("twobit: broken file")
var ErrVersionMismatch = errors.New("twobit: version mismatch")

// Writer appends reference sequences to a 2-bit-packed collection file.
// Reference names are not stored here — callers own the ref_id -> name
// mapping separately (see classifier.ReferenceTable).
type Writer struct {
	file string
	fh   *os.File
	w    *bufio.Writer

	buf    []byte
	offset int

	// index holds, per reference: (offset, packed byte length, base count).
	index [][3]int
}

// NewWriter creates a new reference collection file at file.
func NewWriter(file string) (*Writer, error) {
	w := &Writer{file: file}
	var err error
	w.fh, err = os.Create(file)
	if err != nil {
		return nil, err
	}
	w.w = bufio.NewWriterSize(w.fh, BufferSize)
	w.buf = make([]byte, 24)

	if err = binary.Write(w.w, be, Magic); err != nil {
		return nil, err
	}
	w.offset += 8

	if err = binary.Write(w.w, be, [8]uint8{MainVersion, MinorVersion}); err != nil {
		return nil, err
	}
	w.offset += 8
	return w, nil
}

// WriteSeq packs and appends one reference sequence.
func (w *Writer) WriteSeq(s []byte) error {
	b2 := Seq2TwoBit(s)
	err := w.Write2Bit(*b2, len(s))
	RecycleTwoBit(b2)
	return err
}

// Write2Bit appends one already-packed sequence of bases bases.
func (w *Writer) Write2Bit(b2 []byte, bases int) error {
	if len(b2) == 0 {
		return ErrEmptySeq
	}
	if bases < (len(b2)<<2)-3 || bases > len(b2)<<2 {
		return ErrInvalidTwoBitData
	}

	be.PutUint64(w.buf[:8], uint64(len(b2)))
	be.PutUint64(w.buf[8:16], uint64(bases))
	if _, err := w.w.Write(w.buf[:16]); err != nil {
		return err
	}
	if _, err := w.w.Write(b2); err != nil {
		return err
	}

	w.index = append(w.index, [3]int{w.offset, len(b2), bases})
	w.offset += 16 + len(b2)
	return nil
}

// Close flushes the collection file and writes the sidecar offset index.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if err := w.fh.Close(); err != nil {
		return err
	}

	fh, err := os.Create(filepath.Clean(w.file) + IndexFileExt)
	if err != nil {
		return err
	}
	wtr := bufio.NewWriterSize(fh, BufferSize)
	buf := w.buf[:24]

	be.PutUint64(buf[:8], uint64(len(w.index)))
	if _, err = wtr.Write(buf[:8]); err != nil {
		return err
	}
	for _, info := range w.index {
		be.PutUint64(buf[:8], uint64(info[0]))
		be.PutUint64(buf[8:16], uint64(info[1]))
		be.PutUint64(buf[16:24], uint64(info[2]))
		if _, err = wtr.Write(buf); err != nil {
			return err
		}
	}
	if err = wtr.Flush(); err != nil {
		return err
	}
	return fh.Close()
}

// Reader extracts subsequences of any stored reference by index.
type Reader struct {
	fh     *os.File
	offset int

	buf []byte

	index [][3]int
}

// NewReader opens a reference collection file written by Writer.
func NewReader(file string) (*Reader, error) {
	var err error
	r := &Reader{buf: make([]byte, 24)}

	r.fh, err = os.Open(file)
	if err != nil {
		return nil, err
	}

	buf := r.buf
	n, err := io.ReadFull(r.fh, buf[:8])
	if err != nil {
		return nil, err
	}
	if n < 8 {
		return nil, ErrBrokenFile
	}
	for i := 0; i < 8; i++ {
		if Magic[i] != buf[i] {
			return nil, ErrInvalidFileFormat
		}
	}
	r.offset += 8

	n, err = io.ReadFull(r.fh, buf[:8])
	if err != nil {
		return nil, err
	}
	if n < 8 {
		return nil, ErrBrokenFile
	}
	r.offset += 8

	if MainVersion != buf[0] {
		return nil, ErrVersionMismatch
	}

	fileIndex := filepath.Clean(file) + IndexFileExt
	rdr, err := os.Open(fileIndex)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	n, err = io.ReadFull(rdr, buf[:8])
	if err != nil {
		return nil, err
	}
	if n < 8 {
		return nil, ErrBrokenFile
	}

	r.index = make([][3]int, int(be.Uint64(buf[:8])))
	for i := range r.index {
		n, err = io.ReadFull(rdr, buf[:24])
		if err != nil {
			return nil, err
		}
		if n < 24 {
			return nil, ErrBrokenFile
		}
		r.index[i] = [3]int{
			int(be.Uint64(buf[:8])),
			int(be.Uint64(buf[8:16])),
			int(be.Uint64(buf[16:24])),
		}
	}

	return r, nil
}

// Close releases the file handle.
func (r *Reader) Close() error {
	return r.fh.Close()
}

// Count returns the number of stored reference sequences, satisfying
// classifier.Index.ReferenceCount's backing storage needs.
func (r *Reader) Count() int {
	return len(r.index)
}

// Bases returns the base count of reference idx (0-based).
func (r *Reader) Bases(idx int) int {
	return r.index[idx][2]
}

// Seq returns the full sequence with index idx (0-based).
func (r *Reader) Seq(idx int) (*[]byte, error) {
	if idx < 0 || idx >= len(r.index) {
		return nil, fmt.Errorf("twobit: sequence index (%d) out of range: [0, %d]", idx, len(r.index)-1)
	}
	return r.SubSeq(idx, 0, r.index[idx][2]-1)
}

// SubSeq returns the subsequence of reference idx (0-based) spanning
// [start, end] (both 0-based, inclusive). Call RecycleSeq on the result.
func (r *Reader) SubSeq(idx int, start int, end int) (*[]byte, error) {
	if idx < 0 || idx >= len(r.index) {
		return nil, fmt.Errorf("twobit: sequence index (%d) out of range: [0, %d]", idx, len(r.index)-1)
	}
	info := r.index[idx]
	offset := info[0] + 16
	nBases := info[2]
	if start < 0 {
		start = 0
	}
	if end >= nBases-1 {
		end = nBases - 1
	}
	if end < start {
		end = start
	}

	offset += start >> 2
	if _, err := r.fh.Seek(int64(offset), 0); err != nil {
		return nil, err
	}

	nBytes := end>>2 - start>>2 + 1

	var buf []byte
	if nBytes <= len(r.buf) {
		buf = r.buf[:nBytes]
	} else {
		n := nBytes - len(r.buf)
		for i := 0; i < n; i++ {
			r.buf = append(r.buf, 0)
		}
		buf = r.buf
	}
	n, err := io.ReadFull(r.fh, buf)
	if err != nil {
		return nil, err
	}
	if n < nBytes {
		return nil, ErrBrokenFile
	}

	l := end - start + 1

	s := poolSubSeq.Get().(*[]byte)
	*s = (*s)[:4]

	b := buf[0]
	j := start & 3

	switch j {
	case 0:
		(*s)[3] = bit2base[b&3]
		b >>= 2
		(*s)[2] = bit2base[b&3]
		b >>= 2
		(*s)[1] = bit2base[b&3]
		b >>= 2
		(*s)[0] = bit2base[b&3]
	case 1:
		(*s)[2] = bit2base[b&3]
		b >>= 2
		(*s)[1] = bit2base[b&3]
		b >>= 2
		(*s)[0] = bit2base[b&3]
	case 2:
		(*s)[1] = bit2base[b&3]
		b >>= 2
		(*s)[0] = bit2base[b&3]
	case 3:
		(*s)[0] = bit2base[b&3]
	}
	j = 4 - j
	*s = (*s)[:j]
	if j >= l {
		tmp := (*s)[:l]
		return &tmp, nil
	}

	if nBytes > 2 {
		for _, b = range buf[1 : nBytes-1] {
			*s = append(*s, bit2base[b>>6&3])
			*s = append(*s, bit2base[b>>4&3])
			*s = append(*s, bit2base[b>>2&3])
			*s = append(*s, bit2base[b&3])
		}
	}

	if nBytes > 1 {
		b = buf[nBytes-1]
		j = end & 3
		switch j {
		case 0:
			*s = append(*s, bit2base[b>>6&3])
		case 1:
			*s = append(*s, bit2base[b>>6&3])
			*s = append(*s, bit2base[b>>4&3])
		case 2:
			*s = append(*s, bit2base[b>>6&3])
			*s = append(*s, bit2base[b>>4&3])
			*s = append(*s, bit2base[b>>2&3])
		case 3:
			*s = append(*s, bit2base[b>>6&3])
			*s = append(*s, bit2base[b>>4&3])
			*s = append(*s, bit2base[b>>2&3])
			*s = append(*s, bit2base[b&3])
		}
	}

	tmp := (*s)[:l]
	return &tmp, nil
}

// RecycleSeq returns a SubSeq/Seq result to the shared pool.
func RecycleSeq(s *[]byte) {
	poolSubSeq.Put(s)
}

var poolSubSeq = &sync.Pool{New: func() interface{} {
	tmp := make([]byte, 4, 10<<10)
	return &tmp
}}

var base2bit = [256]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 1, 1, 0, 0, 0, 2, 0, 0, 0, 2, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 3, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0,
	0, 0, 1, 1, 0, 0, 0, 2, 0, 0, 0, 2, 0, 0, 0, 0,
	0, 0, 0, 1, 3, 3, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// RecycleTwoBit returns a Seq2TwoBit result to the shared pool.
func RecycleTwoBit(b2 *[]byte) {
	poolTwoBit.Put(b2)
}

var poolTwoBit = &sync.Pool{New: func() interface{} {
	tmp := make([]byte, 0, 1<<20)
	return &tmp
}}

// Seq2TwoBit packs a DNA sequence 4 bases to the byte.
func Seq2TwoBit(s []byte) *[]byte {
	if s == nil {
		return nil
	}
	if len(s) == 0 {
		return &[]byte{}
	}

	n := len(s) >> 2
	m := len(s) & 3

	codes := poolTwoBit.Get().(*[]byte)
	*codes = (*codes)[:0]

	var j int
	for i := 0; i < n; i++ {
		j = i << 2
		*codes = append(*codes, base2bit[s[j]]<<6+base2bit[s[j+1]]<<4+base2bit[s[j+2]]<<2+base2bit[s[j+3]])
	}

	if m == 0 {
		tmp := (*codes)[:n]
		return &tmp
	}

	j = n << 2
	switch m {
	case 3:
		*codes = append(*codes, base2bit[s[j]]<<6+base2bit[s[j+1]]<<4+base2bit[s[j+2]]<<2)
	case 2:
		*codes = append(*codes, base2bit[s[j]]<<6+base2bit[s[j+1]]<<4)
	case 1:
		*codes = append(*codes, base2bit[s[j]]<<6)
	}

	return codes
}

// TwoBit2Seq unpacks a 2-bit-packed sequence of bases bases.
func TwoBit2Seq(b2 []byte, bases int) ([]byte, error) {
	if bases < (len(b2)<<2)-3 || bases > len(b2)<<2 {
		return nil, ErrInvalidTwoBitData
	}

	s := make([]byte, bases)
	n := len(s) >> 2
	m := bases & 3
	var b byte
	var j int
	for i := 0; i < n; i++ {
		b = b2[i]
		j = i << 2

		s[j+3] = bit2base[b&3]
		b >>= 2
		s[j+2] = bit2base[b&3]
		b >>= 2
		s[j+1] = bit2base[b&3]
		b >>= 2
		s[j] = bit2base[b&3]
	}
	if m == 0 {
		return s, nil
	}

	b = b2[n]
	j = n << 2
	switch m {
	case 1:
		s[j] = bit2base[b>>6&3]
	case 2:
		b >>= 4
		s[j+1] = bit2base[b&3]
		b >>= 2
		s[j] = bit2base[b&3]
	case 3:
		b >>= 2
		s[j+2] = bit2base[b&3]
		b >>= 2
		s[j+1] = bit2base[b&3]
		b >>= 2
		s[j] = bit2base[b&3]
	}

	return s, nil
}
