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
	"bufio"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"

	"github.com/shenwei356/seedclass/internal/twobit"
)

// RebuildText reconstructs the sentinel-separated concatenated text Build
// would have produced, from a twobit reference collection — the text
// argument Load expects, since Save does not persist the text itself.
func RebuildText(r *twobit.Reader) ([]byte, error) {
	n := r.Count()
	text := make([]byte, 0, n*1024)
	for i := 0; i < n; i++ {
		s, err := r.Seq(i)
		if err != nil {
			return nil, err
		}
		text = append(text, *s...)
		text = append(text, sentinel)
		twobit.RecycleSeq(s)
	}
	return text, nil
}

// saFileName and namesFileName are the two sidecar files Save writes
// next to the twobit-packed reference collection (written separately by
// the caller via internal/twobit.Writer, since that package owns the
// reference bytes themselves).
const (
	saFileName    = "sa.bin"
	namesFileName = "names.tsv"
)

var saMagic = [8]byte{'s', 'c', 'l', 's', 'f', 'm', 's', 'a'}

var errBadSAFile = errors.New("fmindex: corrupt suffix array file")

// Save writes the suffix array and reference-name list to dir. The
// concatenated text itself is not persisted — it is small enough (one
// byte per base) to rebuild losslessly by re-reading the twobit
// reference collection saved alongside it, which RebuildText does; Load
// takes that rebuilt text from its caller.
func Save(ix *Index, dir string) error {
	if err := saveSA(filepath.Join(dir, saFileName), ix); err != nil {
		return err
	}
	return saveNames(filepath.Join(dir, namesFileName), ix)
}

func saveSA(file string, ix *Index) error {
	fh, err := os.Create(file)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := bufio.NewWriter(fh)
	if _, err := w.Write(saMagic[:]); err != nil {
		return err
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(len(ix.sa)))
	if _, err := w.Write(buf); err != nil {
		return err
	}
	for _, pos := range ix.sa {
		binary.BigEndian.PutUint64(buf, uint64(pos))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	binary.BigEndian.PutUint64(buf, uint64(len(ix.refStarts)))
	if _, err := w.Write(buf); err != nil {
		return err
	}
	for _, start := range ix.refStarts {
		binary.BigEndian.PutUint64(buf, uint64(start))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return w.Flush()
}

func saveNames(file string, ix *Index) error {
	fh, err := os.Create(file)
	if err != nil {
		return err
	}
	defer fh.Close()

	w := bufio.NewWriter(fh)
	for _, name := range ix.refNames {
		if _, err := w.WriteString(name); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load rebuilds an Index from a directory written by Save, using text
// (the concatenated, sentinel-separated reference bases) supplied by the
// caller — typically reconstructed from the twobit reference collection
// saved next to it.
func Load(dir string, text []byte) (*Index, error) {
	sa, refStarts, err := loadSA(filepath.Join(dir, saFileName))
	if err != nil {
		return nil, err
	}
	refNames, err := loadNames(filepath.Join(dir, namesFileName))
	if err != nil {
		return nil, err
	}
	if len(refNames) != len(refStarts) {
		return nil, errBadSAFile
	}
	return &Index{text: text, sa: sa, refStarts: refStarts, refNames: refNames}, nil
}

func loadSA(file string) (sa []int64, refStarts []int, err error) {
	fh, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer fh.Close()

	r := bufio.NewReader(fh)
	var magic [8]byte
	if _, err := readFull(r, magic[:]); err != nil {
		return nil, nil, err
	}
	if magic != saMagic {
		return nil, nil, errBadSAFile
	}

	buf := make([]byte, 8)
	n, err := readUint64(r, buf)
	if err != nil {
		return nil, nil, err
	}
	sa = make([]int64, n)
	for i := range sa {
		v, err := readUint64(r, buf)
		if err != nil {
			return nil, nil, err
		}
		sa[i] = int64(v)
	}

	m, err := readUint64(r, buf)
	if err != nil {
		return nil, nil, err
	}
	refStarts = make([]int, m)
	for i := range refStarts {
		v, err := readUint64(r, buf)
		if err != nil {
			return nil, nil, err
		}
		refStarts[i] = int(v)
	}

	return sa, refStarts, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func readUint64(r *bufio.Reader, buf []byte) (uint64, error) {
	if _, err := readFull(r, buf[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:8]), nil
}

func loadNames(file string) ([]string, error) {
	fh, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var names []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	return names, sc.Err()
}
