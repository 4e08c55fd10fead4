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

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/seedclass/classifier"
	"github.com/shenwei356/seedclass/internal/fmindex"
	"github.com/shenwei356/seedclass/internal/twobit"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify reads against a built index",
	Long: `classify runs the seed-voting classifier kernel over every read
(or read pair) and writes one line per (genus_id, species_id, score)
record emitted.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		if fh := addLog(opt.LogFile, opt.Verbose); fh != nil {
			defer fh.Close()
		}

		indexDir := expandHome(getFlagString(cmd, "index"))
		read1 := getFlagString(cmd, "1")
		read2 := getFlagString(cmd, "2")
		outFile := getFlagString(cmd, "out-file")
		configFile := expandHome(getFlagString(cmd, "config"))
		refTableFile := getFlagString(cmd, "ref-table")
		seed := getFlagInt(cmd, "seed")

		if read1 == "" {
			checkError(fmt.Errorf("-1/--1 (first/only read file) is required"))
		}

		opts, err := loadClassifierProfile(configFile)
		checkError(err)

		tb, err := twobit.NewReader(filepath.Join(indexDir, "refs.2bit"))
		checkError(err)
		defer tb.Close()

		text, err := fmindex.RebuildText(tb)
		checkError(err)

		idx, err := fmindex.Load(indexDir, text)
		checkError(err)

		var refs *classifier.ReferenceTable
		if refTableFile != "" {
			refs, err = classifier.LoadReferenceTable(refTableFile, idx.ReferenceCount())
		} else {
			refs, err = classifier.NewReferenceTable(idx)
		}
		checkError(err)

		clf := classifier.New(idx, refs, opts)
		rnd := rand.New(rand.NewSource(int64(seed)))

		out, err := xopen.Wopen(outFile)
		checkError(err)
		defer out.Close()

		var w io.Writer = out
		if outFile != "" && strings.HasSuffix(outFile, ".gz") {
			gz := pgzip.NewWriter(out)
			defer gz.Close()
			w = gz
		}
		bw := bufio.NewWriter(w)
		defer bw.Flush()

		sink := &tsvSink{w: bw}

		reader1, err := fastx.NewReader(nil, read1, "")
		checkError(err)
		var reader2 *fastx.Reader
		if read2 != "" {
			reader2, err = fastx.NewReader(nil, read2, "")
			checkError(err)
		}

		var progress *mpb.Progress
		var bar *mpb.Bar
		if opt.Verbose {
			progress = mpb.New()
			bar = progress.AddBar(-1,
				mpb.PrependDecorators(decor.Name("classifying reads: ")),
				mpb.AppendDecorators(decor.CurrentNoUnit("%d reads")),
			)
		}

		var nReads int64
		for {
			rec1, err := reader1.Read()
			if err != nil {
				if err == io.EOF {
					break
				}
				checkError(err)
				break
			}

			mates := make([]*classifier.Read, 0, 2)
			r1, err := classifier.NewRead(string(rec1.ID), append([]byte{}, rec1.Seq.Seq...))
			if err != nil {
				clf.Metrics().SkippedShortReads++
				continue
			}
			mates = append(mates, r1)

			if reader2 != nil {
				rec2, err := reader2.Read()
				checkError(err)
				r2, err := classifier.NewRead(string(rec2.ID), append([]byte{}, rec2.Seq.Seq...))
				if err == nil {
					mates = append(mates, r2)
				}
			}

			sink.name = string(rec1.ID)
			checkError(clf.Classify(mates, rnd, sink))

			nReads++
			if bar != nil {
				bar.SetCurrent(nReads)
			}
		}
		if progress != nil {
			progress.Wait()
		}

		if opt.Verbose {
			m := clf.Metrics()
			log.Infof("classified %d reads: %d hits, %d coordinates materialized, %d early terminations, %d skipped (too short or invalid)",
				nReads, m.Hits, m.CoordsMaterialized, m.EarlyTerminations, m.SkippedShortReads)
		}
	},
}

// tsvSink implements classifier.ReportSink, writing one
// read_name\tgenus_id\tspecies_id\tscore line per report.
type tsvSink struct {
	w    *bufio.Writer
	name string
}

func (s *tsvSink) Report(r classifier.Report) {
	fmt.Fprintf(s.w, "%s\t%d\t%d\t%d\n", s.name, r.GenusID, r.SpeciesID, r.Score)
}

func init() {
	RootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringP("index", "d", "", "index directory built by build-index")
	classifyCmd.Flags().StringP("1", "1", "", "read file (or first mate of a pair)")
	classifyCmd.Flags().StringP("2", "2", "", "second mate of a pair")
	classifyCmd.Flags().StringP("out-file", "o", "-", "output report file, \"-\" for stdout, .gz for compressed")
	classifyCmd.Flags().StringP("config", "c", "", "classifier profile TOML file")
	classifyCmd.Flags().StringP("ref-table", "", "", "external ref_id\\tgenus_id\\tspecies_id table, overriding names-as-ids")
	classifyCmd.Flags().IntP("seed", "", 1, "PRNG seed for coordinate subsampling")
	checkError(classifyCmd.MarkFlagRequired("index"))
}
