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
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"time"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/seedclass/internal/fmindex"
	"github.com/shenwei356/seedclass/internal/twobit"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Build a reference index from one or more FASTA files",
	Long: `build-index builds the suffix-array index, the 2-bit-packed
reference collection and the reference-name list from a single
multi-FASTA file (-i) or a directory of per-genome FASTA files (-I).

Reference names must carry a packed taxon id (species in the high 32
bits, genus in the low 32 bits of a trailing "|"-delimited integer) so
classify can resolve (genus_id, species_id) without an external table.
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		if fh := addLog(opt.LogFile, opt.Verbose); fh != nil {
			defer fh.Close()
		}

		inFile := getFlagString(cmd, "in-file")
		inDir := getFlagString(cmd, "in-dir")
		pattern := getFlagString(cmd, "pattern")
		outDir := getFlagString(cmd, "out-dir")
		force := getFlagBool(cmd, "force")

		if inFile == "" && inDir == "" {
			checkError(fmt.Errorf("one of -i/--in-file or -I/--in-dir is required"))
		}

		var files []string
		if inFile != "" {
			files = []string{inFile}
		} else {
			re, err := regexp.Compile(pattern)
			checkError(err)
			files, err = getFileListFromDir(inDir, re, opt.NumCPUs)
			checkError(err)
			if len(files) == 0 {
				checkError(fmt.Errorf("no files matching %q found in %s", pattern, inDir))
			}
		}

		makeOutDir(outDir, force, "out-dir", opt.Verbose)

		if opt.Verbose {
			log.Infof("reading %d FASTA file(s)", len(files))
		}

		var bar *mpb.Bar
		var progress *mpb.Progress
		if opt.Verbose {
			progress = mpb.New()
			bar = progress.AddBar(int64(len(files)),
				mpb.PrependDecorators(decor.Name("parsing references: ")),
				mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
			)
		}

		refs := make([]fmindex.Reference, 0, 1024)
		for _, file := range files {
			reader, err := fastx.NewReader(nil, file, "")
			checkError(err)
			for {
				record, err := reader.Read()
				if err != nil {
					if err == io.EOF {
						break
					}
					checkError(err)
					break
				}
				name := append([]byte{}, record.ID...)
				seq := append([]byte{}, record.Seq.Seq...)
				refs = append(refs, fmindex.Reference{Name: string(name), Bases: seq})
			}
			if bar != nil {
				bar.Increment()
			}
		}
		if progress != nil {
			progress.Wait()
		}

		if opt.Verbose {
			log.Infof("building suffix array over %d reference sequences", len(refs))
		}
		t0 := time.Now()
		idx, err := fmindex.Build(refs, opt.NumCPUs)
		checkError(err)
		if opt.Verbose {
			log.Infof("suffix array built in %s", time.Since(t0))
		}

		tb, err := twobit.NewWriter(filepath.Join(outDir, "refs.2bit"))
		checkError(err)
		for _, r := range refs {
			checkError(tb.WriteSeq(r.Bases))
		}
		checkError(tb.Close())

		checkError(fmindex.Save(idx, outDir))

		if opt.Verbose {
			log.Infof("index written to %s", outDir)
		}
	},
}

func init() {
	RootCmd.AddCommand(buildIndexCmd)

	buildIndexCmd.Flags().StringP("in-file", "i", "", "single multi-FASTA reference file")
	buildIndexCmd.Flags().StringP("in-dir", "I", "", "directory of per-genome FASTA files")
	buildIndexCmd.Flags().StringP("pattern", "", `(?i)\.(fa|fasta|fna)(\.gz)?$`, "filename pattern used with -I")
	buildIndexCmd.Flags().StringP("out-dir", "o", "", "output index directory")
	buildIndexCmd.Flags().BoolP("force", "f", false, "overwrite a non-empty out-dir")
	checkError(buildIndexCmd.MarkFlagRequired("out-dir"))
}
