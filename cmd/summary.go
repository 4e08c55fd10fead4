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
	"sort"
	"strconv"
	"strings"

	"github.com/shenwei356/breader"
	"github.com/shenwei356/natsort"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

// reportRow mirrors one line written by classify's tsvSink.
type reportRow struct {
	genusID   string
	speciesID string
	score     float64
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a classification report",
	Long: `summary aggregates a classify report into per-genus record counts
and best scores, plus the mean/stdev of all record scores, computed with
gonum/stat.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]

		fn := func(line string) (interface{}, bool, error) {
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				return nil, false, nil
			}
			fields := strings.Split(line, "\t")
			if len(fields) < 4 {
				return nil, false, nil
			}
			score, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, false, nil
			}
			return reportRow{genusID: fields[1], speciesID: fields[2], score: score}, true, nil
		}

		reader, err := breader.NewBufferedReader(file, 2, 64, fn)
		checkError(err)

		bestByGenus := make(map[string]float64)
		countByGenus := make(map[string]int)
		var allScores []float64

		for chunk := range reader.Ch {
			checkError(chunk.Err)
			for _, data := range chunk.Data {
				row := data.(reportRow)
				countByGenus[row.genusID]++
				if row.score > bestByGenus[row.genusID] {
					bestByGenus[row.genusID] = row.score
				}
				allScores = append(allScores, row.score)
			}
		}

		genera := make([]string, 0, len(countByGenus))
		for g := range countByGenus {
			genera = append(genera, g)
		}
		sort.Slice(genera, func(i, j int) bool { return natsort.Compare(genera[i], genera[j], false) })

		fmt.Println("genus_id\trecords\tbest_score")
		for _, g := range genera {
			fmt.Printf("%s\t%d\t%.0f\n", g, countByGenus[g], bestByGenus[g])
		}

		if len(allScores) > 0 {
			mean, stdev := stat.MeanStdDev(allScores, nil)
			fmt.Printf("\noverall: %d records, mean score %.2f, stdev %.2f\n", len(allScores), mean, stdev)
		}
	},
}

func init() {
	RootCmd.AddCommand(summaryCmd)
}
