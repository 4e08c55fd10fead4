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
	"strconv"
	"strings"

	"github.com/shenwei356/breader"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var plotScoresCmd = &cobra.Command{
	Use:   "plot-scores",
	Short: "Plot a histogram of best scores from a classification report",
	Long: `plot-scores renders a companion visualization for a batch
classify run: a histogram of the scores of all report records, via
gonum/plot.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		outFile := getFlagString(cmd, "out-file")

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
			return score, true, nil
		}

		reader, err := breader.NewBufferedReader(file, 2, 64, fn)
		checkError(err)

		var values plotter.Values
		for chunk := range reader.Ch {
			checkError(chunk.Err)
			for _, data := range chunk.Data {
				values = append(values, data.(float64))
			}
		}

		p := plot.New()
		p.Title.Text = "classification score distribution"
		p.X.Label.Text = "score"
		p.Y.Label.Text = "count"

		hist, err := plotter.NewHist(values, 50)
		checkError(err)
		p.Add(hist)

		checkError(p.Save(6*vg.Inch, 4*vg.Inch, outFile))
	},
}

func init() {
	RootCmd.AddCommand(plotScoresCmd)

	plotScoresCmd.Flags().StringP("out-file", "o", "hist.png", "output PNG file")
}
