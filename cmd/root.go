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

// Package cmd implements the seedclass command-line tool: build-index,
// classify, summary and plot-scores verbs, each registering itself with
// RootCmd from its own init().
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

// RootCmd is the entry point every subcommand registers itself with from
// its own init().
var RootCmd = &cobra.Command{
	Use:   "seedclass",
	Short: "Seed-voting metagenomic read classifier",
	Long: `seedclass - a seed-voting metagenomic read classifier

It builds a suffix-array-backed reference index and classifies reads
against it by accumulating exact-match seed evidence into per-genus and
per-species scores.

Version: ` + Version,
}

// Version is set at release time.
var Version = "0.1.0"

// Execute runs RootCmd, exiting the process on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", 0, "number of CPUs to use, 0 for all available")
	RootCmd.PersistentFlags().BoolP("quiet", "", false, "do not print any verbose information")
	RootCmd.PersistentFlags().StringP("log", "", "", "also write log messages to this file")

	RootCmd.CompletionOptions.DisableDefaultCmd = true
}

// expandHome expands a leading "~" to the user's home directory, via
// github.com/mitchellh/go-homedir, for index/config path flags.
func expandHome(path string) string {
	p, err := homedir.Expand(path)
	checkError(err)
	return p
}
