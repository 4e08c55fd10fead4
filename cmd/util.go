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
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/iafan/cwalk"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

var log = logging.MustGetLogger("seedclass")

var logFormat = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05}] [%{level:.4s}]%{color:reset} %{message}`,
)

// addLog configures the package-level logger with a stderr backend and,
// when logfile is non-empty, a second backend that tees to file.
func addLog(logfile string, verbose bool) *os.File {
	var h *os.File

	isStderrTerminal := isatty.IsTerminal(os.Stderr.Fd())
	var backendStderr logging.Backend
	if isStderrTerminal {
		backendStderr = logging.NewLogBackend(colorable.NewColorableStderr(), "", 0)
	} else {
		backendStderr = logging.NewLogBackend(os.Stderr, "", 0)
	}
	backendStderrFormatter := logging.NewBackendFormatter(backendStderr, logFormat)
	backendStderrLevel := logging.AddModuleLevel(backendStderrFormatter)
	if verbose {
		backendStderrLevel.SetLevel(logging.DEBUG, "seedclass")
	} else {
		backendStderrLevel.SetLevel(logging.INFO, "seedclass")
	}

	if logfile == "" {
		logging.SetBackend(backendStderrLevel)
		return nil
	}

	var err error
	h, err = os.Create(logfile)
	checkError(errors.Wrap(err, "create log file"))

	backendFile := logging.NewLogBackend(h, "", 0)
	backendFileFormatter := logging.NewBackendFormatter(backendFile, logFormat)
	backendFileLevel := logging.AddModuleLevel(backendFileFormatter)
	backendFileLevel.SetLevel(logging.DEBUG, "seedclass")

	logging.SetBackend(backendStderrLevel, backendFileLevel)
	return h
}

// checkError is the fatal-at-the-edge error handler every command uses
// once past the point where a library function could instead return an
// error to its own caller.
func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// Options holds global flags shared by every subcommand.
type Options struct {
	NumCPUs  int
	Verbose  bool
	LogFile  string
	Log2File bool
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs:  threads,
		Verbose:  !getFlagBool(cmd, "quiet"),
		LogFile:  logfile,
		Log2File: logfile != "",
	}
}

func makeOutDir(outDir string, force bool, logname string, verbose bool) {
	pwd, _ := os.Getwd()
	if outDir != "./" && outDir != "." && pwd != filepath.Clean(outDir) {
		existed, err := pathutil.DirExists(outDir)
		checkError(errors.Wrap(err, outDir))
		if existed {
			empty, err := pathutil.IsEmpty(outDir)
			checkError(errors.Wrap(err, outDir))
			if !empty {
				if force {
					if verbose {
						log.Infof("removing old output directory: %s", outDir)
					}
					checkError(os.RemoveAll(outDir))
				} else {
					checkError(fmt.Errorf("%s not empty: %s, use --force to overwrite", logname, outDir))
				}
			} else {
				checkError(os.RemoveAll(outDir))
			}
		}
		checkError(os.MkdirAll(outDir, 0777))
	} else {
		log.Errorf("%s should not be current directory", logname)
	}
}

// getFileListFromDir walks path in parallel collecting files whose name
// matches pattern, used by build-index -I to ingest one FASTA file per
// genome instead of a single multi-FASTA.
func getFileListFromDir(path string, pattern *regexp.Regexp, threads int) ([]string, error) {
	files := make([]string, 0, 512)
	ch := make(chan string, threads)
	done := make(chan int)
	go func() {
		for file := range ch {
			files = append(files, file)
		}
		done <- 1
	}()

	cwalk.NumWorkers = threads
	err := cwalk.WalkWithSymlinks(path, func(_path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && pattern.MatchString(info.Name()) {
			ch <- filepath.Join(path, _path)
		}
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return nil, err
	}
	return files, err
}

// --- flag helpers -----------------------------------------------------

func getFlagString(cmd *cobra.Command, flag string) string {
	s, err := cmd.Flags().GetString(flag)
	checkError(err)
	return s
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	b, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return b
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	i, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return i
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	i := getFlagInt(cmd, flag)
	if i < 0 {
		checkError(fmt.Errorf("value of flag --%s should be >= 0", flag))
	}
	return i
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	i := getFlagInt(cmd, flag)
	if i <= 0 {
		checkError(fmt.Errorf("value of flag --%s should be > 0", flag))
	}
	return i
}

func isStdin(file string) bool {
	return file == "-"
}
