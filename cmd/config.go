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
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/shenwei356/seedclass/classifier"
)

// ClassifierProfile is the optional on-disk form of classifier.Options,
// letting a deployment fix the kernel's tuning constants without
// recompiling.
type ClassifierProfile struct {
	MinHitLen        int    `toml:"min_hit_len"`
	MaxGenomeHitSize int    `toml:"khits"`
	ReportMode       string `toml:"report_mode"` // "all" or "top_genus"
}

// loadClassifierProfile reads a TOML profile file via
// github.com/pelletier/go-toml/v2 and overlays it onto
// classifier.DefaultOptions.
func loadClassifierProfile(file string) (classifier.Options, error) {
	opts := classifier.DefaultOptions()
	if file == "" {
		return opts, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return opts, err
	}

	var p ClassifierProfile
	if err := toml.Unmarshal(data, &p); err != nil {
		return opts, err
	}

	if p.MinHitLen > 0 {
		opts.MinHitLen = p.MinHitLen
	}
	if p.MaxGenomeHitSize > 0 {
		opts.MaxGenomeHitSize = p.MaxGenomeHitSize
	}
	switch p.ReportMode {
	case "", "all":
		opts.ReportMode = classifier.ReportAllTaxa
	case "top_genus":
		opts.ReportMode = classifier.ReportTopGenusOnly
	default:
		log.Warningf("unknown report_mode %q in %s, using \"all\"", p.ReportMode, file)
		opts.ReportMode = classifier.ReportAllTaxa
	}

	return opts, nil
}
