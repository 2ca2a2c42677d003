/*
Copyright 2020-2026 The XKC authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package codec

import (
	"sort"
)

// _MAX_RUN_LENGTH is the largest repetition recorded in a single run.
// Longer repetitions are split into consecutive runs.
const _MAX_RUN_LENGTH = 255

// Run is a repetition of one symbol, at most _MAX_RUN_LENGTH long.
type Run struct {
	Symbol uint32
	Count  int
}

// Letter is a distinct symbol with its total frequency across all runs.
type Letter struct {
	Symbol uint32
	Freq   int
}

// CollapseRuns scans the symbols left to right and produces the ordered run
// sequence. An empty input yields an empty sequence.
func CollapseRuns(symbols []uint32) []Run {
	runs := make([]Run, 0, 16)
	i := 0

	for i < len(symbols) {
		run := Run{Symbol: symbols[i], Count: 1}
		i++

		for i < len(symbols) && run.Count < _MAX_RUN_LENGTH && symbols[i] == run.Symbol {
			run.Count++
			i++
		}

		runs = append(runs, run)
	}

	return runs
}

// BuildAlphabet folds the runs into a frequency table and sorts it by
// descending frequency. The sort is stable: symbols with equal frequencies
// keep their first-seen order, which makes the resulting tree shape
// deterministic for the decoder.
func BuildAlphabet(runs []Run) []Letter {
	alphabet := make([]Letter, 0, 16)
	positions := make(map[uint32]int, 16)

	for _, run := range runs {
		if idx, present := positions[run.Symbol]; present {
			alphabet[idx].Freq += run.Count
		} else {
			positions[run.Symbol] = len(alphabet)
			alphabet = append(alphabet, Letter{Symbol: run.Symbol, Freq: run.Count})
		}
	}

	sort.SliceStable(alphabet, func(i, j int) bool {
		return alphabet[i].Freq > alphabet[j].Freq
	})

	return alphabet
}
