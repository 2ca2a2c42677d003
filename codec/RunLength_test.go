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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseRuns(t *testing.T) {
	require.Empty(t, CollapseRuns(nil))

	runs := CollapseRuns([]uint32{0x41, 0x41, 0x41, 0x42})
	require.Equal(t, []Run{{Symbol: 0x41, Count: 3}, {Symbol: 0x42, Count: 1}}, runs)

	runs = CollapseRuns([]uint32{7})
	require.Equal(t, []Run{{Symbol: 7, Count: 1}}, runs)
}

func TestCollapseRunsCap(t *testing.T) {
	// A repetition longer than the cap splits into consecutive runs
	symbols := make([]uint32, 600)

	for i := range symbols {
		symbols[i] = 0xAA
	}

	runs := CollapseRuns(symbols)
	require.Equal(t, []Run{
		{Symbol: 0xAA, Count: 255},
		{Symbol: 0xAA, Count: 255},
		{Symbol: 0xAA, Count: 90},
	}, runs)

	total := 0

	for _, r := range runs {
		require.LessOrEqual(t, r.Count, 255)
		total += r.Count
	}

	require.Equal(t, len(symbols), total)
}

func TestBuildAlphabet(t *testing.T) {
	runs := CollapseRuns([]uint32{0x41, 0x41, 0x41, 0x42})
	alphabet := BuildAlphabet(runs)
	require.Equal(t, []Letter{{Symbol: 0x41, Freq: 3}, {Symbol: 0x42, Freq: 1}}, alphabet)
}

func TestBuildAlphabetAggregatesAcrossRuns(t *testing.T) {
	// 1,1,2,1,1 -> symbol 1 appears in two separate runs
	alphabet := BuildAlphabet(CollapseRuns([]uint32{1, 1, 2, 1, 1}))
	require.Equal(t, []Letter{{Symbol: 1, Freq: 4}, {Symbol: 2, Freq: 1}}, alphabet)
}

func TestBuildAlphabetStableOnTies(t *testing.T) {
	// Equal frequencies keep first-seen order
	alphabet := BuildAlphabet(CollapseRuns([]uint32{5, 3, 9, 5, 3, 9}))
	require.Equal(t, []Letter{
		{Symbol: 5, Freq: 2},
		{Symbol: 3, Freq: 2},
		{Symbol: 9, Freq: 2},
	}, alphabet)
}
