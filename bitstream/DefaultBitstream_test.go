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

package bitstream

import (
	"math/rand"
	"testing"

	"github.com/PMArkive/xkc-go/internal"
	"github.com/stretchr/testify/require"
)

func TestBitStreamLittleEndianBitOrder(t *testing.T) {
	bs := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(bs, 16384)
	require.NoError(t, err)

	// First written bit must land in the least significant position
	obs.WriteBit(1)
	obs.WriteBit(0)
	obs.WriteBit(0)
	obs.WriteBit(1)
	require.NoError(t, obs.Close())
	require.EqualValues(t, 4, obs.Written())
	require.Equal(t, []byte{0x09}, bs.Bytes())
}

func TestBitStreamWriteBitsOrder(t *testing.T) {
	bs := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(bs, 16384)
	require.NoError(t, err)

	// 0xA5 written over 8 bits must reproduce the byte exactly
	obs.WriteBits(0xA5, 8)
	// 12 bits spill into the next byte, lowest bits first
	obs.WriteBits(0xBCD, 12)
	require.NoError(t, obs.Close())
	require.EqualValues(t, 20, obs.Written())
	require.Equal(t, []byte{0xA5, 0xCD, 0x0B}, bs.Bytes())
}

func TestBitStreamPartialByteFlush(t *testing.T) {
	for count := uint(1); count <= 64; count++ {
		bs := internal.NewBufferStream()
		obs, err := NewDefaultOutputBitStream(bs, 16384)
		require.NoError(t, err)

		obs.WriteBits(0x0123456789ABCDEF, count)
		require.EqualValues(t, count, obs.Written())
		require.NoError(t, obs.Close())
		require.EqualValues(t, count, obs.Written(), "Written must not count padding bits")
		require.Equal(t, int(count+7)/8, bs.Len(), "padding must stay within one byte")
	}
}

func TestBitStreamAligned(t *testing.T) {
	values := make([]uint64, 100)

	for i := range values {
		values[i] = uint64(rand.Intn(1 << 31))
	}

	bs := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(bs, 16384)
	require.NoError(t, err)

	for _, v := range values {
		obs.WriteBits(v, 32)
	}

	require.NoError(t, obs.Close())

	ibs, err := NewDefaultInputBitStream(bs, 16384)
	require.NoError(t, err)

	for i, v := range values {
		require.Equal(t, v, ibs.ReadBits(32), "value %d", i)
	}

	require.EqualValues(t, 32*len(values), ibs.Read())
}

func TestBitStreamMisaligned(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	counts := make([]uint, 200)
	values := make([]uint64, 200)

	for i := range values {
		counts[i] = uint(1 + rnd.Intn(64))
		values[i] = rnd.Uint64() & _OBS_MASKS[counts[i]]
	}

	bs := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(bs, 16384)
	require.NoError(t, err)

	for i := range values {
		obs.WriteBits(values[i], counts[i])
	}

	written := obs.Written()
	require.NoError(t, obs.Close())
	require.Equal(t, written, obs.Written())

	ibs, err := NewDefaultInputBitStream(bs, 16384)
	require.NoError(t, err)

	for i := range values {
		require.Equal(t, values[i], ibs.ReadBits(counts[i]), "value %d (%d bits)", i, counts[i])
	}

	require.Equal(t, written, ibs.Read())
}

func TestBitStreamSingleBits(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	bits := make([]int, 1000)

	for i := range bits {
		bits[i] = rnd.Intn(2)
	}

	bs := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(bs, 16384)
	require.NoError(t, err)

	for _, b := range bits {
		obs.WriteBit(b)
	}

	require.NoError(t, obs.Close())

	ibs, err := NewDefaultInputBitStream(bs, 16384)
	require.NoError(t, err)

	for i, b := range bits {
		require.Equal(t, b, ibs.ReadBit(), "bit %d", i)
	}
}

func TestBitStreamInvalidParams(t *testing.T) {
	bs := internal.NewBufferStream()

	_, err := NewDefaultOutputBitStream(nil, 16384)
	require.Error(t, err)

	_, err = NewDefaultOutputBitStream(bs, 100)
	require.Error(t, err)

	_, err = NewDefaultOutputBitStream(bs, 16385)
	require.Error(t, err)

	_, err = NewDefaultInputBitStream(nil, 16384)
	require.Error(t, err)

	obs, err := NewDefaultOutputBitStream(bs, 16384)
	require.NoError(t, err)
	require.Panics(t, func() { obs.WriteBits(0, 0) })
	require.Panics(t, func() { obs.WriteBits(0, 65) })
	require.NoError(t, obs.Close())
	require.Panics(t, func() { obs.WriteBit(1) })
}

func TestBitStreamReadPastEnd(t *testing.T) {
	bs := internal.NewBufferStream([]byte{0xFF})
	ibs, err := NewDefaultInputBitStream(bs, 16384)
	require.NoError(t, err)

	ibs.ReadBits(8)
	require.Panics(t, func() { ibs.ReadBit() })
}

func TestBitStreamReadBitsAcrossEndOfData(t *testing.T) {
	// Nine bytes: the first refill caches eight, the second only one.
	// A read wider than the remaining data must fail instead of returning
	// fabricated bits.
	data := make([]byte, 9)

	for i := range data {
		data[i] = 0xEE
	}

	bs := internal.NewBufferStream(data)
	ibs, err := NewDefaultInputBitStream(bs, 16384)
	require.NoError(t, err)

	ibs.ReadBits(63)
	require.Panics(t, func() { ibs.ReadBits(12) })
}

func TestBitStreamWriteReadInterleavedSizes(t *testing.T) {
	// Mirrors the codec access pattern: short depth fields followed by
	// variable length runs of single bits
	rnd := rand.New(rand.NewSource(1234))
	type record struct {
		depth int
		bits  []int
	}

	records := make([]record, 500)

	for i := range records {
		r := record{depth: rnd.Intn(16)}

		for j := 0; j < r.depth; j++ {
			r.bits = append(r.bits, rnd.Intn(2))
		}

		records[i] = r
	}

	bs := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(bs, 16384)
	require.NoError(t, err)

	for _, r := range records {
		obs.WriteBits(uint64(r.depth), 4)

		for _, b := range r.bits {
			obs.WriteBit(b)
		}
	}

	require.NoError(t, obs.Close())

	ibs, err := NewDefaultInputBitStream(bs, 16384)
	require.NoError(t, err)

	for i, r := range records {
		require.EqualValues(t, r.depth, ibs.ReadBits(4), "record %d", i)

		for j, b := range r.bits {
			require.Equal(t, b, ibs.ReadBit(), "record %d bit %d", i, j)
		}
	}
}
