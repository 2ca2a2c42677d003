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

// Package codec implements the XKC compressor: input symbols are collapsed
// into runs, distinct symbols are ranked by frequency and placed in a
// balanced binary tree, and every run occurrence is written as the tree path
// of its symbol.
//
// Wire format, all multi byte integers little endian:
//
//	byte 0            depth bit width
//	byte 1            alphabet size - 1
//	next entries      alphabet symbols, most frequent first
//	packed bitstream  depth bits then direction bits per occurrence
//	last 4 bytes      uint32 count of path bits in the packed bitstream
package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/PMArkive/xkc-go/bitstream"
	"github.com/PMArkive/xkc-go/internal"
)

const (
	// depth bit width byte + alphabet size byte
	_XKC_HEADER_SIZE = 2

	// trailing path bit counter
	_XKC_COUNTER_SIZE = 4

	// the alphabet size field is one byte
	_XKC_MAX_ALPHABET = 256

	// bitstream buffer size
	_XKC_BUFFER_SIZE = 65536

	// largest path bit count the trailing counter can hold
	_XKC_MAX_BITS = math.MaxUint32
)

// Codec encodes and decodes byte buffers with the XKC format. Instances are
// stateless apart from the configured symbol width and safe for sequential
// reuse; each call owns its runs, alphabet and tree exclusively.
type Codec struct {
	symbolWidth int
}

// NewCodec creates a Codec reading symbols of the given width (1, 2 or 4
// bytes) from its input buffers
func NewCodec(symbolWidth int) (*Codec, error) {
	if symbolWidth != 1 && symbolWidth != 2 && symbolWidth != 4 {
		return nil, &Error{msg: fmt.Sprintf("Invalid symbol width: %d (must be 1, 2 or 4)", symbolWidth), code: ERR_INVALID_WIDTH}
	}

	this := &Codec{}
	this.symbolWidth = symbolWidth
	return this, nil
}

// SymbolWidth returns the configured symbol width in bytes
func (this *Codec) SymbolWidth() int {
	return this.symbolWidth
}

func (this *Codec) readSymbols(src []byte) []uint32 {
	w := this.symbolWidth
	symbols := make([]uint32, len(src)/w)

	switch w {
	case 1:
		for i := range symbols {
			symbols[i] = uint32(src[i])
		}
	case 2:
		for i := range symbols {
			symbols[i] = uint32(binary.LittleEndian.Uint16(src[2*i:]))
		}
	default:
		for i := range symbols {
			symbols[i] = binary.LittleEndian.Uint32(src[4*i:])
		}
	}

	return symbols
}

func (this *Codec) appendSymbol(dst []byte, symbol uint32) []byte {
	switch this.symbolWidth {
	case 1:
		return append(dst, byte(symbol))
	case 2:
		return append(dst, byte(symbol), byte(symbol>>8))
	default:
		return append(dst, byte(symbol), byte(symbol>>8), byte(symbol>>16), byte(symbol>>24))
	}
}

// buildTree inserts the alphabet symbols in order. Encoder and decoder both
// call it with the same symbol sequence, which is what makes their trees
// byte-for-byte identical.
func buildTree(symbols []uint32) *Tree {
	tree := NewTree()

	for _, s := range symbols {
		tree.Insert(s)
	}

	return tree
}

// Encode compresses src and returns the resulting buffer. An empty input
// yields an empty output. The input length must be a multiple of the symbol
// width and may not contain more than 256 distinct symbols.
func (this *Codec) Encode(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	if len(src)%this.symbolWidth != 0 {
		return nil, &Error{msg: fmt.Sprintf("Invalid input length: %d (must be a multiple of the symbol width %d)", len(src), this.symbolWidth), code: ERR_INVALID_LENGTH}
	}

	runs := CollapseRuns(this.readSymbols(src))
	alphabet := BuildAlphabet(runs)

	if len(alphabet) > _XKC_MAX_ALPHABET {
		return nil, &Error{msg: fmt.Sprintf("Invalid input: %d distinct symbols (the alphabet holds at most %d)", len(alphabet), _XKC_MAX_ALPHABET), code: ERR_INVALID_ALPHABET}
	}

	tree := NewTree()

	for _, letter := range alphabet {
		tree.Insert(letter.Symbol)
	}

	bs := internal.NewBufferStream(make([]byte, 0, _XKC_HEADER_SIZE+len(src)))
	obs, err := bitstream.NewDefaultOutputBitStream(bs, _XKC_BUFFER_SIZE)

	if err != nil {
		return nil, err
	}

	pe, err := NewPathEncoder(obs, tree)

	if err != nil {
		return nil, err
	}

	obs.WriteBits(uint64(pe.DepthBits()), 8)
	obs.WriteBits(uint64(len(alphabet)-1), 8)

	for _, letter := range alphabet {
		obs.WriteBits(uint64(letter.Symbol), uint(this.symbolWidth)<<3)
	}

	headerBits := obs.Written()

	for _, run := range runs {
		pe.Encode(run.Symbol, run.Count)
	}

	pe.Dispose()
	pathBits := obs.Written() - headerBits

	if pathBits > _XKC_MAX_BITS {
		return nil, &Error{msg: fmt.Sprintf("Invalid input: %d path bits exceed the 32 bit counter", pathBits), code: ERR_BITSTREAM_OVERFLOW}
	}

	if err := obs.Close(); err != nil {
		return nil, err
	}

	var counter [_XKC_COUNTER_SIZE]byte
	binary.LittleEndian.PutUint32(counter[:], uint32(pathBits))

	if _, err := bs.Write(counter[:]); err != nil {
		return nil, err
	}

	dst := make([]byte, bs.Len())
	copy(dst, bs.Bytes())
	return dst, nil
}

// Decode decompresses src and returns the original buffer. An empty input
// yields an empty output; any other buffer inconsistent with its own header
// is rejected.
func (this *Codec) Decode(src []byte) (res []byte, err error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	// The bitstream panics on exhaustion; a crafted depth field can drag the
	// reader past the payload, so turn that into a truncation error here
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &Error{msg: fmt.Sprintf("Truncated input: %v", r), code: ERR_TRUNCATED_INPUT}
		}
	}()

	w := this.symbolWidth

	if len(src) < _XKC_HEADER_SIZE+w+_XKC_COUNTER_SIZE {
		return nil, &Error{msg: fmt.Sprintf("Truncated input: %d bytes", len(src)), code: ERR_TRUNCATED_INPUT}
	}

	depthBits := uint(src[0])
	alphabetSize := int(src[1]) + 1
	headerSize := _XKC_HEADER_SIZE + alphabetSize*w

	if len(src) < headerSize+_XKC_COUNTER_SIZE {
		return nil, &Error{msg: fmt.Sprintf("Truncated input: %d bytes, header implies at least %d", len(src), headerSize+_XKC_COUNTER_SIZE), code: ERR_TRUNCATED_INPUT}
	}

	totalBits := uint64(binary.LittleEndian.Uint32(src[len(src)-_XKC_COUNTER_SIZE:]))
	payload := src[headerSize : len(src)-_XKC_COUNTER_SIZE]

	if totalBits > uint64(len(payload))<<3 {
		return nil, &Error{msg: fmt.Sprintf("Truncated input: %d path bits declared, %d bytes of payload", totalBits, len(payload)), code: ERR_TRUNCATED_INPUT}
	}

	tree := buildTree(this.readSymbols(src[_XKC_HEADER_SIZE:headerSize]))

	ibs, err := bitstream.NewDefaultInputBitStream(internal.NewBufferStream(payload), _XKC_BUFFER_SIZE)

	if err != nil {
		return nil, err
	}

	pd, err := NewPathDecoder(ibs, tree, depthBits)

	if err != nil {
		return nil, err
	}

	res = make([]byte, 0, len(payload)*2)

	for ibs.Read() < totalBits {
		symbol, err := pd.Decode()

		if err != nil {
			return nil, err
		}

		res = this.appendSymbol(res, symbol)
	}

	pd.Dispose()

	// The records must consume the declared bit count exactly; overshooting
	// means the depth bit width in the header does not match the payload
	if ibs.Read() != totalBits {
		return nil, &Error{msg: fmt.Sprintf("Truncated input: %d path bits declared, %d consumed", totalBits, ibs.Read()), code: ERR_TRUNCATED_INPUT}
	}

	return res, nil
}
