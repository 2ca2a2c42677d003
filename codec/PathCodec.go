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
	"errors"
	"fmt"
	"math/bits"

	xkc "github.com/PMArkive/xkc-go"
)

// DepthBits returns the number of bits used to serialize any valid depth of
// the given tree. A lone root has height 0 but every occurrence still spends
// one depth bit, so single symbol alphabets survive the round trip.
func DepthBits(tree *Tree) uint {
	if n := uint(bits.Len(uint(tree.Height()))); n > 0 {
		return n
	}

	return 1
}

// PathEncoder writes tree paths to a bitstream. For each occurrence of a
// symbol it emits the node depth on a fixed number of bits (lowest bit
// first) followed by one direction bit per level.
type PathEncoder struct {
	bitstream xkc.OutputBitStream
	tree      *Tree
	depthBits uint
}

// NewPathEncoder creates a PathEncoder writing paths of the provided tree to
// the provided bitstream
func NewPathEncoder(bs xkc.OutputBitStream, tree *Tree) (*PathEncoder, error) {
	if bs == nil {
		return nil, errors.New("Path codec: Invalid null bitstream parameter")
	}

	if tree == nil || tree.Size() == 0 {
		return nil, errors.New("Path codec: Invalid empty tree parameter")
	}

	this := &PathEncoder{}
	this.bitstream = bs
	this.tree = tree
	this.depthBits = DepthBits(tree)
	return this, nil
}

// DepthBits returns the fixed bit width used to serialize depth values
func (this *PathEncoder) DepthBits() uint {
	return this.depthBits
}

// Encode computes the symbol's path once and writes it 'count' times.
// The symbol must be part of the alphabet the tree was built from.
func (this *PathEncoder) Encode(symbol uint32, count int) {
	var pi PathInfo

	if found := this.tree.PathInfo(&pi, symbol); !found {
		// The driver only encodes symbols it just inserted
		panic(fmt.Errorf("Path codec: symbol %d not present in the tree", symbol))
	}

	for n := 0; n < count; n++ {
		this.bitstream.WriteBits(uint64(pi.Depth), this.depthBits)

		for i := 0; i < pi.Depth; i++ {
			this.bitstream.WriteBit(pi.Path.Bit(i))
		}
	}
}

// BitStream returns the underlying bitstream
func (this *PathEncoder) BitStream() xkc.OutputBitStream {
	return this.bitstream
}

// Dispose this implementation does nothing
func (this *PathEncoder) Dispose() {
}

// PathDecoder reads tree paths from a bitstream and resolves them to
// symbols. It mirrors PathEncoder exactly.
type PathDecoder struct {
	bitstream xkc.InputBitStream
	tree      *Tree
	depthBits uint
}

// NewPathDecoder creates a PathDecoder resolving paths against the provided
// tree. The depth bit width comes from the wire header and only its range is
// checked here; every depth value Decode reads is compared to the tree
// height before the path is walked.
func NewPathDecoder(bs xkc.InputBitStream, tree *Tree, depthBits uint) (*PathDecoder, error) {
	if bs == nil {
		return nil, errors.New("Path codec: Invalid null bitstream parameter")
	}

	if tree == nil || tree.Size() == 0 {
		return nil, errors.New("Path codec: Invalid empty tree parameter")
	}

	if depthBits == 0 || depthBits > 32 {
		return nil, &Error{msg: fmt.Sprintf("Invalid bitstream: depth bit width %d out of range [1..32]", depthBits), code: ERR_INVALID_DEPTH_BITS}
	}

	this := &PathDecoder{}
	this.bitstream = bs
	this.tree = tree
	this.depthBits = depthBits
	return this, nil
}

// Decode reads one depth value and its direction bits, then walks the tree
// to recover the symbol
func (this *PathDecoder) Decode() (uint32, error) {
	var pi PathInfo
	pi.Depth = int(this.bitstream.ReadBits(this.depthBits))

	if pi.Depth > this.tree.Height() {
		return 0, &Error{msg: fmt.Sprintf("Invalid bitstream: depth %d exceeds tree height %d", pi.Depth, this.tree.Height()), code: ERR_TREE_LOOKUP}
	}

	for i := 0; i < pi.Depth; i++ {
		pi.Path.SetBit(i, this.bitstream.ReadBit())
	}

	return this.tree.FindValue(&pi)
}

// BitStream returns the underlying bitstream
func (this *PathDecoder) BitStream() xkc.InputBitStream {
	return this.bitstream
}

// Dispose this implementation does nothing
func (this *PathDecoder) Dispose() {
}
