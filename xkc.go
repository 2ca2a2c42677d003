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

// Package xkc defines the top level interfaces used in the xkc
// run-length/path-tree compressor and decompressor.
//
// The implementations of these interfaces are available in sub-folders
// like bitstream, codec or io. In particular, the io package contains
// the implementation of the Writer and Reader used to compress and
// decompress streams of data.
package xkc

const (
	ERR_MISSING_PARAM      = 1
	ERR_INVALID_PARAM      = 2
	ERR_CREATE_COMPRESSOR  = 3
	ERR_CREATE_STREAM      = 4
	ERR_OVERWRITE_FILE     = 5
	ERR_CREATE_FILE        = 6
	ERR_OPEN_FILE          = 7
	ERR_READ_FILE          = 8
	ERR_WRITE_FILE         = 9
	ERR_PROCESS_BLOCK      = 10
	ERR_CRC_CHECK          = 11
	ERR_INVALID_FILE       = 12
	ERR_STREAM_VERSION     = 13
	ERR_UNKNOWN            = 127
)

// InputBitStream is a bitstream reader. Bits are consumed least significant
// bit first within each byte of the underlying stream.
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream. Panics if closed or EOS is reached.
	ReadBit() int

	// ReadBits reads 'count' (in [1..64]) bits from the bitstream.
	// Bit i of the result is the i-th bit read.
	// Panics if closed or EOS is reached.
	ReadBits(count uint) uint64

	// Close makes the bitstream unavailable for further reads.
	Close() error

	// Read returns the number of bits read
	Read() uint64

	// HasMoreToRead returns false when the bitstream is closed or the EOS has been reached
	HasMoreToRead() (bool, error)
}

// OutputBitStream is a bitstream writer. Bits fill each output byte from the
// least significant position upward.
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	// Panics if closed or an IO error is received.
	WriteBit(bit int)

	// WriteBits writes the 'count' (in [1..64]) least significant bits of
	// 'value' to the bitstream, lowest bit first.
	// Returns the number of bits written.
	// Panics if closed or an IO error is received.
	WriteBits(value uint64, count uint) uint

	// Close flushes any pending partial byte and makes the bitstream
	// unavailable for further writes.
	Close() error

	// Written returns the number of bits written
	Written() uint64
}
