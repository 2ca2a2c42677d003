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
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultOutputBitStream is the default implementation of OutputBitStream.
// Bits fill the current byte from the least significant position upward,
// so the first bit written to an empty stream lands in bit 0 of byte 0.
type DefaultOutputBitStream struct {
	closed   bool
	written  uint64 // bits flushed to the underlying stream
	position int    // index of current byte in buffer
	bits     uint   // bits pending in 'current', in [0..64)
	current  uint64 // pending bits, bit 0 = oldest
	os       io.WriteCloser
	buffer   []byte
}

var _OBS_MASKS = [65]uint64{}

func init() {
	for i := 1; i <= 64; i++ {
		_OBS_MASKS[i] = _OBS_MASKS[i-1]<<1 | 1
	}
}

// NewDefaultOutputBitStream creates a bitstream for writing, using the provided
// stream as the underlying I/O object.
func NewDefaultOutputBitStream(stream io.WriteCloser, bufferSize uint) (*DefaultOutputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null output stream parameter")
	}

	if bufferSize < 1024 {
		return nil, errors.New("Invalid buffer size parameter (must be at least 1024 bytes)")
	}

	if bufferSize > 1<<29 {
		return nil, errors.New("Invalid buffer size parameter (must be at most 536870912 bytes)")
	}

	if bufferSize&7 != 0 {
		return nil, errors.New("Invalid buffer size (must be a multiple of 8)")
	}

	this := new(DefaultOutputBitStream)
	this.buffer = make([]byte, bufferSize)
	this.os = stream
	return this, nil
}

// WriteBit writes the least significant bit of the input integer.
// Panics if the bitstream is closed.
func (this *DefaultOutputBitStream) WriteBit(bit int) {
	if this.Closed() {
		panic(errors.New("Stream closed"))
	}

	this.current |= uint64(bit&1) << this.bits
	this.bits++

	if this.bits == 64 {
		this.pushCurrent()
	}
}

// WriteBits writes the 'count' least significant bits of 'value' to the
// bitstream, lowest bit first. Panics if the bitstream is closed or 'count'
// is outside of [1..64]. Returns the number of written bits.
func (this *DefaultOutputBitStream) WriteBits(value uint64, count uint) uint {
	if count == 0 || count > 64 {
		panic(fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count))
	}

	if this.Closed() {
		panic(errors.New("Stream closed"))
	}

	value &= _OBS_MASKS[count]
	this.current |= value << this.bits

	if this.bits+count >= 64 {
		used := 64 - this.bits
		this.pushCurrent()
		this.current = value >> used
		this.bits = count - used
	} else {
		this.bits += count
	}

	return count
}

// Push 64 bits of current value into buffer, oldest bits in the lowest byte.
func (this *DefaultOutputBitStream) pushCurrent() {
	binary.LittleEndian.PutUint64(this.buffer[this.position:this.position+8], this.current)
	this.bits = 0
	this.current = 0
	this.position += 8

	if this.position >= len(this.buffer) {
		if err := this.flush(); err != nil {
			panic(err)
		}
	}
}

// Write buffer into underlying stream
func (this *DefaultOutputBitStream) flush() error {
	if this.Closed() {
		return errors.New("Stream closed")
	}

	if this.position > 0 {
		if _, err := this.os.Write(this.buffer[0:this.position]); err != nil {
			return err
		}

		this.written += uint64(this.position) << 3
		this.position = 0
	}

	return nil
}

// Close flushes the pending bits (the very last byte may be padded with
// zero bits) and prevents further writes. The underlying stream is left open.
func (this *DefaultOutputBitStream) Close() error {
	if this.Closed() {
		return nil
	}

	total := this.Written()

	// Push last bytes (the very last byte may be incomplete)
	for this.bits > 0 {
		this.buffer[this.position] = byte(this.current)
		this.current >>= 8
		this.position++

		if this.bits >= 8 {
			this.bits -= 8
		} else {
			this.bits = 0
		}
	}

	if err := this.flush(); err != nil {
		return err
	}

	this.closed = true
	this.position = 0
	this.written = total
	return nil
}

// Written returns the number of bits written so far
func (this *DefaultOutputBitStream) Written() uint64 {
	if this.Closed() {
		return this.written
	}

	// Number of bits flushed + bytes buffered in memory + bits pending
	return this.written + uint64(this.position)<<3 + uint64(this.bits)
}

// Closed says whether this stream can be written to
func (this *DefaultOutputBitStream) Closed() bool {
	return this.closed
}
