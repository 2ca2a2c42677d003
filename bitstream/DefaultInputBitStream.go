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
	"errors"
	"fmt"
	"io"
)

// DefaultInputBitStream is the default implementation of InputBitStream.
// Bits are consumed least significant bit first within each byte, mirroring
// the order produced by DefaultOutputBitStream.
type DefaultInputBitStream struct {
	closed      bool
	read        uint64 // bits consumed from retired buffer bytes
	position    int    // index of current byte in buffer
	availBits   uint   // bits not consumed in 'current'
	is          io.ReadCloser
	buffer      []byte
	maxPosition int
	current     uint64 // cached bits, bit 0 = next to be read
}

// NewDefaultInputBitStream creates a bitstream for reading, using the provided
// stream as the underlying I/O object.
func NewDefaultInputBitStream(stream io.ReadCloser, bufferSize uint) (*DefaultInputBitStream, error) {
	if stream == nil {
		return nil, errors.New("Invalid null input stream parameter")
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

	this := new(DefaultInputBitStream)
	this.buffer = make([]byte, bufferSize)
	this.is = stream
	this.maxPosition = -1
	return this, nil
}

// ReadBit returns the next bit
func (this *DefaultInputBitStream) ReadBit() int {
	if this.availBits == 0 {
		this.pullCurrent() // Panic if stream is closed
	}

	bit := int(this.current & 1)
	this.current >>= 1
	this.availBits--
	this.read++
	return bit
}

// ReadBits reads 'count' bits from the stream and returns them as an uint64
// with bit i holding the i-th bit read. It panics if the count is outside of
// the [1..64] range or the stream is closed.
func (this *DefaultInputBitStream) ReadBits(count uint) uint64 {
	if count == 0 || count > 64 {
		panic(fmt.Errorf("Invalid bit count: %d (must be in [1..64])", count))
	}

	if count <= this.availBits {
		// Enough bits available in 'current'
		res := this.current & _OBS_MASKS[count]
		this.current >>= count
		this.availBits -= count
		this.read += uint64(count)
		return res
	}

	// Not enough bits available in 'current'
	have := this.availBits
	res := this.current & _OBS_MASKS[have]
	this.pullCurrent()
	remaining := count - have

	if remaining > this.availBits {
		panic(errors.New("No more data to read in the bitstream"))
	}
	res |= (this.current & _OBS_MASKS[remaining]) << have
	this.current >>= remaining
	this.availBits -= remaining
	this.read += uint64(count)
	return res
}

func (this *DefaultInputBitStream) readFromInputStream(count int) (int, error) {
	if this.Closed() {
		return 0, errors.New("Stream closed")
	}

	if count == 0 {
		return 0, nil
	}

	size, err := this.is.Read(this.buffer[0:count])
	this.position = 0

	if size <= 0 {
		this.maxPosition = -1
		return 0, errors.New("No more data to read in the bitstream")
	}

	this.maxPosition = size - 1
	return size, err
}

// HasMoreToRead returns false is the stream is closed or there is no
// more bit to read.
func (this *DefaultInputBitStream) HasMoreToRead() (bool, error) {
	if this.Closed() {
		return false, errors.New("Stream closed")
	}

	if this.position <= this.maxPosition || this.availBits != 0 {
		return true, nil
	}

	_, err := this.readFromInputStream(len(this.buffer))
	return err == nil, err
}

// Pull up to 64 bits of current value from buffer.
func (this *DefaultInputBitStream) pullCurrent() {
	if this.position > this.maxPosition {
		if _, err := this.readFromInputStream(len(this.buffer)); err != nil {
			panic(err)
		}
	}

	avail := this.maxPosition + 1 - this.position

	if avail > 8 {
		avail = 8
	}

	// Oldest byte lands in the lowest bits
	val := uint64(0)

	for i := 0; i < avail; i++ {
		val |= uint64(this.buffer[this.position]) << (uint(i) << 3)
		this.position++
	}

	this.current = val
	this.availBits = uint(avail) << 3
}

// Close prevents further reads (beyond the available bits)
func (this *DefaultInputBitStream) Close() error {
	if this.Closed() {
		return nil
	}

	this.closed = true

	// Drop cached bits to force a readFromInputStream() and trigger an error
	// on ReadBit() or ReadBits()
	this.availBits = 0
	this.maxPosition = -1
	return nil
}

// Read returns the number of bits read so far
func (this *DefaultInputBitStream) Read() uint64 {
	return this.read
}

// Closed says whether this stream can be read from
func (this *DefaultInputBitStream) Closed() bool {
	return this.closed
}
