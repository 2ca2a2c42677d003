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

// Package io wraps the XKC codec in a block based stream container.
//
// Container layout, all multi byte integers little endian:
//
//	uint32  magic 'XKC1'
//	byte    container version
//	byte    symbol width
//	byte    flags (bit 0: block checksums present)
//	blocks  uint32 encoded length, encoded bytes,
//	        optional uint64 XXHash64 of the original block
//	uint32  zero length terminator block
package io

import (
	"encoding/binary"
	"fmt"
	"io"

	xkc "github.com/PMArkive/xkc-go"
	"github.com/PMArkive/xkc-go/codec"
	"github.com/PMArkive/xkc-go/hash"
)

const (
	_STREAM_MAGIC          = uint32(0x31434B58) // 'XKC1'
	_STREAM_VERSION        = byte(1)
	_STREAM_FLAG_CHECKSUM  = byte(1)
	_STREAM_DEFAULT_BLOCK  = 1 << 20
	_STREAM_MIN_BLOCK_SIZE = 1 << 10
	_STREAM_MAX_BLOCK_SIZE = 1 << 28
	_STREAM_HASH_SEED      = uint64(0)
)

// IOError is an extended error containing a message and a code value
type IOError struct {
	msg  string
	code int
}

// Error returns the error message
func (this *IOError) Error() string {
	return fmt.Sprintf("%v (error %v)", this.msg, this.code)
}

// Message returns the error message
func (this *IOError) Message() string {
	return this.msg
}

// ErrorCode returns the error code
func (this *IOError) ErrorCode() int {
	return this.code
}

// Writer compresses data written to it into blocks and emits the container
// format to the underlying stream. Writer is not safe for concurrent use.
type Writer struct {
	os         io.Writer
	xc         *codec.Codec
	hasher     *hash.XXHash64
	buffer     []byte
	buffered   int
	blockSize  int
	headerDone bool
	closed     bool
}

// NewWriter creates a Writer producing the container format on the provided
// stream. The block size must be a multiple of the symbol width; a checksum
// of every original block is stored when 'checksum' is true.
func NewWriter(os io.Writer, symbolWidth int, blockSize int, checksum bool) (*Writer, error) {
	if os == nil {
		return nil, &IOError{msg: "Invalid null output stream parameter", code: xkc.ERR_CREATE_STREAM}
	}

	xc, err := codec.NewCodec(symbolWidth)

	if err != nil {
		return nil, &IOError{msg: err.Error(), code: xkc.ERR_CREATE_COMPRESSOR}
	}

	if blockSize == 0 {
		blockSize = _STREAM_DEFAULT_BLOCK
	}

	if blockSize < _STREAM_MIN_BLOCK_SIZE || blockSize > _STREAM_MAX_BLOCK_SIZE {
		return nil, &IOError{msg: fmt.Sprintf("Invalid block size: %d (must be in [%d..%d])", blockSize, _STREAM_MIN_BLOCK_SIZE, _STREAM_MAX_BLOCK_SIZE), code: xkc.ERR_INVALID_PARAM}
	}

	if blockSize%symbolWidth != 0 {
		return nil, &IOError{msg: fmt.Sprintf("Invalid block size: %d (must be a multiple of the symbol width %d)", blockSize, symbolWidth), code: xkc.ERR_INVALID_PARAM}
	}

	this := &Writer{}
	this.os = os
	this.xc = xc
	this.blockSize = blockSize
	this.buffer = make([]byte, blockSize)

	if checksum {
		this.hasher, _ = hash.NewXXHash64(_STREAM_HASH_SEED)
	}

	return this, nil
}

func (this *Writer) writeHeader() error {
	var header [7]byte
	binary.LittleEndian.PutUint32(header[0:4], _STREAM_MAGIC)
	header[4] = _STREAM_VERSION
	header[5] = byte(this.xc.SymbolWidth())
	header[6] = 0

	if this.hasher != nil {
		header[6] |= _STREAM_FLAG_CHECKSUM
	}

	if _, err := this.os.Write(header[:]); err != nil {
		return &IOError{msg: "Cannot write header to output stream", code: xkc.ERR_WRITE_FILE}
	}

	this.headerDone = true
	return nil
}

// Write buffers the provided data, compressing and emitting a block every
// time the block size is reached. Returns the number of bytes consumed.
func (this *Writer) Write(block []byte) (int, error) {
	if this.closed {
		return 0, &IOError{msg: "Stream closed", code: xkc.ERR_WRITE_FILE}
	}

	written := 0

	for written < len(block) {
		n := copy(this.buffer[this.buffered:], block[written:])
		this.buffered += n
		written += n

		if this.buffered == this.blockSize {
			if err := this.processBlock(); err != nil {
				return written, err
			}
		}
	}

	return written, nil
}

func (this *Writer) processBlock() error {
	if !this.headerDone {
		if err := this.writeHeader(); err != nil {
			return err
		}
	}

	if this.buffered == 0 {
		return nil
	}

	data := this.buffer[0:this.buffered]
	encoded, err := this.xc.Encode(data)

	if err != nil {
		return &IOError{msg: err.Error(), code: xkc.ERR_PROCESS_BLOCK}
	}

	var blockLen [4]byte
	binary.LittleEndian.PutUint32(blockLen[:], uint32(len(encoded)))

	if _, err := this.os.Write(blockLen[:]); err != nil {
		return &IOError{msg: "Cannot write block length to output stream", code: xkc.ERR_WRITE_FILE}
	}

	if _, err := this.os.Write(encoded); err != nil {
		return &IOError{msg: "Cannot write block to output stream", code: xkc.ERR_WRITE_FILE}
	}

	if this.hasher != nil {
		var digest [8]byte
		binary.LittleEndian.PutUint64(digest[:], this.hasher.Hash(data))

		if _, err := this.os.Write(digest[:]); err != nil {
			return &IOError{msg: "Cannot write block checksum to output stream", code: xkc.ERR_WRITE_FILE}
		}
	}

	this.buffered = 0
	return nil
}

// Close flushes the pending partial block and writes the stream terminator.
// The underlying stream is left open.
func (this *Writer) Close() error {
	if this.closed {
		return nil
	}

	if err := this.processBlock(); err != nil {
		return err
	}

	if !this.headerDone {
		// Empty stream: emit the header anyway so the reader accepts it
		if err := this.writeHeader(); err != nil {
			return err
		}
	}

	var terminator [4]byte

	if _, err := this.os.Write(terminator[:]); err != nil {
		return &IOError{msg: "Cannot write terminator to output stream", code: xkc.ERR_WRITE_FILE}
	}

	this.closed = true
	return nil
}

// Reader decompresses a container stream produced by Writer.
// Reader is not safe for concurrent use.
type Reader struct {
	is         io.Reader
	xc         *codec.Codec
	hasher     *hash.XXHash64
	pending    []byte
	headerDone bool
	eos        bool
}

// NewReader creates a Reader decoding the container format from the provided
// stream. The symbol width and checksum mode come from the stream header.
func NewReader(is io.Reader) (*Reader, error) {
	if is == nil {
		return nil, &IOError{msg: "Invalid null input stream parameter", code: xkc.ERR_CREATE_STREAM}
	}

	this := &Reader{}
	this.is = is
	return this, nil
}

func (this *Reader) readHeader() error {
	var header [7]byte

	if _, err := io.ReadFull(this.is, header[:]); err != nil {
		return &IOError{msg: "Cannot read header from input stream", code: xkc.ERR_READ_FILE}
	}

	if binary.LittleEndian.Uint32(header[0:4]) != _STREAM_MAGIC {
		return &IOError{msg: "Invalid stream type", code: xkc.ERR_INVALID_FILE}
	}

	if header[4] != _STREAM_VERSION {
		return &IOError{msg: fmt.Sprintf("Cannot read this version of the stream: %d", header[4]), code: xkc.ERR_STREAM_VERSION}
	}

	xc, err := codec.NewCodec(int(header[5]))

	if err != nil {
		return &IOError{msg: err.Error(), code: xkc.ERR_INVALID_FILE}
	}

	this.xc = xc

	if header[6]&_STREAM_FLAG_CHECKSUM != 0 {
		this.hasher, _ = hash.NewXXHash64(_STREAM_HASH_SEED)
	}

	this.headerDone = true
	return nil
}

func (this *Reader) readBlock() error {
	var blockLen [4]byte

	if _, err := io.ReadFull(this.is, blockLen[:]); err != nil {
		return &IOError{msg: "Cannot read block length from input stream", code: xkc.ERR_READ_FILE}
	}

	encodedLen := binary.LittleEndian.Uint32(blockLen[:])

	if encodedLen == 0 {
		this.eos = true
		return nil
	}

	encoded := make([]byte, encodedLen)

	if _, err := io.ReadFull(this.is, encoded); err != nil {
		return &IOError{msg: "Cannot read block from input stream", code: xkc.ERR_READ_FILE}
	}

	decoded, err := this.xc.Decode(encoded)

	if err != nil {
		return &IOError{msg: err.Error(), code: xkc.ERR_PROCESS_BLOCK}
	}

	if this.hasher != nil {
		var digest [8]byte

		if _, err := io.ReadFull(this.is, digest[:]); err != nil {
			return &IOError{msg: "Cannot read block checksum from input stream", code: xkc.ERR_READ_FILE}
		}

		if binary.LittleEndian.Uint64(digest[:]) != this.hasher.Hash(decoded) {
			return &IOError{msg: "Corrupted stream: invalid block checksum", code: xkc.ERR_CRC_CHECK}
		}
	}

	this.pending = decoded
	return nil
}

// Read decompresses data from the stream into the provided block.
// Returns io.EOF once the terminator block is reached.
func (this *Reader) Read(block []byte) (int, error) {
	if !this.headerDone {
		if err := this.readHeader(); err != nil {
			return 0, err
		}
	}

	read := 0

	for read < len(block) {
		if len(this.pending) == 0 {
			if this.eos {
				break
			}

			if err := this.readBlock(); err != nil {
				return read, err
			}

			continue
		}

		n := copy(block[read:], this.pending)
		this.pending = this.pending[n:]
		read += n
	}

	if read == 0 && this.eos {
		return 0, io.EOF
	}

	return read, nil
}
