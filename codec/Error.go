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

// Error codes returned by the codec. Malformed input is always rejected with
// one of these before any decoded byte is trusted; the original format has
// no in-band integrity data, so a payload that is consistent with the header
// still decodes without error.
const (
	ERR_TRUNCATED_INPUT    = 1 // buffer shorter than the header and trailing counter imply
	ERR_INVALID_ALPHABET   = 2 // more than 256 distinct symbols in the input
	ERR_INVALID_DEPTH_BITS = 3 // declared depth bit width out of range
	ERR_TREE_LOOKUP        = 4 // decoded path does not correspond to any node
	ERR_INVALID_LENGTH     = 5 // input length is not a multiple of the symbol width
	ERR_INVALID_WIDTH      = 6 // symbol width not 1, 2 or 4
	ERR_BITSTREAM_OVERFLOW = 7 // path bit count does not fit the 32 bit trailing counter
)

// Error is an extended error containing a message and a code value
type Error struct {
	msg  string
	code int
}

// Error returns the error message
func (this *Error) Error() string {
	return this.msg
}

// ErrorCode returns the error code
func (this *Error) ErrorCode() int {
	return this.code
}
