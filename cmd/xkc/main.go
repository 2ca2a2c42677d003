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

// xkc compresses and decompresses files with the XKC container format.
//
//	xkc -input data.bin -output data.xkc
//	xkc -decompress -input data.xkc -output data.bin
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	xkc "github.com/PMArkive/xkc-go"
	xkcio "github.com/PMArkive/xkc-go/io"
	"go.uber.org/zap"
)

const _APP_HEADER = "xkc 1.0"

func main() {
	os.Exit(run())
}

func run() int {
	decompress := flag.Bool("decompress", false, "decompress the input instead of compressing it")
	input := flag.String("input", "", "input file (required)")
	output := flag.String("output", "", "output file (required)")
	width := flag.Int("width", 1, "symbol width in bytes (1, 2 or 4)")
	block := flag.Int("block", 0, "block size in bytes (0 selects the default)")
	checksum := flag.Bool("checksum", false, "store a checksum of every block")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := zap.NewNop()

	if *verbose {
		l, err := zap.NewDevelopment()

		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return xkc.ERR_UNKNOWN
		}

		logger = l
	}

	defer logger.Sync()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, _APP_HEADER)
		flag.Usage()
		return xkc.ERR_MISSING_PARAM
	}

	in, err := os.Open(*input)

	if err != nil {
		logger.Error("cannot open input", zap.String("file", *input), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return xkc.ERR_OPEN_FILE
	}

	defer in.Close()

	out, err := os.Create(*output)

	if err != nil {
		logger.Error("cannot create output", zap.String("file", *output), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return xkc.ERR_CREATE_FILE
	}

	defer out.Close()

	if *decompress {
		return expand(logger, in, out)
	}

	return compress(logger, in, out, *width, *block, *checksum)
}

func compress(logger *zap.Logger, in io.Reader, out io.Writer, width, block int, checksum bool) int {
	w, err := xkcio.NewWriter(out, width, block, checksum)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errorCode(err, xkc.ERR_CREATE_COMPRESSOR)
	}

	read, err := io.Copy(w, in)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errorCode(err, xkc.ERR_PROCESS_BLOCK)
	}

	if err := w.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errorCode(err, xkc.ERR_WRITE_FILE)
	}

	logger.Info("compressed", zap.Int64("bytes", read), zap.Int("width", width))
	return 0
}

func expand(logger *zap.Logger, in io.Reader, out io.Writer) int {
	r, err := xkcio.NewReader(in)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errorCode(err, xkc.ERR_CREATE_STREAM)
	}

	written, err := io.Copy(out, r)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errorCode(err, xkc.ERR_PROCESS_BLOCK)
	}

	logger.Info("decompressed", zap.Int64("bytes", written))
	return 0
}

func errorCode(err error, fallback int) int {
	var ioErr *xkcio.IOError

	if errors.As(err, &ioErr) {
		return ioErr.ErrorCode()
	}

	return fallback
}
