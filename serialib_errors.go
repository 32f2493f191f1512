// Copyright (c) 2026 The serialib authors
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package serialib

import (
	"fmt"
)

// TruncatedBufferError reports a fixed-width read past the end of the
// input buffer.
type TruncatedBufferError struct {
	Offset    int
	Needed    int
	Remaining int
}

var _ error = (*TruncatedBufferError)(nil)

func (err *TruncatedBufferError) Error() string {
	return fmt.Sprintf(
		"serialib: truncated buffer: need %d bytes at offset %d, %d remain",
		err.Needed, err.Offset, err.Remaining,
	)
}

// InvalidEnumValueError reports a decoded enum raw value with no
// matching declared constant.
type InvalidEnumValueError struct {
	Offset int
	Enum   string
	Raw    uint64
}

var _ error = (*InvalidEnumValueError)(nil)

func (err *InvalidEnumValueError) Error() string {
	return fmt.Sprintf(
		"serialib: %d at offset %d is not a declared value of enum %s",
		err.Raw, err.Offset, err.Enum,
	)
}

// LengthMismatchError reports a length or count prefix inconsistent
// with the bytes actually available: a prefix that reads past the end
// of its enclosing value, or trailing bytes left over after a
// self-delimited value was fully decoded.
type LengthMismatchError struct {
	Offset    int
	Declared  int
	Remaining int
	Trailing  bool
}

var _ error = (*LengthMismatchError)(nil)

func (err *LengthMismatchError) Error() string {
	if err.Trailing {
		return fmt.Sprintf(
			"serialib: %d trailing bytes after value ending at offset %d",
			err.Remaining, err.Offset,
		)
	}
	return fmt.Sprintf(
		"serialib: declared length %d at offset %d exceeds %d remaining bytes",
		err.Declared, err.Offset, err.Remaining,
	)
}

// DepthLimitError reports nesting beyond MaxDecodeDepth during decode
// or verify.
type DepthLimitError struct {
	Offset int
}

var _ error = (*DepthLimitError)(nil)

func (err *DepthLimitError) Error() string {
	return fmt.Sprintf(
		"serialib: nesting at offset %d exceeds maximum decode depth %d",
		err.Offset, MaxDecodeDepth,
	)
}
