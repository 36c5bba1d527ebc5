// go-serialcom
// Copyright (c) 2025 The SerialCom Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-serialcom.
//
// go-serialcom is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-serialcom is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-serialcom; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package serialcom

import (
	"errors"
	"fmt"

	"github.com/serialcom-project/go-serialcom/internal/frame"
)

// Capacity errors. Detected before any buffer mutation; the caller can
// retry with corrected sizing.
var (
	// ErrPayloadTooLarge means the payload exceeds the capacity-derived
	// maximum for the codec's buffer.
	ErrPayloadTooLarge = errors.New("payload too large for buffer capacity")

	// ErrDestTooSmall means the caller's output buffer cannot hold the
	// largest possible payload.
	ErrDestTooSmall = errors.New("destination buffer too small")

	// ErrValueOutOfRange means a register value does not fit the
	// configured register width.
	ErrValueOutOfRange = errors.New("value out of range for register width")
)

// Framing errors. They indicate transport desync or garbage and are
// recovered from by resynchronizing on the next terminator.
var (
	ErrBufferFull    = frame.ErrBufferFull
	ErrFrameTooShort = frame.ErrFrameTooShort
	ErrFrameTooLong  = frame.ErrFrameTooLong
	ErrNoTerminator  = frame.ErrNoTerminator

	// ErrTruncatedFrame means a decoded frame was too short to hold its
	// own header: an inconsistency between claimed and actual size.
	ErrTruncatedFrame = errors.New("frame truncated mid-parse")
)

// Integrity and routing errors.
var (
	// ErrChecksumMismatch means the received CRC disagrees with the
	// recomputed one; the frame is discarded, never partially trusted.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnexpectedCommand means a reserved or invalid command byte was
	// received. Non-fatal: the receiver logs and continues.
	ErrUnexpectedCommand = errors.New("unexpected command")

	// ErrMalformedPayload means a register payload had an unrecognized
	// length.
	ErrMalformedPayload = errors.New("malformed register payload")
)

// Call and transport errors.
var (
	// ErrTimeout means a register call's bounded wait expired with no
	// matching response.
	ErrTimeout = errors.New("operation timeout")

	// ErrReceiverClosed means the host receiver has shut down, which
	// happens only on transport failure.
	ErrReceiverClosed = errors.New("receiver closed")

	// ErrTransportRead means reading raw bytes from the transport failed.
	ErrTransportRead = errors.New("transport read failed")

	// ErrTransportWrite means writing raw bytes to the transport failed.
	ErrTransportWrite = errors.New("transport write failed")
)

// ErrorType classifies errors for retry decisions.
type ErrorType int

const (
	// ErrorTypePermanent indicates retrying cannot help.
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient indicates the operation may succeed if retried.
	ErrorTypeTransient
	// ErrorTypeTimeout indicates a bounded wait expired.
	ErrorTypeTimeout
)

// TransportError wraps a failure of the underlying byte transport with
// enough context to decide whether a retry is worthwhile.
type TransportError struct {
	Err  error
	Op   string
	Port string
	Type ErrorType
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("transport %s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError for the given operation.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{Op: op, Port: port, Err: err, Type: errType}
}

// NewTimeoutError creates a TransportError representing an expired wait.
func NewTimeoutError(op, port string) *TransportError {
	return &TransportError{Op: op, Port: port, Err: ErrTimeout, Type: ErrorTypeTimeout}
}

// GetErrorType returns the classification of err.
func GetErrorType(err error) ErrorType {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}
	switch {
	case errors.Is(err, ErrTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrChecksumMismatch),
		errors.Is(err, ErrNoTerminator),
		errors.Is(err, ErrTruncatedFrame),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}

// IsRetryable reports whether err is worth retrying. Corruption and
// timeouts are transient on a noisy line; sizing mistakes and closed
// receivers are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrReceiverClosed) {
		return false
	}
	switch GetErrorType(err) {
	case ErrorTypeTransient, ErrorTypeTimeout:
		return true
	case ErrorTypePermanent:
		return false
	default:
		return false
	}
}
