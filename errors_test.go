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
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()
	tests := getIsRetryableTestCases()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := IsRetryable(tt.err)
			if got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func getIsRetryableTestCases() []struct {
	err  error
	name string
	want bool
} {
	return []struct {
		err  error
		name string
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "timeout retryable",
			err:  ErrTimeout,
			want: true,
		},
		{
			name: "wrapped timeout retryable",
			err:  fmt.Errorf("read reg 42: %w", ErrTimeout),
			want: true,
		},
		{
			name: "checksum mismatch retryable",
			err:  ErrChecksumMismatch,
			want: true,
		},
		{
			name: "no terminator retryable",
			err:  ErrNoTerminator,
			want: true,
		},
		{
			name: "truncated frame retryable",
			err:  ErrTruncatedFrame,
			want: true,
		},
		{
			name: "transport read retryable",
			err:  ErrTransportRead,
			want: true,
		},
		{
			name: "transport write retryable",
			err:  ErrTransportWrite,
			want: true,
		},
		{
			name: "transient transport error retryable",
			err:  NewTransportError("write", "/dev/ttyUSB0", errors.New("EAGAIN"), ErrorTypeTransient),
			want: true,
		},
		{
			name: "timeout transport error retryable",
			err:  NewTimeoutError("read", "/dev/ttyUSB0"),
			want: true,
		},
		{
			name: "permanent transport error not retryable",
			err:  NewTransportError("open", "/dev/ttyUSB0", errors.New("no such device"), ErrorTypePermanent),
			want: false,
		},
		{
			name: "payload too large not retryable",
			err:  ErrPayloadTooLarge,
			want: false,
		},
		{
			name: "destination too small not retryable",
			err:  ErrDestTooSmall,
			want: false,
		},
		{
			name: "value out of range not retryable",
			err:  ErrValueOutOfRange,
			want: false,
		},
		{
			name: "receiver closed not retryable",
			err:  ErrReceiverClosed,
			want: false,
		},
		{
			name: "wrapped receiver closed not retryable",
			err:  fmt.Errorf("write reg 42: %w", ErrReceiverClosed),
			want: false,
		},
		{
			name: "unknown error not retryable",
			err:  errors.New("something else"),
			want: false,
		},
	}
}

func TestGetErrorType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		name string
		want ErrorType
	}{
		{name: "timeout", err: ErrTimeout, want: ErrorTypeTimeout},
		{name: "checksum", err: ErrChecksumMismatch, want: ErrorTypeTransient},
		{name: "capacity", err: ErrPayloadTooLarge, want: ErrorTypePermanent},
		{
			name: "transport error carries its own type",
			err:  NewTransportError("read", "", ErrTransportRead, ErrorTypePermanent),
			want: ErrorTypePermanent,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetErrorType(tt.err); got != tt.want {
				t.Errorf("GetErrorType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransportErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewTransportError("write", "/dev/ttyUSB0", errors.New("broken pipe"), ErrorTypeTransient)
	if !strings.Contains(err.Error(), "/dev/ttyUSB0") || !strings.Contains(err.Error(), "write") {
		t.Errorf("message %q missing op or port", err.Error())
	}

	if !errors.Is(NewTimeoutError("read", "mock"), ErrTimeout) {
		t.Error("timeout transport error must unwrap to ErrTimeout")
	}
}
