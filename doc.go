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

/*
Package serialcom implements a framed request/response protocol for talking
to register-based devices over an unreliable byte stream, such as a UART
link to a microcontroller.

Frames are delimited with COBS byte stuffing (a single zero terminator per
frame, so the receiver can always resynchronize on corruption) and guarded
by a CRC-16/DNP checksum. On top of the framing sits a small register
sub-protocol: read-register requests, 8- and 32-bit write requests, their
responses, and unsolicited streaming telemetry whose command byte encodes
the sample word width.

Features:
  - COBS framing with zero-terminator resynchronization
  - CRC-16/DNP integrity checking, big-endian on the wire
  - Fixed-capacity ring buffers sized for small-device peers
  - Three wire layouts: host, versioned device, and bare (checksum-less)
  - Synchronous register calls with typed timeout errors
  - Concurrent receiver dispatching frames into per-class FIFO queues
  - Streaming telemetry decoded to unsigned samples (8/16/32-bit words)
  - Retry logic with configurable backoff

Basic Usage:

	import (
	    "github.com/serialcom-project/go-serialcom"
	    "github.com/serialcom-project/go-serialcom/transport/uart"
	)

	// Open a serial port
	port, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}

	// Create a client over it
	client, err := serialcom.NewClient(port,
	    serialcom.WithRegisterWidth(serialcom.RegisterWidth8),
	    serialcom.WithCallTimeout(500*time.Millisecond),
	)
	if err != nil {
	    log.Fatal(err)
	}
	defer client.Close()

	// Synchronous register access
	if err := client.WriteReg(42, 7); err != nil {
	    log.Fatal(err)
	}
	value, err := client.ReadReg(42)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(value)

Streaming telemetry is delivered to a handler on a background goroutine:

	client, err = serialcom.NewClient(port,
	    serialcom.WithStreamHandler(func(cmd byte, samples []uint32) {
	        for _, s := range samples {
	            fmt.Println(s)
	        }
	    }),
	)

The Codec, Receiver and register packers are exported separately so a
device-side implementation or a custom client can reuse the framing
without the synchronous call layer.
*/
package serialcom
