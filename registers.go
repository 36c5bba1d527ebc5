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
	"encoding/binary"
	"fmt"
)

// Register payload layouts, all big-endian:
//
//	read request        [reg_hi][reg_lo]
//	write (8-bit)       [reg_hi][reg_lo][value]
//	write (32-bit)      [reg_hi][reg_lo][v_31_24][v_23_16][v_15_8][v_7_0]
//	read response       reuses the write layouts
//	write ack           [reg_hi][reg_lo]
//
// Length alone selects the decode path; any other length is malformed.
const (
	readReqLen  = 2
	writeAckLen = 2
	reg8Len     = 3
	reg32Len    = 6
)

// PackReadReg builds the host→device read request payload.
func PackReadReg(reg uint16) []byte {
	p := make([]byte, readReqLen)
	binary.BigEndian.PutUint16(p, reg)
	return p
}

// PackWriteReg8 builds the host→device 8-bit write payload.
func PackWriteReg8(reg uint16, value byte) []byte {
	p := make([]byte, reg8Len)
	binary.BigEndian.PutUint16(p, reg)
	p[2] = value
	return p
}

// PackWriteReg32 builds the host→device 32-bit write payload.
func PackWriteReg32(reg uint16, value uint32) []byte {
	p := make([]byte, reg32Len)
	binary.BigEndian.PutUint16(p, reg)
	binary.BigEndian.PutUint32(p[2:], value)
	return p
}

// UnpackReadResp decodes a device→host read response. The payload
// length discriminates the register width: 3 bytes carry an 8-bit value
// (widened), 6 bytes a 32-bit value.
func UnpackReadResp(payload []byte) (reg uint16, value uint32, err error) {
	switch len(payload) {
	case reg8Len:
		return binary.BigEndian.Uint16(payload), uint32(payload[2]), nil
	case reg32Len:
		return binary.BigEndian.Uint16(payload), binary.BigEndian.Uint32(payload[2:]), nil
	default:
		return 0, 0, fmt.Errorf("read response of %d bytes: %w", len(payload), ErrMalformedPayload)
	}
}

// UnpackWriteAck decodes a device→host write acknowledgement, which
// carries only the register number.
func UnpackWriteAck(payload []byte) (uint16, error) {
	if len(payload) != writeAckLen {
		return 0, fmt.Errorf("write ack of %d bytes: %w", len(payload), ErrMalformedPayload)
	}
	return binary.BigEndian.Uint16(payload), nil
}

// Device-side counterparts. A Go device implementation decodes the
// host's requests and builds its replies with these.

// UnpackReadReg decodes a host→device read request.
func UnpackReadReg(payload []byte) (uint16, error) {
	if len(payload) != readReqLen {
		return 0, fmt.Errorf("read request of %d bytes: %w", len(payload), ErrMalformedPayload)
	}
	return binary.BigEndian.Uint16(payload), nil
}

// UnpackWriteReg decodes a host→device write request. width is 8 or 32.
func UnpackWriteReg(payload []byte) (reg uint16, value uint32, width int, err error) {
	switch len(payload) {
	case reg8Len:
		return binary.BigEndian.Uint16(payload), uint32(payload[2]), 8, nil
	case reg32Len:
		return binary.BigEndian.Uint16(payload), binary.BigEndian.Uint32(payload[2:]), 32, nil
	default:
		return 0, 0, 0, fmt.Errorf("write request of %d bytes: %w", len(payload), ErrMalformedPayload)
	}
}

// PackReadResp8 builds the device→host 8-bit read response.
func PackReadResp8(reg uint16, value byte) []byte {
	return PackWriteReg8(reg, value)
}

// PackReadResp32 builds the device→host 32-bit read response.
func PackReadResp32(reg uint16, value uint32) []byte {
	return PackWriteReg32(reg, value)
}

// PackWriteAck builds the device→host write acknowledgement.
func PackWriteAck(reg uint16) []byte {
	return PackReadReg(reg)
}
