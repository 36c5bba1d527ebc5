//go:build integration

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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serialcom-project/go-serialcom/internal/testutil"
)

// TestRegisterSession exercises a full session: a burst of writes and
// reads over many registers with streaming telemetry interleaved.
func TestRegisterSession(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var streamed []uint32

	dev := testutil.NewVirtualDevice()
	c, err := NewClient(dev, WithStreamHandler(func(_ byte, samples []uint32) {
		mu.Lock()
		streamed = append(streamed, samples...)
		mu.Unlock()
	}))
	require.NoError(t, err)
	defer c.Close()

	for reg := uint16(0); reg < 50; reg++ {
		require.NoError(t, c.WriteReg(reg, uint32(reg%256)))
		if reg%10 == 0 {
			dev.Push(testutil.BuildStreamFrame(0x83, []byte{0x01, byte(reg), 0x02, byte(reg)}))
		}
	}
	for reg := uint16(0); reg < 50; reg++ {
		value, err := c.ReadReg(reg)
		require.NoError(t, err)
		assert.Equal(t, uint32(reg%256), value, "register %d", reg)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(streamed)
		mu.Unlock()
		if n >= 10 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("only %d stream samples arrived", n)
		}
		time.Sleep(time.Millisecond)
	}
}

// TestSessionSurvivesCorruption interleaves garbage between valid
// frames; every register call must still succeed.
func TestSessionSurvivesCorruption(t *testing.T) {
	t.Parallel()

	dev := testutil.NewVirtualDevice()
	dev.Registers[7] = 99
	c, err := NewClient(dev, WithCallTimeout(time.Second))
	require.NoError(t, err)
	defer c.Close()

	// Valid stuffing, payload byte altered after the CRC was computed.
	corrupt := []byte{0x02, 0x02, 0x05, 0x2A, 0x08, 0x33, 0x94, 0x00}

	for i := 0; i < 20; i++ {
		dev.Push(corrupt)

		value, err := c.ReadReg(7)
		require.NoError(t, err, "iteration %d", i)
		assert.Equal(t, uint32(99), value)
	}
}
