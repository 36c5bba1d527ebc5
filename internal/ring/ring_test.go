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

package ring

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contents(b *Buffer) []byte {
	s1, s2 := b.TwoSlices()
	out := append([]byte(nil), s1...)
	return append(out, s2...)
}

func TestPushPopOrder(t *testing.T) {
	t.Parallel()

	b := New(8)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 8, b.Cap())

	for i := byte(1); i <= 4; i++ {
		b.PushBack(i)
	}
	b.PushFront(0)
	assert.Equal(t, []byte{0, 1, 2, 3, 4}, contents(b))

	v, ok := b.PopFront()
	require.True(t, ok)
	assert.Equal(t, byte(0), v)

	v, ok = b.PopBack()
	require.True(t, ok)
	assert.Equal(t, byte(4), v)
	assert.Equal(t, []byte{1, 2, 3}, contents(b))
}

func TestPopEmpty(t *testing.T) {
	t.Parallel()

	b := New(4)
	_, ok := b.PopFront()
	assert.False(t, ok)
	_, ok = b.PopBack()
	assert.False(t, ok)
}

// Pushing capacity+k bytes must leave exactly the last capacity bytes in
// order, never more.
func TestOverwriteOldest(t *testing.T) {
	t.Parallel()

	const capacity = 16
	b := New(capacity)
	for i := 0; i < capacity+10; i++ {
		b.PushBack(byte(i))
		assert.LessOrEqual(t, b.Len(), capacity)
	}
	require.Equal(t, capacity, b.Len())

	want := make([]byte, 0, capacity)
	for i := 10; i < capacity+10; i++ {
		want = append(want, byte(i))
	}
	assert.Equal(t, want, contents(b))
}

func TestPushFrontEvictsBack(t *testing.T) {
	t.Parallel()

	b := New(4)
	for i := byte(1); i <= 4; i++ {
		b.PushBack(i)
	}
	require.True(t, b.IsFull())
	b.PushFront(9)
	assert.Equal(t, []byte{9, 1, 2, 3}, contents(b))
	assert.Equal(t, 4, b.Len())
}

func TestGetSetBounds(t *testing.T) {
	t.Parallel()

	b := New(4)
	b.PushBack(0xAA)
	b.PushBack(0xBB)

	v, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, byte(0xBB), v)

	_, ok = b.Get(2)
	assert.False(t, ok)
	_, ok = b.Get(-1)
	assert.False(t, ok)

	require.True(t, b.Set(0, 0xCC))
	assert.False(t, b.Set(2, 0xDD))
	assert.Equal(t, []byte{0xCC, 0xBB}, contents(b))
}

func TestFrontBack(t *testing.T) {
	t.Parallel()

	b := New(4)
	_, ok := b.Front()
	assert.False(t, ok)
	_, ok = b.Back()
	assert.False(t, ok)

	b.PushBack(1)
	b.PushBack(2)
	b.PushBack(3)

	v, ok := b.Front()
	require.True(t, ok)
	assert.Equal(t, byte(1), v)
	v, ok = b.Back()
	require.True(t, ok)
	assert.Equal(t, byte(3), v)
	assert.Equal(t, 3, b.Len(), "peeks must not consume")
}

// Force a wrapped layout and check both physical views come back in
// logical order.
func TestTwoSlicesSeam(t *testing.T) {
	t.Parallel()

	b := New(8)
	for i := byte(0); i < 6; i++ {
		b.PushBack(i)
	}
	for i := 0; i < 4; i++ {
		b.PopFront()
	}
	for i := byte(6); i < 10; i++ {
		b.PushBack(i)
	}

	s1, s2 := b.TwoSlices()
	assert.NotEmpty(t, s2, "expected wrapped content")
	assert.Equal(t, []byte{4, 5, 6, 7, 8, 9}, append(append([]byte(nil), s1...), s2...))
}

func TestFillAndDrain(t *testing.T) {
	t.Parallel()

	b := New(16)
	src := bytes.NewReader([]byte{1, 2, 3, 4, 5})
	n, err := b.Fill(src)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, contents(b))

	var dst bytes.Buffer
	n, err = b.Drain(&dst)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, dst.Bytes())
	assert.Equal(t, 0, b.Len())
}

func TestDrainWrapped(t *testing.T) {
	t.Parallel()

	b := New(4)
	for i := byte(0); i < 6; i++ {
		b.PushBack(i) // first two evicted
	}

	var dst bytes.Buffer
	n, err := b.Drain(&dst)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{2, 3, 4, 5}, dst.Bytes())
}

func TestFillOverflowKeepsNewest(t *testing.T) {
	t.Parallel()

	b := New(4)
	b.PushBack(0xFF)
	src := bytes.NewReader([]byte{1, 2, 3, 4})
	_, err := b.Fill(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, contents(b))
}

func TestClearReuse(t *testing.T) {
	t.Parallel()

	b := New(4)
	b.PushBack(1)
	b.PushBack(2)
	b.Clear()
	assert.Equal(t, 0, b.Len())
	b.PushBack(7)
	assert.Equal(t, []byte{7}, contents(b))
}
