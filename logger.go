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
	"log"
	"sync/atomic"
)

// Logger receives diagnostic messages from the receiver and client.
// The default implementation forwards to the package debug log, so
// nothing is emitted unless SetDebugEnabled(true) was called.
type Logger interface {
	Printf(format string, args ...any)
}

type debugLogger struct{}

func (debugLogger) Printf(format string, args ...any) {
	debugf(format, args...)
}

var debugEnabled atomic.Bool

// SetDebugEnabled toggles package-wide debug logging. Off by default.
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

func debugf(format string, args ...any) {
	if debugEnabled.Load() {
		log.Printf("serialcom: "+format, args...)
	}
}

func debugln(args ...any) {
	if debugEnabled.Load() {
		log.Println(append([]any{"serialcom:"}, args...)...)
	}
}
