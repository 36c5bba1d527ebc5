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
	"fmt"
	"time"
)

// Option is a functional option for configuring a Client
type Option func(*ClientConfig) error

// WithRegisterWidth sets the device register width, 8 or 32 bits
func WithRegisterWidth(width RegisterWidth) Option {
	return func(cfg *ClientConfig) error {
		if width != RegisterWidth8 && width != RegisterWidth32 {
			return fmt.Errorf("register width %d: %w", width, ErrValueOutOfRange)
		}
		cfg.RegisterWidth = width
		return nil
	}
}

// WithCallTimeout sets how long a register call waits for its response
func WithCallTimeout(timeout time.Duration) Option {
	return func(cfg *ClientConfig) error {
		if timeout <= 0 {
			return fmt.Errorf("call timeout %v must be positive", timeout)
		}
		cfg.CallTimeout = timeout
		return nil
	}
}

// WithRetryConfig enables retrying timed-out register calls
func WithRetryConfig(config *RetryConfig) Option {
	return func(cfg *ClientConfig) error {
		cfg.Retry = config
		return nil
	}
}

// WithStreamHandler sets the consumer for streaming telemetry samples
func WithStreamHandler(handler StreamHandler) Option {
	return func(cfg *ClientConfig) error {
		cfg.StreamHandler = handler
		return nil
	}
}

// WithLogger routes receiver and client diagnostics to the given logger
func WithLogger(logger Logger) Option {
	return func(cfg *ClientConfig) error {
		cfg.Logger = logger
		return nil
	}
}

// WithOutCapacity sets the outbound ring buffer capacity
func WithOutCapacity(capacity int) Option {
	return func(cfg *ClientConfig) error {
		if capacity < 4 {
			return fmt.Errorf("outbound capacity %d too small", capacity)
		}
		if capacity > maxCapacity {
			return fmt.Errorf("outbound capacity %d over the %d-byte stuffing limit", capacity, maxCapacity)
		}
		cfg.OutCapacity = capacity
		return nil
	}
}

// WithInCapacity sets the inbound ring buffer capacity
func WithInCapacity(capacity int) Option {
	return func(cfg *ClientConfig) error {
		if capacity < 4 {
			return fmt.Errorf("inbound capacity %d too small", capacity)
		}
		if capacity > maxCapacity {
			return fmt.Errorf("inbound capacity %d over the %d-byte stuffing limit", capacity, maxCapacity)
		}
		cfg.InCapacity = capacity
		return nil
	}
}

// WithQueueDepth sets the buffer depth of the receiver's queues
func WithQueueDepth(depth int) Option {
	return func(cfg *ClientConfig) error {
		if depth < 1 {
			return fmt.Errorf("queue depth %d too small", depth)
		}
		cfg.QueueDepth = depth
		return nil
	}
}
