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

// Command regtool reads and writes device registers over a serial port
// and can capture streaming telemetry to CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	serialcom "github.com/serialcom-project/go-serialcom"
	"github.com/serialcom-project/go-serialcom/transport/uart"
)

type config struct {
	port     *string
	baud     *int
	width    *int
	read     *int
	write    *int
	value    *uint64
	timeout  *time.Duration
	list     *bool
	stream   *bool
	debug    *bool
	streamTo *string
}

func parseFlags() *config {
	cfg := &config{
		port:     flag.String("port", "", "Serial port path (e.g., /dev/ttyUSB0 or COM3)"),
		baud:     flag.Int("baud", 115200, "Baud rate"),
		width:    flag.Int("width", 8, "Register width in bits: 8 or 32"),
		read:     flag.Int("read", -1, "Register number to read"),
		write:    flag.Int("write", -1, "Register number to write (requires -value)"),
		value:    flag.Uint64("value", 0, "Value for -write"),
		timeout:  flag.Duration("timeout", 200*time.Millisecond, "Register call timeout"),
		list:     flag.Bool("list", false, "List serial ports and exit"),
		stream:   flag.Bool("stream", false, "Capture streaming telemetry until interrupted"),
		debug:    flag.Bool("debug", false, "Enable debug output"),
		streamTo: flag.String("stream-to", "-", "CSV destination for -stream, '-' for stdout"),
	}
	flag.Parse()

	if *cfg.debug {
		serialcom.SetDebugEnabled(true)
	}
	return cfg
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "regtool: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	if *cfg.list {
		return listPorts()
	}
	if *cfg.port == "" {
		return fmt.Errorf("no port given, use -port (or -list to enumerate)")
	}

	width := serialcom.RegisterWidth8
	if *cfg.width == 32 {
		width = serialcom.RegisterWidth32
	} else if *cfg.width != 8 {
		return fmt.Errorf("register width %d not supported, use 8 or 32", *cfg.width)
	}

	transport, err := uart.New(*cfg.port, uart.WithBaudRate(*cfg.baud))
	if err != nil {
		return err
	}

	opts := []serialcom.Option{
		serialcom.WithRegisterWidth(width),
		serialcom.WithCallTimeout(*cfg.timeout),
	}

	var streamOut *os.File
	if *cfg.stream {
		streamOut, err = openStreamOutput(*cfg.streamTo)
		if err != nil {
			return err
		}
		opts = append(opts, serialcom.WithStreamHandler(func(_ byte, samples []uint32) {
			parts := make([]string, len(samples))
			for i, s := range samples {
				parts[i] = fmt.Sprintf("%d", s)
			}
			fmt.Fprintln(streamOut, strings.Join(parts, ","))
		}))
	}

	client, err := serialcom.NewClient(transport, opts...)
	if err != nil {
		_ = transport.Close()
		return err
	}
	defer client.Close()

	if *cfg.write >= 0 {
		if err := client.WriteReg(uint16(*cfg.write), uint32(*cfg.value)); err != nil {
			return fmt.Errorf("write register %d: %w", *cfg.write, err)
		}
		fmt.Printf("reg[%d] <- %d\n", *cfg.write, *cfg.value)
	}

	if *cfg.read >= 0 {
		value, err := client.ReadReg(uint16(*cfg.read))
		if err != nil {
			return fmt.Errorf("read register %d: %w", *cfg.read, err)
		}
		fmt.Printf("reg[%d] = %d\n", *cfg.read, value)
	}

	if *cfg.stream {
		fmt.Fprintln(os.Stderr, "capturing stream, Ctrl-C to stop")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
		case <-client.Done():
			return fmt.Errorf("transport failed while streaming")
		}
	}

	return nil
}

func listPorts() error {
	ports, err := uart.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("no serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func openStreamOutput(dest string) (*os.File, error) {
	if dest == "-" {
		return os.Stdout, nil
	}
	f, err := os.Create(dest) //nolint:gosec // user-supplied output path
	if err != nil {
		return nil, fmt.Errorf("open stream output %s: %w", dest, err)
	}
	return f, nil
}
