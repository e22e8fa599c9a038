// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinybus exposes a TinyGo drivers.I2C transport as a periph.io
// i2c.Bus, so drivers written against periph.io can run on boards whose I2C
// peripheral is provided by tinygo.org/x/drivers.
package tinybus

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// ErrSpeed is returned by SetSpeed; the bus clock is configured on the
// TinyGo side.
var ErrSpeed = errors.New("tinybus: bus speed is fixed by the underlying transport")

// Bus adapts a drivers.I2C.
type Bus struct {
	I2C  drivers.I2C
	Name string
}

// New returns a Bus wrapping t.
func New(t drivers.I2C, name string) *Bus {
	return &Bus{I2C: t, Name: name}
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if err := b.I2C.Tx(addr, w, r); err != nil {
		return fmt.Errorf("tinybus: %s: %w", b, err)
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return ErrSpeed
}

func (b *Bus) String() string {
	if b.Name == "" {
		return "tinybus"
	}
	return b.Name
}

var _ i2c.Bus = &Bus{}
