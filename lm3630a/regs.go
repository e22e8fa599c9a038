// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm3630a

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

const (
	// Register offsets from the datasheet
	_REG_CTRL         byte = 0x00
	_REG_CONFIG       byte = 0x01
	_REG_BOOST        byte = 0x02
	_REG_BRT_A        byte = 0x03
	_REG_BRT_B        byte = 0x04
	_REG_I_A          byte = 0x05
	_REG_I_B          byte = 0x06
	_REG_INT_STATUS   byte = 0x09
	_REG_INT_EN       byte = 0x0a
	_REG_FAULT        byte = 0x0b
	_REG_PWM_OUT_LOW  byte = 0x12
	_REG_PWM_OUT_HIGH byte = 0x13
	_REG_MAX          byte = 0x1f
	_REG_FILTER       byte = 0x50
)

const (
	_CTRL_SLEEP      byte = 0x80
	_CTRL_LEDA_MASK  byte = 0x14
	_CTRL_LEDB_MASK  byte = 0x0b
	_CONFIG_PWM_MASK byte = 0x07
	_CURRENT_MASK    byte = 0x1f

	_FILTER_DEFAULT    byte = 0x03
	_BOOST_DEFAULT     byte = 0x38
	_INT_EN_DEFAULT    byte = 0x87
	_PWM_OUT_HIGH_MASK byte = 0x01

	pwmOutMax = 0x1ff
)

// BusError is returned when the two-wire transport fails a register access.
type BusError struct {
	Op  string
	Reg byte
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("lm3630a: %s register 0x%02x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// Registers performs single byte accesses to the chip's register file.
//
// Registers does no locking. Update is a read followed by a write and two
// concurrent Updates of the same register can lose one of the changes; the
// caller must serialize access.
type Registers struct {
	d *i2c.Dev
}

// NewRegisters returns a register accessor for the chip at addr on bus.
func NewRegisters(bus i2c.Bus, addr uint16) *Registers {
	return &Registers{d: &i2c.Dev{Bus: bus, Addr: addr}}
}

// Read returns the value of register reg.
func (r *Registers) Read(reg byte) (byte, error) {
	var b [1]byte
	if err := r.d.Tx([]byte{reg}, b[:]); err != nil {
		return 0, &BusError{Op: "read", Reg: reg, Err: err}
	}
	return b[0], nil
}

// Write stores v in register reg.
func (r *Registers) Write(reg, v byte) error {
	logger.Tracef("write reg 0x%02x = 0x%02x", reg, v)
	if err := r.d.Tx([]byte{reg, v}, nil); err != nil {
		return &BusError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

// Update replaces the bits of register reg selected by mask with the matching
// bits of v. Bits outside mask keep their current value.
func (r *Registers) Update(reg, mask, v byte) error {
	cur, err := r.Read(reg)
	if err != nil {
		return err
	}
	return r.Write(reg, cur&^mask | v&mask)
}

func (r *Registers) String() string {
	return r.d.String()
}
