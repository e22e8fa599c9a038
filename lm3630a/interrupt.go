// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm3630a

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// InterruptDebounce is the wait between an interrupt edge and the status read.
const InterruptDebounce = 10 * time.Millisecond

// Status is the content of the interrupt status register.
type Status byte

func (s Status) String() string {
	return fmt.Sprintf("0x%02x", byte(s))
}

// EnableInterrupts unmasks the chip's fault interrupts.
func (d *Dev) EnableInterrupts() error {
	return d.r.Write(_REG_INT_EN, _INT_EN_DEFAULT)
}

// HandleInterrupt clears the sleep bit and returns the interrupt status.
func (d *Dev) HandleInterrupt() (Status, error) {
	if err := d.r.Update(_REG_CTRL, _CTRL_SLEEP, 0); err != nil {
		return 0, err
	}
	s, err := d.r.Read(_REG_INT_STATUS)
	return Status(s), err
}

// Fault returns the content of the fault register.
func (d *Dev) Fault() (byte, error) {
	return d.r.Read(_REG_FAULT)
}

// Watch waits for falling edges on pin, the chip's open drain interrupt
// output, and calls fn with the interrupt status of each. It returns when ctx
// is done or the pin cannot be configured.
func (d *Dev) Watch(ctx context.Context, pin gpio.PinIn, fn func(Status)) error {
	if err := d.EnableInterrupts(); err != nil {
		return err
	}
	if err := pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return fmt.Errorf("lm3630a: interrupt pin: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !pin.WaitForEdge(100 * time.Millisecond) {
			continue
		}
		sleep(InterruptDebounce)
		s, err := d.HandleInterrupt()
		if err != nil {
			logger.Errorf("%s: interrupt: %v", d, err)
			continue
		}
		logger.Infof("%s: interrupt status %s", d, s)
		fn(s)
	}
}
