// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm3630a

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Backlight is the brightness control exposed for each of the chip's banks
// and for the blended front light.
type Backlight interface {
	SetBrightness(v int) error
	// Brightness returns 0 and an error when the value cannot be read back.
	Brightness() (int, error)
	MaxBrightness() int
	fmt.Stringer
}

// Props are the backlight properties of a bank.
type Props struct {
	Brightness    int
	MaxBrightness int
	// Power is the full-scale current code written with every brightness
	// update. KeepCurrent or higher leaves it unchanged.
	Power byte
}

// Strategy selects how a bank's brightness is driven.
type Strategy int

const (
	// RegisterDriven writes the brightness register over I2C.
	RegisterDriven Strategy = iota
	// PWMDriven sets the duty cycle of the chip's PWM input.
	PWMDriven
)

func (s Strategy) String() string {
	switch s {
	case RegisterDriven:
		return "register"
	case PWMDriven:
		return "pwm"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// driver applies and reads back a bank brightness.
type driver interface {
	set(p *Props) error
	get(p *Props) (int, error)
}

type registerDriver struct {
	d    *Dev
	bank Bank
}

func (r *registerDriver) set(p *Props) error {
	return r.d.SetBank(r.bank, byte(p.Brightness), p.Power)
}

func (r *registerDriver) get(*Props) (int, error) {
	v, err := r.d.Brightness(r.bank)
	return int(v), err
}

// pwmDriver drives a bank through the chip's PWM input. The level applied by
// the chip is read back from the 9-bit PWM output registers and scaled to
// [0, MaxBrightness].
type pwmDriver struct {
	d   *Dev
	pin gpio.PinOut
}

func (w *pwmDriver) set(p *Props) error {
	if p.Brightness == 0 || p.MaxBrightness == 0 {
		return w.pin.Out(gpio.Low)
	}
	duty := gpio.Duty(int64(p.Brightness) * int64(gpio.DutyMax) / int64(p.MaxBrightness))
	return w.pin.PWM(duty, w.d.opts.PWMFrequency)
}

func (w *pwmDriver) get(p *Props) (int, error) {
	hi, err := w.d.r.Read(_REG_PWM_OUT_HIGH)
	if err != nil {
		return 0, err
	}
	lo, err := w.d.r.Read(_REG_PWM_OUT_LOW)
	if err != nil {
		return 0, err
	}
	out := int(hi&_PWM_OUT_HIGH_MASK)<<8 | int(lo)
	return out * p.MaxBrightness / pwmOutMax, nil
}

// BankBacklight is the backlight of a single bank. Unlike the front light, a
// brightness below 4 disables the bank.
type BankBacklight struct {
	d        *Dev
	bank     Bank
	props    Props
	strategy Strategy
	drv      driver
}

func newBankBacklight(d *Dev, b Bank, p Props) *BankBacklight {
	bl := &BankBacklight{d: d, bank: b, props: p}
	if d.opts.PWM.drives(b) && d.opts.PWMPin != nil {
		bl.strategy = PWMDriven
		bl.drv = &pwmDriver{d: d, pin: d.opts.PWMPin}
	} else {
		bl.drv = &registerDriver{d: d, bank: b}
	}
	return bl
}

// Bank returns the bank this backlight controls.
func (b *BankBacklight) Bank() Bank {
	return b.bank
}

// Strategy returns how this backlight drives its bank.
func (b *BankBacklight) Strategy() Strategy {
	return b.strategy
}

// Props returns the current backlight properties.
func (b *BankBacklight) Props() Props {
	return b.props
}

// SetBrightness implements Backlight. v is a raw brightness in
// [0, MaxBrightness]. A bus failure is logged and returned; the cached
// brightness keeps the requested value.
func (b *BankBacklight) SetBrightness(v int) error {
	if v < 0 || v > b.props.MaxBrightness {
		return &RangeError{What: "brightness", Value: v, Max: b.props.MaxBrightness}
	}
	b.props.Brightness = v
	if err := b.drv.set(&b.props); err != nil {
		logger.Errorf("%s: %v", b, err)
		return err
	}
	return nil
}

// Brightness implements Backlight by reading the bank back from the chip.
func (b *BankBacklight) Brightness() (int, error) {
	v, err := b.drv.get(&b.props)
	if err != nil {
		logger.Errorf("%s: %v", b, err)
		return 0, err
	}
	b.props.Brightness = v
	return v, nil
}

// MaxBrightness implements Backlight.
func (b *BankBacklight) MaxBrightness() int {
	return b.props.MaxBrightness
}

// SetPercent sets the bank to a step of its perceptual brightness curve. 0
// turns the bank off and steps past the end of the curve clamp to it.
func (b *BankBacklight) SetPercent(percent int) error {
	return b.SetBrightness(int(PercentToRaw(b.bank, percent)))
}

// Percent returns the curve step matching the cached brightness.
func (b *BankBacklight) Percent() int {
	return RawToPercent(b.bank, byte(b.props.Brightness))
}

func (b *BankBacklight) String() string {
	if b.bank == BankB {
		return "lm3630a_ledb"
	}
	return "lm3630a_leda"
}

var (
	_ Backlight = &BankBacklight{}
	_ Backlight = &Frontlight{}
)
