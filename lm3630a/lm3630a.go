// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm3630a

import (
	"errors"
	"fmt"
	"time"

	"github.com/juju/loggo"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

var logger = loggo.GetLogger("lm3630a")

// DefaultAddress is the 7-bit I2C address of the LM3630A.
const DefaultAddress uint16 = 0x36

// Bank identifies one of the two LED current sinks.
type Bank int

const (
	BankA Bank = iota
	BankB
)

func (b Bank) String() string {
	switch b {
	case BankA:
		return "A"
	case BankB:
		return "B"
	default:
		return fmt.Sprintf("Bank(%d)", int(b))
	}
}

// LEDAMode is the control register setting for bank A.
type LEDAMode byte

const (
	LEDADisable LEDAMode = 0x00
	// LEDAEnable enables bank A with exponential brightness mapping.
	LEDAEnable       LEDAMode = 0x04
	LEDAEnableLinear LEDAMode = 0x14
)

// LEDBMode is the control register setting for bank B.
type LEDBMode byte

const (
	LEDBDisable LEDBMode = 0x00
	// LEDBOnA drives the LED B string from bank A. No bank B backlight is
	// exposed in this mode.
	LEDBOnA          LEDBMode = 0x01
	LEDBEnable       LEDBMode = 0x02
	LEDBEnableLinear LEDBMode = 0x0a
)

// PWMCtrl is the PWM control field of the configuration register.
type PWMCtrl byte

const (
	PWMDisable          PWMCtrl = 0x00
	PWMBankA            PWMCtrl = 0x01
	PWMBankB            PWMCtrl = 0x02
	PWMBankAll          PWMCtrl = 0x03
	PWMBankAActiveLow   PWMCtrl = 0x05
	PWMBankBActiveLow   PWMCtrl = 0x06
	PWMBankAllActiveLow PWMCtrl = 0x07
)

func (p PWMCtrl) drives(b Bank) bool {
	return byte(p)&(1<<uint(b)) != 0
}

const (
	// MaxBrightness is the largest raw brightness register value.
	MaxBrightness byte = 0xff
	// DefaultFullScale is the power-on full-scale current code.
	DefaultFullScale byte = 0x1b
	// MaxFullScale is the largest full-scale current code.
	MaxFullScale byte = 0x1f
	// KeepCurrent passed as a current code to SetBank leaves the bank's
	// full-scale current untouched. Any value above MaxFullScale has the same
	// effect.
	KeepCurrent byte = 0x20

	// onThreshold is the lowest raw brightness for which a bank stays enabled.
	onThreshold byte = 0x04
)

// FullScaleCurrent returns the LED current selected by a full-scale current
// code.
func FullScaleCurrent(code byte) physic.ElectricCurrent {
	if code > MaxFullScale {
		code = MaxFullScale
	}
	return 5*physic.MilliAmpere + physic.ElectricCurrent(code)*750*physic.MicroAmpere
}

// Opts holds the configuration applied when the chip is attached. None of it
// is renegotiated afterwards.
type Opts struct {
	LEDA LEDAMode
	LEDB LEDBMode
	// MaxBrightnessA and MaxBrightnessB bound the values accepted by the bank
	// backlights.
	MaxBrightnessA byte
	MaxBrightnessB byte
	// InitBrightnessA and InitBrightnessB are written during initialization.
	InitBrightnessA byte
	InitBrightnessB byte
	// FullScaleA and FullScaleB are the current codes used by the bank
	// backlights.
	FullScaleA byte
	FullScaleB byte
	PWM        PWMCtrl

	// Power, if set, is driven high to enable the backlight supply rail.
	Power gpio.PinOut
	// PWMPin, if set together with a PWM bank in PWM, drives brightness of
	// those banks by duty cycle.
	PWMPin       gpio.PinOut
	PWMFrequency physic.Frequency

	// RailSettle is the wait after the supply rail is enabled. Settle is the
	// wait between dependent register writes.
	RailSettle time.Duration
	Settle     time.Duration
}

// DefaultOpts is the configuration used when New is passed nil options.
var DefaultOpts = Opts{
	LEDA:           LEDAEnable,
	LEDB:           LEDBEnable,
	MaxBrightnessA: MaxBrightness,
	MaxBrightnessB: MaxBrightness,
	FullScaleA:     DefaultFullScale,
	FullScaleB:     DefaultFullScale,
	PWM:            PWMDisable,
	PWMFrequency:   10 * physic.KiloHertz,
	RailSettle:     200 * time.Millisecond,
	Settle:         time.Millisecond,
}

// InitError is returned by New when one or more bring-up steps failed.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return "lm3630a: chip init failed: " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// RangeError reports an argument outside its valid range. It is always
// returned before any register is accessed.
type RangeError struct {
	What  string
	Value int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("lm3630a: %s %d out of range [0, %d]", e.What, e.Value, e.Max)
}

// sleep is replaced in tests.
var sleep = time.Sleep

// Dev is a handle to an attached LM3630A.
//
// Dev does no locking; calls on the same Dev must be serialized by the caller.
type Dev struct {
	r    *Registers
	opts Opts

	// A and B are nil when the matching bank is not exposed.
	A *BankBacklight
	B *BankBacklight
	// Frontlight is the colour temperature blend of both banks.
	Frontlight *Frontlight
}

// New initializes the chip at addr and registers its backlights.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	d := attach(bus, addr, opts)
	if err := d.init(); err != nil {
		logger.Errorf("%s: %v", d, err)
		return nil, err
	}
	d.register()
	logger.Infof("%s: backlight registered", d)
	return d, nil
}

// Open attaches to a chip that was already initialized, leaving its registers
// untouched. opts must describe the configuration the chip was brought up
// with; only the bank modes, limits and full-scale currents are used.
func Open(bus i2c.Bus, addr uint16, opts *Opts) *Dev {
	d := attach(bus, addr, opts)
	d.register()
	return d
}

func attach(bus i2c.Bus, addr uint16, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Dev{r: NewRegisters(bus, addr), opts: *opts}
}

// init runs every bring-up step even when an earlier one fails.
func (d *Dev) init() error {
	var errs []error
	step := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if d.opts.Power != nil {
		if err := d.opts.Power.Out(gpio.High); err != nil {
			step(fmt.Errorf("lm3630a: enable supply rail: %w", err))
		}
	}
	sleep(d.opts.RailSettle)
	sleep(d.opts.Settle)
	step(d.r.Write(_REG_FILTER, _FILTER_DEFAULT))
	step(d.r.Update(_REG_CONFIG, _CONFIG_PWM_MASK, byte(d.opts.PWM)))
	step(d.r.Write(_REG_BOOST, _BOOST_DEFAULT))
	step(d.r.Update(_REG_I_A, _CURRENT_MASK, 0))
	step(d.r.Write(_REG_I_B, 0))
	step(d.r.Update(_REG_CTRL, _CTRL_LEDA_MASK, byte(d.opts.LEDA)))
	step(d.r.Update(_REG_CTRL, _CTRL_LEDB_MASK, byte(d.opts.LEDB)))
	sleep(d.opts.Settle)
	step(d.r.Write(_REG_BRT_A, d.opts.InitBrightnessA))
	step(d.r.Write(_REG_BRT_B, d.opts.InitBrightnessB))
	if len(errs) != 0 {
		return &InitError{Err: errors.Join(errs...)}
	}
	return nil
}

func (d *Dev) register() {
	if d.opts.LEDA != LEDADisable {
		d.A = newBankBacklight(d, BankA, Props{
			Brightness:    int(d.opts.InitBrightnessA),
			MaxBrightness: int(d.opts.MaxBrightnessA),
			Power:         d.opts.FullScaleA,
		})
	}
	if d.opts.LEDB != LEDBDisable && d.opts.LEDB != LEDBOnA {
		d.B = newBankBacklight(d, BankB, Props{
			Brightness:    int(d.opts.InitBrightnessB),
			MaxBrightness: int(d.opts.MaxBrightnessB),
			Power:         d.opts.FullScaleB,
		})
	}
	d.Frontlight = newFrontlight(d)
}

// wake clears the sleep bit and waits for the chip to settle.
func (d *Dev) wake() error {
	if err := d.r.Update(_REG_CTRL, _CTRL_SLEEP, 0); err != nil {
		return err
	}
	sleep(d.opts.Settle)
	return nil
}

func brightnessReg(b Bank) byte {
	if b == BankB {
		return _REG_BRT_B
	}
	return _REG_BRT_A
}

func currentReg(b Bank) byte {
	if b == BankB {
		return _REG_I_B
	}
	return _REG_I_A
}

func enableBit(b Bank) byte {
	if b == BankB {
		return byte(LEDBEnable)
	}
	return byte(LEDAEnable)
}

func checkBank(b Bank) error {
	if b != BankA && b != BankB {
		return &RangeError{What: "bank", Value: int(b), Max: int(BankB)}
	}
	return nil
}

// SetBank writes the raw brightness of bank b and, when current is at most
// MaxFullScale, its full-scale current code. The bank is enabled when
// brightness is 4 or more and disabled otherwise.
//
// On a bus failure the sequence stops at the failing step; earlier writes are
// not rolled back.
func (d *Dev) SetBank(b Bank, brightness, current byte) error {
	if err := checkBank(b); err != nil {
		return err
	}
	if err := d.wake(); err != nil {
		return err
	}
	if err := d.r.Write(brightnessReg(b), brightness); err != nil {
		return err
	}
	if current < KeepCurrent {
		if err := d.r.Update(currentReg(b), _CURRENT_MASK, current); err != nil {
			return err
		}
	}
	var en byte
	if brightness >= onThreshold {
		en = enableBit(b)
	}
	return d.r.Update(_REG_CTRL, enableBit(b), en)
}

// Brightness reads back the raw brightness register of bank b. It returns 0
// together with the error when the bus fails.
func (d *Dev) Brightness(b Bank) (byte, error) {
	if err := checkBank(b); err != nil {
		return 0, err
	}
	if err := d.wake(); err != nil {
		logger.Errorf("%s: bank %s: %v", d, b, err)
		return 0, err
	}
	v, err := d.r.Read(brightnessReg(b))
	if err != nil {
		logger.Errorf("%s: bank %s: %v", d, b, err)
		return 0, err
	}
	return v, nil
}

// enableBoth forces both bank enable bits on.
func (d *Dev) enableBoth() error {
	m := byte(LEDAEnable) | byte(LEDBEnable)
	return d.r.Update(_REG_CTRL, m, m)
}

// Halt turns both banks off by zeroing their brightness. Failures are logged
// and both writes are always attempted. Implements conn.Resource.
func (d *Dev) Halt() error {
	for _, b := range []Bank{BankA, BankB} {
		if err := d.r.Write(brightnessReg(b), 0); err != nil {
			logger.Errorf("%s: halt bank %s: %v", d, b, err)
		}
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("LM3630A{%s}", d.r)
}

var _ conn.Resource = &Dev{}
