// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/backlight/lm3630a"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
)

type regBus struct {
	regs   [256]byte
	writes map[byte][]byte
}

func (b *regBus) String() string { return "regbus" }
func (b *regBus) SetSpeed(physic.Frequency) error { return nil }

func (b *regBus) Tx(addr uint16, w, r []byte) error {
	if len(r) != 0 {
		r[0] = b.regs[w[0]]
	} else if len(w) == 2 {
		b.regs[w[0]] = w[1]
		if b.writes == nil {
			b.writes = map[byte][]byte{}
		}
		b.writes[w[0]] = append(b.writes[w[0]], w[1])
	}
	return nil
}

func testOpts(opts lm3630a.Opts) *lm3630a.Opts {
	opts.RailSettle = 0
	opts.Settle = 0
	return &opts
}

func newDev(t *testing.T, opts lm3630a.Opts) (*lm3630a.Dev, *regBus) {
	bus := &regBus{}
	dev, err := attach(bus, lm3630a.DefaultAddress, testOpts(opts), true)
	if err != nil {
		t.Fatal(err)
	}
	return dev, bus
}

func TestFrontlightSinglePass(t *testing.T) {
	dev, bus := newDev(t, lm3630a.DefaultOpts)
	bus.writes = nil
	if err := command(dev, []string{"fl", "10"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{132}, bus.writes[0x03]); diff != "" {
		t.Errorf("bank A writes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0}, bus.writes[0x04]); diff != "" {
		t.Errorf("bank B writes (-want +got):\n%s", diff)
	}
}

func TestAttachKeepsState(t *testing.T) {
	dev, bus := newDev(t, lm3630a.DefaultOpts)
	if err := command(dev, []string{"set", "b", "90"}); err != nil {
		t.Fatal(err)
	}

	dev, err := attach(bus, lm3630a.DefaultAddress, testOpts(lm3630a.DefaultOpts), false)
	if err != nil {
		t.Fatal(err)
	}
	if err := command(dev, []string{"set", "a", "150"}); err != nil {
		t.Fatal(err)
	}

	dev, err = attach(bus, lm3630a.DefaultAddress, testOpts(lm3630a.DefaultOpts), false)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := dev.A.Brightness(); err != nil || v != 150 {
		t.Errorf("A.Brightness()=%d, %v want 150", v, err)
	}
	if v, err := dev.B.Brightness(); err != nil || v != 90 {
		t.Errorf("B.Brightness()=%d, %v want 90", v, err)
	}
	if bus.regs[0x00]&0x06 != 0x06 {
		t.Errorf("ctrl=%#x, both banks should stay enabled", bus.regs[0x00])
	}

	// An explicit init resets the banks.
	dev, err = attach(bus, lm3630a.DefaultAddress, testOpts(lm3630a.DefaultOpts), true)
	if err != nil {
		t.Fatal(err)
	}
	if err := command(dev, []string{"init"}); err != nil {
		t.Fatal(err)
	}
	if bus.regs[0x03] != 0 || bus.regs[0x04] != 0 {
		t.Error("init did not reset brightness")
	}
}

func TestCommand(t *testing.T) {
	dev, bus := newDev(t, lm3630a.DefaultOpts)
	if err := command(dev, []string{"set", "a", "100"}); err != nil {
		t.Fatal(err)
	}
	if bus.regs[0x03] != 100 {
		t.Errorf("bank A=%d", bus.regs[0x03])
	}
	if err := command(dev, []string{"percent", "B", "50"}); err != nil {
		t.Fatal(err)
	}
	if bus.regs[0x04] != 182 {
		t.Errorf("bank B=%d", bus.regs[0x04])
	}
	if err := command(dev, []string{"fl", "50"}); err != nil {
		t.Fatal(err)
	}
	if bus.regs[0x03] != 204 || bus.regs[0x04] != 0 {
		t.Errorf("front light A=%d B=%d", bus.regs[0x03], bus.regs[0x04])
	}
	if err := command(dev, []string{"off"}); err != nil {
		t.Fatal(err)
	}
	if bus.regs[0x03] != 0 || bus.regs[0x04] != 0 {
		t.Error("banks not turned off")
	}
	for _, args := range [][]string{
		{"set", "c", "1"},
		{"set", "a"},
		{"set", "a", "x"},
		{"fl"},
		{"fl", "101"},
		{"bogus"},
	} {
		if err := command(dev, args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestBankDisabled(t *testing.T) {
	opts := lm3630a.DefaultOpts
	opts.LEDB = lm3630a.LEDBOnA
	dev, _ := newDev(t, opts)
	if _, err := bank(dev, []string{"get", "b"}, 2); err == nil {
		t.Error("expected error for bank B")
	}
	if bl, err := bank(dev, []string{"get", "A"}, 2); err != nil || bl != dev.A {
		t.Errorf("bank A: %v", err)
	}
}

func TestPlot(t *testing.T) {
	name := filepath.Join(t.TempDir(), "curves.png")
	if err := plot([]string{name, "curves"}); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatal(err)
	}
	if err := plot([]string{name, "other"}); err == nil {
		t.Error("expected error")
	}
	if err := plot(nil); err == nil {
		t.Error("expected error")
	}
}
