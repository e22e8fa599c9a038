// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// lm3630a controls an LM3630A backlight controller.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/GermanBionicSystems/backlight/curveplot"
	"github.com/GermanBionicSystems/backlight/lm3630a"
	"github.com/GermanBionicSystems/backlight/preview"
	flag "github.com/juju/gnuflag"
	"github.com/juju/loggo"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	busName  = flag.String("bus", "", "I2C bus to use")
	addr     = flag.Int("addr", int(lm3630a.DefaultAddress), "I2C address of the chip")
	power    = flag.String("power", "", "GPIO enabling the backlight supply rail")
	table    = flag.Int("table", 0, "front light colour temperature table")
	logLevel = flag.String("log", "<root>=WARNING", "logging configuration")
	doInit   = flag.Bool("init", false, "initialize the chip before running the command")
)

var logger = loggo.GetLogger("lm3630a.cmd")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `
Usage: lm3630a [OPTION]... COMMAND [ARG]...

Commands:
  init                 power up and initialize the chip
  get a|b              print the raw brightness of a bank
  set a|b RAW          set the raw brightness of a bank
  percent a|b [P]      set a bank along its perceptual curve, or print it
  fl P                 set the front light to P percent (0 turns it off)
  status               print the interrupt status and fault registers
  off                  turn both banks off
  watch PIN            report interrupts signalled on PIN
  plot FILE [curves|frontlight]
                       draw the brightness tables to a PNG file
  preview [STEP]       show the front light table on the terminal

Options:
`[1:])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse(true)
	if err := loggo.ConfigureLoggers(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "lm3630a: %v\n", err)
		os.Exit(2)
	}
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
	}
	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "lm3630a: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Commands that need no hardware.
	switch args[0] {
	case "plot":
		return plot(args[1:])
	case "preview":
		step := 5
		if len(args) > 1 {
			var err error
			if step, err = strconv.Atoi(args[1]); err != nil {
				return err
			}
		}
		p := preview.New(nil)
		defer p.Halt()
		return p.Sweep(*table, step)
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	opts := lm3630a.DefaultOpts
	if *power != "" {
		p := gpioreg.ByName(*power)
		if p == nil {
			return fmt.Errorf("unknown GPIO %q", *power)
		}
		opts.Power = p
	}
	dev, err := attach(bus, uint16(*addr), &opts, *doInit || args[0] == "init")
	if err != nil {
		return err
	}
	return command(dev, args)
}

// attach runs the chip bring-up only when bringUp is set, so that commands
// operate on the state left by earlier invocations.
func attach(bus i2c.Bus, addr uint16, opts *lm3630a.Opts, bringUp bool) (*lm3630a.Dev, error) {
	if bringUp {
		return lm3630a.New(bus, addr, opts)
	}
	dev := lm3630a.Open(bus, addr, opts)
	logger.Debugf("attached %s", dev)
	return dev, nil
}

func command(dev *lm3630a.Dev, args []string) error {
	switch args[0] {
	case "init":
		return nil
	case "get":
		bl, err := bank(dev, args, 2)
		if err != nil {
			return err
		}
		v, err := bl.Brightness()
		if err != nil {
			return err
		}
		fmt.Println(v)
	case "set":
		bl, err := bank(dev, args, 3)
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		return bl.SetBrightness(v)
	case "percent":
		if len(args) == 2 {
			bl, err := bank(dev, args, 2)
			if err != nil {
				return err
			}
			if _, err := bl.Brightness(); err != nil {
				return err
			}
			fmt.Println(bl.Percent())
			return nil
		}
		bl, err := bank(dev, args, 3)
		if err != nil {
			return err
		}
		p, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		return bl.SetPercent(p)
	case "fl":
		if len(args) != 2 {
			return errors.New("fl: expected a percentage")
		}
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		return dev.Frontlight.Set(*table, p)
	case "status":
		s, err := dev.HandleInterrupt()
		if err != nil {
			return err
		}
		f, err := dev.Fault()
		if err != nil {
			return err
		}
		fmt.Printf("status %s fault 0x%02x\n", s, f)
	case "off":
		return dev.Halt()
	case "watch":
		if len(args) != 2 {
			return errors.New("watch: expected a GPIO name")
		}
		pin := gpioreg.ByName(args[1])
		if pin == nil {
			return fmt.Errorf("unknown GPIO %q", args[1])
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := dev.Watch(ctx, pin, func(s lm3630a.Status) {
			fmt.Printf("interrupt %s\n", s)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func bank(dev *lm3630a.Dev, args []string, n int) (*lm3630a.BankBacklight, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d arguments", args[0], n-1)
	}
	var bl *lm3630a.BankBacklight
	switch strings.ToLower(args[1]) {
	case "a":
		bl = dev.A
	case "b":
		bl = dev.B
	default:
		return nil, fmt.Errorf("unknown bank %q", args[1])
	}
	if bl == nil {
		return nil, fmt.Errorf("bank %s is not enabled", strings.ToUpper(args[1]))
	}
	return bl, nil
}

func plot(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("plot: expected a file name")
	}
	series, title := curveplot.Frontlight(), "front light tables"
	if len(args) == 2 {
		switch args[1] {
		case "curves":
			series, title = curveplot.Curves(), "perceptual curves"
		case "frontlight":
		default:
			return fmt.Errorf("plot: unknown table set %q", args[1])
		}
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	opts := curveplot.DefaultOpts
	opts.Title = title
	if err := curveplot.WritePNG(f, series, &opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
