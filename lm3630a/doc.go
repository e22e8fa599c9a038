// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lm3630a drives the Texas Instruments LM3630A, a dual bank white LED
// backlight controller.
//
// Each bank is exposed as a raw Backlight whose brightness is written to the
// bank's brightness register, or to the chip's PWM input when PWM control is
// configured. A third, virtual, Backlight blends both banks from a single
// percentage through one of three colour temperature tables, as used by
// e-reader front lights with a warm and a cool LED string.
//
// Dev does no locking. Calls on the same Dev must be serialized.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/lm3630a.pdf
package lm3630a
