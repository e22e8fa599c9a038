// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm3630a

import "errors"

const (
	// ColorTemperatures is the number of front light blend tables.
	ColorTemperatures = 3
	// MaxPercent is the largest front light percentage.
	MaxPercent = 100

	frontlightCurrentA byte = 4
	frontlightCurrentB byte = 7
)

// Front light blend tables, [table][bank][percent-1]. A nil bank means that
// bank is off at this colour temperature.
var frontlightTables = [ColorTemperatures][2][]byte{
	{
		BankA: { // A 100%
			43, 66, 79, 90, 96, 107, 114, 120, 126, 132,
			135, 139, 143, 145, 147, 150, 152, 154, 156, 158,
			160, 163, 165, 168, 170, 172, 174, 176, 178, 180,
			181, 183, 185, 186, 188, 190, 191, 192, 193, 194,
			195, 196, 197, 198, 199, 200, 201, 202, 203, 204,
			205, 206, 207, 208, 209, 210, 211, 212, 213, 214,
			215, 216, 217, 218, 219, 220, 221, 222, 223, 224,
			225, 226, 227, 228, 229, 230, 231, 232, 233, 234,
			235, 236, 237, 238, 239, 240, 241, 242, 243, 244,
			245, 246, 247, 248, 249, 250, 251, 252, 253, 254,
		},
	},
	{
		BankA: { // A 90%
			37, 61, 75, 86, 93, 102, 110, 117, 123, 128,
			133, 137, 140, 143, 144, 147, 149, 151, 153, 155,
			157, 159, 162, 165, 167, 170, 173, 174, 175, 176,
			177, 179, 180, 181, 184, 186, 187, 188, 189, 190,
			191, 192, 193, 194, 195, 196, 197, 198, 199, 200,
			201, 202, 203, 204, 205, 206, 207, 208, 209, 210,
			211, 212, 213, 214, 215, 216, 217, 218, 219, 220,
			221, 222, 223, 224, 225, 226, 227, 229, 229, 230,
			231, 232, 233, 234, 235, 236, 237, 238, 239, 240,
			241, 242, 243, 244, 245, 246, 247, 248, 249, 250,
		},
		BankB: { // B 10%
			4, 6, 14, 22, 28, 35, 42, 48, 53, 57,
			62, 65, 69, 71, 73, 76, 78, 80, 81, 84,
			85, 87, 90, 93, 95, 100, 105, 97, 107, 108,
			109, 110, 111, 113, 114, 116, 117, 117, 118, 119,
			120, 121, 122, 123, 124, 124, 125, 126, 127, 128,
			128, 129, 130, 131, 132, 133, 134, 135, 136, 136,
			141, 141, 144, 144, 144, 142, 143, 148, 148, 151,
			151, 151, 151, 151, 153, 152, 156, 151, 156, 158,
			155, 157, 160, 160, 161, 160, 162, 163, 164, 165,
			166, 165, 166, 169, 168, 171, 171, 171, 173, 174,
		},
	},
	{
		BankB: { // B 100%
			58, 74, 85, 93, 99, 108, 115, 121, 126, 131,
			136, 139, 143, 145, 147, 150, 152, 154, 156, 158,
			160, 163, 165, 168, 170, 172, 174, 176, 178, 180,
			181, 183, 185, 186, 188, 190, 191, 192, 193, 194,
			195, 196, 197, 198, 199, 200, 201, 202, 203, 204,
			205, 206, 207, 208, 209, 210, 211, 212, 213, 214,
			215, 216, 217, 218, 219, 220, 221, 222, 223, 224,
			225, 226, 227, 228, 229, 230, 231, 232, 233, 234,
			235, 236, 237, 238, 239, 240, 241, 242, 243, 244,
			245, 246, 247, 248, 249, 250, 251, 252, 253, 254,
		},
	},
}

// Blend returns the raw brightness of each bank for percent at colour
// temperature table.
func Blend(table, percent int) (a, b byte, err error) {
	if table < 0 || table >= ColorTemperatures {
		return 0, 0, &RangeError{What: "front light table", Value: table, Max: ColorTemperatures - 1}
	}
	if percent < 0 || percent > MaxPercent {
		return 0, 0, &RangeError{What: "front light percent", Value: percent, Max: MaxPercent}
	}
	if percent == 0 {
		return 0, 0, nil
	}
	return blendEntry(frontlightTables[table][BankA], percent), blendEntry(frontlightTables[table][BankB], percent), nil
}

func blendEntry(t []byte, percent int) byte {
	if len(t) == 0 {
		return 0
	}
	return t[percent-1]
}

// Frontlight drives both banks from a single percentage through one of the
// colour temperature tables. It is the virtual backlight of the chip; the
// percentage it reports is the last one set since there is no register to
// read it back from.
type Frontlight struct {
	d       *Dev
	table   int
	percent int
}

func newFrontlight(d *Dev) *Frontlight {
	return &Frontlight{d: d, percent: MaxPercent}
}

// Table returns the selected colour temperature table.
func (f *Frontlight) Table() int {
	return f.table
}

// SelectTable selects colour temperature table and re-applies the current
// percentage through it.
func (f *Frontlight) SelectTable(table int) error {
	if table < 0 || table >= ColorTemperatures {
		logger.Warningf("%s: front light table %d out of range", f.d, table)
		return &RangeError{What: "front light table", Value: table, Max: ColorTemperatures - 1}
	}
	f.table = table
	return f.Apply(f.percent)
}

// Set selects table and applies percent through it in a single pass. Both
// are checked before anything is stored or written.
func (f *Frontlight) Set(table, percent int) error {
	if _, _, err := Blend(table, percent); err != nil {
		return err
	}
	f.table = table
	return f.Apply(percent)
}

// Apply sets both banks for percent using the selected table. 0 turns both
// banks fully off, including their current. Both bank enable bits are left
// set whatever the brightness.
//
// Bus failures are logged; every step is attempted.
func (f *Frontlight) Apply(percent int) error {
	a, b, err := Blend(f.table, percent)
	if err != nil {
		return err
	}
	ia, ib := frontlightCurrentA, frontlightCurrentB
	if percent == 0 {
		ia, ib = 0, 0
	}
	f.percent = percent
	logger.Debugf("%s: front light table %d %d%%: A %d, B %d", f.d, f.table, percent, a, b)
	err = errors.Join(
		f.d.SetBank(BankA, a, ia),
		f.d.SetBank(BankB, b, ib),
		f.d.enableBoth(),
	)
	if err != nil {
		logger.Errorf("%s: front light: %v", f.d, err)
	}
	return err
}

// SetBrightness implements Backlight; brightness is a percentage.
func (f *Frontlight) SetBrightness(percent int) error {
	return f.Apply(percent)
}

// Brightness implements Backlight. It returns the last percentage set.
func (f *Frontlight) Brightness() (int, error) {
	return f.percent, nil
}

// MaxBrightness implements Backlight.
func (f *Frontlight) MaxBrightness() int {
	return MaxPercent
}

func (f *Frontlight) String() string {
	return "lm3630a_led"
}
