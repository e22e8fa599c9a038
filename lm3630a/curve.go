// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm3630a

// Perceptual brightness curves, index 0 is 1%.
var bankPercent = [2][]byte{
	BankA: {
		1, 3, 7, 14, 26, 30, 41, 52, 60, 66,
		71, 75, 80, 85, 88, 92, 96, 103, 109, 114,
		118, 122, 126, 129, 131, 134, 135, 138, 141, 147,
		150, 153, 157, 158, 159, 161, 164, 166, 168, 170,
		172, 174, 175, 177, 178, 179, 184, 185, 187, 189,
		191, 193, 194, 196, 198, 200, 201, 203, 204, 206,
		207, 208, 210, 211, 213, 215, 216, 217, 218, 219,
		220, 221, 222, 223, 224, 226, 227,
	},
	BankB: {
		1, 2, 6, 11, 21, 25, 35, 47, 54, 60,
		65, 69, 73, 77, 80, 86, 90, 96, 103, 108,
		112, 116, 120, 123, 125, 127, 128, 132, 135, 140,
		144, 147, 150, 151, 152, 154, 157, 159, 161, 163,
		165, 167, 170, 172, 173, 174, 177, 178, 180, 182,
		184, 186, 187, 189, 191, 193, 194, 195, 197, 198,
		199, 201, 203, 204, 206, 208, 209, 210, 211, 212,
		213, 214, 215, 216, 217, 219, 220,
	},
}

// CurveLen returns the number of percent steps in the curve of bank b.
func CurveLen(b Bank) int {
	if checkBank(b) != nil {
		return 0
	}
	return len(bankPercent[b])
}

// PercentToRaw maps a 1-based percent step to the calibrated raw brightness
// of bank b. 0 and negative values map to 0 and steps past the end of the
// curve clamp to its last entry.
func PercentToRaw(b Bank, percent int) byte {
	if percent <= 0 || checkBank(b) != nil {
		return 0
	}
	t := bankPercent[b]
	if percent > len(t) {
		percent = len(t)
	}
	return t[percent-1]
}

// RawToPercent returns the lowest percent step whose raw brightness is at
// least raw. 0 maps to 0 and values above the curve map to its last step.
func RawToPercent(b Bank, raw byte) int {
	if raw == 0 || checkBank(b) != nil {
		return 0
	}
	t := bankPercent[b]
	for i, v := range t {
		if v >= raw {
			return i + 1
		}
	}
	return len(t)
}
