// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package backlight is a container for the LM3630A backlight driver and the
// tools built around it.
//
// See lm3630a for the driver itself.
package backlight
