// Copyright 2024 The vmprog authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vmprog

import "strconv"

// displayDivisorLUT maps a display_float_digits value (0-6) to 10^n, used
// to split a scaled display value into integer and fractional parts
// without runtime exponentiation.
var displayDivisorLUT = [7]uint32{1, 10, 100, 1000, 10000, 100000, 1000000}

// RenderValue formats a raw control value as the string a UI would show
// next to the control: either a discrete value label, or the value
// scaled into the parameter's display range with its suffix appended.
func RenderValue(value int32, p ParameterConfig) string {
	if p.ValueLabelCount >= 2 {
		idx := uint16(clampU16(int64(value), 0, maxCurveVal)) * uint16(p.ValueLabelCount-1) / maxCurveVal
		return stringFromFixed(p.ValueLabels[idx][:])
	}

	curved := Curve(value, p.ControlMode)
	displayRange := int32(p.DisplayMaxValue) - int32(p.DisplayMinValue)
	scaled := int32(p.DisplayMinValue) + (int32(curved)*displayRange)/maxCurveVal

	var out []byte
	if scaled < 0 {
		out = append(out, '-')
	}
	// Widen to int64 before negating so INT32_MIN negates correctly
	// instead of overflowing back to itself.
	var absValue uint32
	if scaled < 0 {
		absValue = uint32(-int64(scaled))
	} else {
		absValue = uint32(scaled)
	}

	digits := p.DisplayFloatDigits
	divisor := uint32(1000000)
	if digits < 7 {
		divisor = displayDivisorLUT[digits]
	}
	integerPart := absValue / divisor
	fractionalPart := absValue % divisor

	out = append(out, strconv.FormatUint(uint64(integerPart), 10)...)

	if digits > 0 {
		out = append(out, '.')
		frac := strconv.FormatUint(uint64(fractionalPart), 10)
		for i := len(frac); i < int(digits); i++ {
			out = append(out, '0')
		}
		out = append(out, frac...)
	}

	if suffix := stringFromFixed(p.SuffixLabel[:]); suffix != "" {
		out = append(out, suffix...)
	}

	return string(out)
}

// RenderValueInto writes RenderValue's result into buf, truncating to fit
// and always leaving the written prefix NUL-terminated if there is at
// least one byte of room. It returns the number of bytes written,
// excluding the terminator. This mirrors firmware call sites that format
// directly into a fixed stack buffer instead of allocating a string.
func RenderValueInto(value int32, p ParameterConfig, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	s := RenderValue(value, p)
	n := len(buf) - 1
	if len(s) < n {
		n = len(s)
	}
	copy(buf, s[:n])
	buf[n] = 0
	return n
}
