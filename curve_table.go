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

// numControlModes is the count of named ControlMode values, linear
// through expo_in_out.
const numControlModes = int(ModeExpoInOut) + 1

// goldenTableStride is the spacing, in raw input units, between the
// sample points recorded in GoldenTable.
const goldenTableStride = 97

// goldenTableSamples is the number of sample points per mode: every
// multiple of goldenTableStride in [0, maxCurveVal], inclusive of 0.
const goldenTableSamples = maxCurveVal/goldenTableStride + 1

// GoldenTable holds Curve's output for every named mode at x = 0,
// goldenTableStride, 2*goldenTableStride, ... Unlike a table generated by
// calling Curve itself, these values were worked out by hand directly
// from the fixed-point formulas in apply_parameter_control_curve (each
// mode's integer truncation order matched exactly, since the curves are
// not bit-exact under any other grouping), so a regression in Curve does
// not silently reproduce itself here. Index with x/goldenTableStride for
// x a multiple of the stride.
var GoldenTable = [numControlModes][goldenTableSamples]uint16{
	ModeLinear:         {0, 97, 194, 291, 388, 485, 582, 679, 776, 873, 970},
	ModeLinearHalf:     {0, 48, 97, 145, 194, 242, 291, 339, 388, 436, 485},
	ModeLinearQuarter:  {0, 24, 48, 72, 97, 121, 145, 169, 194, 218, 242},
	ModeLinearDouble:   {0, 194, 388, 582, 776, 970, 1023, 1023, 1023, 1023, 1023},
	ModeBoolean:        {0, 0, 0, 0, 0, 0, 1023, 1023, 1023, 1023, 1023},
	ModeSteps4:         {0, 0, 0, 341, 341, 341, 682, 682, 1023, 1023, 1023},
	ModeSteps8:         {0, 0, 146, 292, 438, 438, 584, 730, 876, 876, 1022},
	ModeSteps16:        {0, 68, 204, 272, 408, 476, 612, 680, 816, 884, 1020},
	ModeSteps32:        {0, 99, 198, 297, 396, 495, 594, 693, 792, 891, 990},
	ModeSteps64:        {0, 96, 192, 288, 384, 480, 576, 672, 768, 864, 960},
	ModeSteps128:       {0, 96, 192, 288, 384, 480, 576, 672, 776, 872, 968},
	ModeSteps256:       {0, 96, 192, 288, 388, 484, 580, 676, 776, 872, 968},
	ModePolarDegs90:    {0, 24, 48, 72, 97, 121, 145, 169, 194, 218, 242},
	ModePolarDegs180:   {0, 48, 97, 145, 194, 242, 291, 339, 388, 436, 485},
	ModePolarDegs360:   {0, 97, 194, 291, 388, 485, 582, 679, 776, 873, 970},
	ModePolarDegs720:   {0, 194, 388, 582, 776, 970, 140, 334, 528, 722, 916},
	ModePolarDegs1440:  {0, 388, 776, 140, 528, 916, 280, 668, 32, 420, 808},
	ModePolarDegs2880:  {0, 776, 528, 280, 32, 808, 560, 312, 64, 840, 592},
	ModeQuadIn:         {0, 9, 36, 82, 147, 229, 331, 450, 588, 744, 919},
	ModeQuadOut:        {0, 185, 352, 500, 629, 741, 833, 908, 964, 1002, 1021},
	ModeQuadInOut:      {0, 18, 73, 165, 294, 459, 644, 792, 904, 980, 1018},
	ModeSineIn:         {0, 9, 36, 82, 147, 229, 331, 450, 588, 744, 919},
	ModeSineOut:        {0, 185, 352, 500, 629, 741, 833, 908, 964, 1002, 1021},
	ModeSineInOut:      {0, 4, 18, 41, 73, 114, 929, 966, 994, 1013, 1022},
	ModeCircIn:         {0, 9, 36, 82, 147, 229, 331, 450, 588, 744, 919},
	ModeCircOut:        {0, 185, 352, 500, 629, 741, 833, 908, 964, 1002, 1021},
	ModeCircInOut:      {0, 0, 6, 23, 55, 108, 942, 985, 1009, 1020, 1023},
	ModeQuintIn:        {0, 0, 0, 1, 7, 24, 60, 130, 255, 461, 782},
	ModeQuintOut:       {0, 403, 667, 832, 930, 983, 1008, 1019, 1023, 1023, 1023},
	ModeQuintInOut:     {0, 0, 0, 0, 0, 0, 1023, 1023, 1023, 1023, 1023},
	ModeQuartIn:        {0, 0, 1, 6, 21, 51, 107, 197, 337, 541, 825},
	ModeQuartOut:       {0, 337, 583, 756, 872, 946, 988, 1011, 1020, 1023, 1023},
	ModeQuartInOut:     {0, 0, 0, 0, 0, 0, 1023, 1023, 1023, 1023, 1023},
	ModeExpoIn:         {0, 0, 1, 6, 20, 51, 106, 197, 338, 541, 825},
	ModeExpoOut:        {0, 337, 583, 756, 872, 946, 989, 1011, 1020, 1023, 1023},
	ModeExpoInOut:      {0, 0, 0, 3, 10, 25, 1006, 1017, 1022, 1023, 1023},
}
