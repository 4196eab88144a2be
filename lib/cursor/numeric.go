// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cursor

import "math"

// binary64 layout.
const (
	mantissaBits = 52
	exponentBits = 11
	exponentMax  = 1<<exponentBits - 1
	exponentBias = exponentMax >> 1

	mantissaMask = 1<<mantissaBits - 1

	// nanPattern is the bit pattern written for every NaN: all-ones
	// exponent, mantissa 1, sign clear.
	nanPattern uint64 = exponentMax<<mantissaBits | 1
)

// WriteInt32 writes each value as a 4-byte little-endian word and
// advances by 4 per value. Nothing is written unless all values fit.
// Returns the number of bytes written.
func (c *Cursor) WriteInt32(values ...int32) (int, error) {
	if err := c.require("write", 4*len(values)); err != nil {
		return 0, err
	}
	for _, value := range values {
		c.putUint32(uint32(value))
	}
	return 4 * len(values), nil
}

// ReadInt32 reads a 4-byte little-endian word and advances by 4.
func (c *Cursor) ReadInt32() (int32, error) {
	if err := c.require("read", 4); err != nil {
		return 0, err
	}
	return int32(c.getUint32()), nil
}

// ReadInt32s reads count consecutive words in order and advances by
// 4*count. Nothing is consumed unless all count words are present.
func (c *Cursor) ReadInt32s(count int) ([]int32, error) {
	if err := c.require("read", 4*count); err != nil {
		return nil, err
	}
	values := make([]int32, count)
	for i := range values {
		values[i] = int32(c.getUint32())
	}
	return values, nil
}

// WriteInt64 writes each value as two 32-bit words, low word first,
// and advances by 8 per value. Returns the number of bytes written.
func (c *Cursor) WriteInt64(values ...int64) (int, error) {
	if err := c.require("write", 8*len(values)); err != nil {
		return 0, err
	}
	for _, value := range values {
		c.putUint32(uint32(value))
		c.putUint32(uint32(uint64(value) >> 32))
	}
	return 8 * len(values), nil
}

// ReadInt64 reads a low word then a high word and advances by 8.
func (c *Cursor) ReadInt64() (int64, error) {
	if err := c.require("read", 8); err != nil {
		return 0, err
	}
	return c.getInt64(), nil
}

// ReadInt64s reads count consecutive 64-bit integers and advances by
// 8*count.
func (c *Cursor) ReadInt64s(count int) ([]int64, error) {
	if err := c.require("read", 8*count); err != nil {
		return nil, err
	}
	values := make([]int64, count)
	for i := range values {
		values[i] = c.getInt64()
	}
	return values, nil
}

// WriteDouble writes each value as an 8-byte little-endian IEEE-754
// binary64 and advances by 8 per value. Returns the number of bytes
// written.
func (c *Cursor) WriteDouble(values ...float64) (int, error) {
	if err := c.require("write", 8*len(values)); err != nil {
		return 0, err
	}
	for _, value := range values {
		bits := packDouble(value)
		c.putUint32(uint32(bits))
		c.putUint32(uint32(bits >> 32))
	}
	return 8 * len(values), nil
}

// ReadDouble reads an 8-byte little-endian IEEE-754 binary64 and
// advances by 8.
func (c *Cursor) ReadDouble() (float64, error) {
	if err := c.require("read", 8); err != nil {
		return 0, err
	}
	return unpackDouble(uint64(c.getInt64())), nil
}

// ReadDoubles reads count consecutive doubles and advances by 8*count.
func (c *Cursor) ReadDoubles(count int) ([]float64, error) {
	if err := c.require("read", 8*count); err != nil {
		return nil, err
	}
	values := make([]float64, count)
	for i := range values {
		values[i] = unpackDouble(uint64(c.getInt64()))
	}
	return values, nil
}

// putUint32 stores value little-endian at the offset and advances by
// 4. The caller has already checked bounds.
func (c *Cursor) putUint32(value uint32) {
	c.buffer[c.offset] = byte(value)
	c.buffer[c.offset+1] = byte(value >> 8)
	c.buffer[c.offset+2] = byte(value >> 16)
	c.buffer[c.offset+3] = byte(value >> 24)
	c.offset += 4
}

// getUint32 loads a little-endian word at the offset and advances by
// 4. The caller has already checked bounds.
func (c *Cursor) getUint32() uint32 {
	value := uint32(c.buffer[c.offset]) |
		uint32(c.buffer[c.offset+1])<<8 |
		uint32(c.buffer[c.offset+2])<<16 |
		uint32(c.buffer[c.offset+3])<<24
	c.offset += 4
	return value
}

func (c *Cursor) getInt64() int64 {
	low := c.getUint32()
	high := c.getUint32()
	return int64(uint64(high)<<32 | uint64(low))
}

// packDouble assembles the binary64 bit pattern of value from its
// sign, biased exponent and mantissa. Scaling by powers of two is exact
// in binary floating point, so the mantissa is recovered without
// rounding for normal and subnormal inputs alike.
func packDouble(value float64) uint64 {
	var sign uint64
	if math.Signbit(value) {
		sign = 1
	}

	var exponent, mantissa uint64
	switch {
	case math.IsNaN(value):
		return nanPattern
	case math.IsInf(value, 0):
		exponent = exponentMax
	case value == 0:
		// ±0: exponent and mantissa both zero, sign already set.
	default:
		magnitude := math.Abs(value)
		// magnitude = fraction × 2^power with fraction in [0.5, 1).
		fraction, power := math.Frexp(magnitude)
		biased := power - 1 + exponentBias
		if biased >= 1 {
			exponent = uint64(biased)
			// fraction × 2^53 is an integer in [2^52, 2^53); drop the
			// implicit leading bit.
			mantissa = uint64(math.Ldexp(fraction, mantissaBits+1)) & mantissaMask
		} else {
			// Subnormal: value = mantissa × 2^(1-bias-52).
			mantissa = uint64(math.Ldexp(magnitude, exponentBias-1+mantissaBits))
		}
	}

	return sign<<63 | exponent<<mantissaBits | mantissa
}

// unpackDouble is the inverse of packDouble. Any all-ones exponent with
// a non-zero mantissa decodes to NaN.
func unpackDouble(bits uint64) float64 {
	negative := bits>>63 != 0
	exponent := int((bits >> mantissaBits) & exponentMax)
	mantissa := bits & mantissaMask

	var magnitude float64
	switch exponent {
	case exponentMax:
		if mantissa != 0 {
			return math.NaN()
		}
		magnitude = math.Inf(1)
	case 0:
		magnitude = math.Ldexp(float64(mantissa), 1-exponentBias-mantissaBits)
	default:
		magnitude = math.Ldexp(float64(mantissa|1<<mantissaBits), exponent-exponentBias-mantissaBits)
	}

	if negative {
		return math.Copysign(magnitude, -1)
	}
	return magnitude
}
