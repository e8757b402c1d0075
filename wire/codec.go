/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package wire implements the TWS/Gateway byte-level codec: scalar field
// encoders, the null-delimited field splitter, and length-prefixed framing.
//
// Every outbound field is its textual form followed by a single null byte;
// an empty field encodes as a bare null; a boolean is "1\0" or "0\0". Every
// frame on the wire (except the initial "API\0" bootstrap token) is a
// 4-byte big-endian length followed by that many payload bytes.
package wire

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FixTimeFormat is the textual timestamp format the gateway expects on
// outbound requests and emits on inbound frames.
const FixTimeFormat = "20060102 15:04:05"

// --- Scalar encoders ---
//
// Each Encode* function returns the field's textual form plus its
// terminating null byte, ready to be concatenated into a message body.

func EncodeString(v string) string {
	return v + "\x00"
}

func EncodeInt(v int) string {
	return strconv.Itoa(v) + "\x00"
}

func EncodeInt64(v int64) string {
	return strconv.FormatInt(v, 10) + "\x00"
}

func EncodeBool(v bool) string {
	if v {
		return "1\x00"
	}
	return "0\x00"
}

// EncodeDecimal renders a price/quantity in canonical fixed-point form.
// The zero Decimal (decimal.Decimal{}) encodes as "0", not as an empty
// field; EncodeOptionalDecimal(nil) is the way to send an empty field.
func EncodeDecimal(v decimal.Decimal) string {
	return v.String() + "\x00"
}

// EncodeOptionalDecimal encodes nil as an empty field.
func EncodeOptionalDecimal(v *decimal.Decimal) string {
	if v == nil {
		return "\x00"
	}
	return v.String() + "\x00"
}

// EncodeTime renders t in the caller's zone using the wire's timestamp
// format.
func EncodeTime(t time.Time) string {
	return t.Format(FixTimeFormat) + "\x00"
}

// Empty encodes the absent-field sentinel: a bare null byte.
func Empty() string {
	return "\x00"
}

// --- Scalar decoders ---
//
// Every decoder treats an empty textual field as an absent value rather
// than an error, matching §4.2's "empty numeric fields decode to an absent
// value" rule.

func DecodeInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func DecodeInt64(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func DecodeFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func DecodeBool(s string) bool {
	return s == "1"
}

// DecodeDecimal parses a price/quantity field. An empty field yields
// (decimal.Decimal{}, false) — callers must check the bool before trusting
// the zero value, since zero is itself a legal price.
func DecodeDecimal(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// DecodeTime parses a gateway timestamp in loc. An empty field yields the
// zero time and false.
func DecodeTime(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(FixTimeFormat, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
