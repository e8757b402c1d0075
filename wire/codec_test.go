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

package wire

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"string", EncodeString("AAPL"), "AAPL\x00"},
		{"int", EncodeInt(42), "42\x00"},
		{"bool true", EncodeBool(true), "1\x00"},
		{"bool false", EncodeBool(false), "0\x00"},
		{"empty", Empty(), "\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDecodeEmptyFieldsAreAbsent(t *testing.T) {
	if _, ok := DecodeInt(""); ok {
		t.Error("DecodeInt(\"\") should report absent")
	}
	if _, ok := DecodeDecimal(""); ok {
		t.Error("DecodeDecimal(\"\") should report absent")
	}
	if _, ok := DecodeTime("", time.UTC); ok {
		t.Error("DecodeTime(\"\") should report absent")
	}
}

func TestDecodeDecimalZeroIsPresent(t *testing.T) {
	d, ok := DecodeDecimal("0")
	if !ok {
		t.Fatal("DecodeDecimal(\"0\") should report present")
	}
	if !d.Equal(decimal.Zero) {
		t.Errorf("got %s, want 0", d)
	}
}

func TestEncodeDecodeDecimalRoundTrip(t *testing.T) {
	want := decimal.RequireFromString("123.45")
	encoded := EncodeDecimal(want)
	fields := SplitFields([]byte(encoded))
	got, ok := DecodeDecimal(fields[0])
	if !ok {
		t.Fatal("expected decimal to decode")
	}
	if !got.Equal(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}
