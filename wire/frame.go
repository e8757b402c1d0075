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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// MaxFrameLen guards against a corrupt or malicious length prefix causing an
// unbounded allocation. No observed TWS/Gateway message approaches this.
const MaxFrameLen = 64 << 20

// WriteRaw writes b with no length prefix. Used exactly once per connection,
// for the "API\0" bootstrap token.
func WriteRaw(w io.Writer, b []byte) error {
	_, err := w.Write(b)
	return err
}

// WriteFrame writes payload as a 4-byte big-endian length prefix followed by
// the payload bytes.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameLen {
		return fmt.Errorf("wire: outbound frame too large: %d bytes", len(payload))
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame blocks until it has read one complete length-prefixed frame from
// r, returning its payload. It never returns a partial frame: a short read
// past the header is retried internally via io.ReadFull.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameLen {
		return nil, fmt.Errorf("wire: inbound frame too large: %d bytes", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SplitFields splits a frame payload on its null-byte field delimiters. A
// payload ending in a delimiter (the normal case) yields no trailing empty
// field; TrimSuffix strips it so callers can index fields without accounting for
// phantom trailing entries.
func SplitFields(payload []byte) []string {
	s := string(payload)
	s = strings.TrimSuffix(s, "\x00")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}

// Field looks up fields[i], returning "" if i is out of range. Many frame
// kinds carry an optional trailing field that older gateway versions omit
// entirely; this lets parsers treat a short field list the same as explicit
// empty fields.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
