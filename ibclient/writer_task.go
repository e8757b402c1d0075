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

package ibclient

import (
	"context"
	"fmt"
	"io"

	"github.com/gurre/ibkr-go/wire"
)

// runWriter drains writeCh and puts each payload on the wire as a
// length-prefixed frame, in send order. It is the only goroutine that
// ever writes to conn.
func runWriter(ctx context.Context, conn io.Writer, writeCh <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-writeCh:
			if !ok {
				return nil
			}
			if err := wire.WriteFrame(conn, payload); err != nil {
				return fmt.Errorf("%w: %v", ErrTransport, err)
			}
		}
	}
}

// enqueueWrite offers payload to writeCh without blocking. A full queue
// means the writer task has fallen behind or the connection is already
// unwinding; the caller gets ErrWriteQueueFull back instead of stalling
// indefinitely.
func enqueueWrite(writeCh chan<- []byte, payload []byte) error {
	select {
	case writeCh <- payload:
		return nil
	default:
		return ErrWriteQueueFull
	}
}
