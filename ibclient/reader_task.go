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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gurre/ibkr-go/wire"
)

// runReader is the merged reader+router task: one frame is read off the
// socket, any registrations queued since the previous iteration are
// applied, the frame is parsed, and the result is dispatched — all on
// this single goroutine, so none of router's tables need locking.
func runReader(ctx context.Context, r *bufio.Reader, rt *router) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		payload, err := wire.ReadFrame(r)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}

		rt.drainRegistrations()

		f := parseFrame(payload)
		rt.dispatch(f)
	}
}
