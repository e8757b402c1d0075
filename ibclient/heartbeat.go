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
	"time"

	"github.com/gurre/ibkr-go/ibproto"
	"github.com/gurre/ibkr-go/wire"
)

// runHeartbeat sends ReqCurrentTime on interval until ctx is canceled.
// The reply carries no request id; the router logs it and otherwise
// ignores it, since this task's only job is to keep the gateway from
// deciding the connection is idle.
func runHeartbeat(ctx context.Context, interval time.Duration, writeCh chan<- []byte) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			payload := wire.EncodeInt(ibproto.OutReqCurrentTime) + wire.EncodeInt(ibproto.LegacyVersion)
			_ = enqueueWrite(writeCh, []byte(payload))
		}
	}
}
