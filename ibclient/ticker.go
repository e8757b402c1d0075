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
	"github.com/gurre/ibkr-go/ibproto"
	"github.com/shopspring/decimal"
)

// Ticker is the live sink for one market data subscription. Every field is
// a latest-value cell; a caller that hasn't seen a particular tick type
// yet simply gets ok=false back.
type Ticker struct {
	reqID int64

	bid, ask, last             cell[decimal.Decimal]
	bidSize, askSize, lastSize cell[decimal.Decimal]
	shortable                  cell[decimal.Decimal]
	lastErr                    cell[*ServerError]
}

func newTicker(reqID int64) *Ticker {
	return &Ticker{reqID: reqID}
}

func (t *Ticker) ReqID() int64 { return t.reqID }

func (t *Ticker) Bid() (decimal.Decimal, bool)  { return t.bid.get() }
func (t *Ticker) Ask() (decimal.Decimal, bool)  { return t.ask.get() }
func (t *Ticker) Last() (decimal.Decimal, bool) { return t.last.get() }

func (t *Ticker) BidSize() (decimal.Decimal, bool)  { return t.bidSize.get() }
func (t *Ticker) AskSize() (decimal.Decimal, bool)  { return t.askSize.get() }
func (t *Ticker) LastSize() (decimal.Decimal, bool) { return t.lastSize.get() }

// Shortable reports the most recent ShortableData generic tick value, when
// the subscription requested it.
func (t *Ticker) Shortable() (decimal.Decimal, bool) { return t.shortable.get() }

// Midpoint derives (bid+ask)/2 from the latest bid and ask. It reports
// ok=false until both sides have published at least once.
func (t *Ticker) Midpoint() (decimal.Decimal, bool) {
	bid, okBid := t.bid.get()
	ask, okAsk := t.ask.get()
	if !okBid || !okAsk {
		return decimal.Decimal{}, false
	}
	return bid.Add(ask).Div(decimal.NewFromInt(2)), true
}

func (t *Ticker) onPriceTick(f Frame) {
	switch f.TickType {
	case ibproto.TickBid, ibproto.TickDelayedBid:
		t.bid.publish(f.Price)
	case ibproto.TickAsk, ibproto.TickDelayedAsk:
		t.ask.publish(f.Price)
	case ibproto.TickLast, ibproto.TickDelayedLast:
		t.last.publish(f.Price)
	}
}

func (t *Ticker) onSizeTick(f Frame) {
	switch f.TickType {
	case ibproto.TickBidSize, ibproto.TickDelayedBidSize:
		t.bidSize.publish(f.Size)
	case ibproto.TickAskSize, ibproto.TickDelayedAskSize:
		t.askSize.publish(f.Size)
	case ibproto.TickLastSize, ibproto.TickDelayedLastSize:
		t.lastSize.publish(f.Size)
	case ibproto.TickShortableShares:
		t.shortable.publish(f.Size)
	}
}

// Err returns the most recent gateway error reported against this
// subscription's request id, if any.
func (t *Ticker) Err() (*ServerError, bool) { return t.lastErr.get() }

func (t *Ticker) onError(code int, text string) {
	t.lastErr.publish(&ServerError{ID: t.reqID, Code: code, Text: text})
}
