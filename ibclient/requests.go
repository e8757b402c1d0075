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
	"strings"
	"time"

	"github.com/gurre/ibkr-go/ibproto"
	"github.com/gurre/ibkr-go/wire"
)

const defaultRequestTimeout = 10 * time.Second

// ReqContractDetails resolves a (possibly partial) Contract into one or
// more ContractDetails. The request is bounded-batch: the gateway may send
// zero, one, or several ContractDetails frames before the terminal
// ContractDetailsEnd, and this call only returns once that terminal frame
// arrives.
func (c *Client) ReqContractDetails(ctx context.Context, contract Contract) ([]ContractDetails, error) {
	reqID := c.NextRequestID()
	payload := wire.EncodeInt(ibproto.OutReqContractData) +
		wire.EncodeInt(ibproto.LegacyVersion) +
		wire.EncodeInt64(reqID) +
		wire.EncodeString(contract.Symbol) +
		wire.EncodeString(string(contract.SecType)) +
		wire.EncodeString(contract.Expiry) +
		wire.EncodeDecimal(contract.Strike) +
		wire.EncodeString(contract.Right) +
		wire.EncodeString(contract.Exchange) +
		wire.EncodeString(contract.Currency)

	f, err := c.send(ctx, reqID, payload, defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	if f.Kind != FrameContractDetailsEnd {
		return nil, frameError(f, FrameContractDetailsEnd)
	}
	return f.ContractDetailsBatch, nil
}

// frameError narrows a delivered Frame against the expected kind: an
// ErrMsg carries the gateway's own code and message and becomes a
// ServerError; anything else of the wrong kind is a ProtocolMismatch.
func frameError(f Frame, want FrameKind) error {
	if f.Kind == FrameErrMsg {
		return &ServerError{ID: f.ReqID, Code: f.ErrCode, Text: f.ErrText}
	}
	return fmt.Errorf("%w: expected kind %d, got kind %d", ErrProtocolMismatch, want, f.Kind)
}

// PlaceOrder submits order against contract under a freshly minted order
// id and returns the OrderTracker built by the router from the first
// OpenOrder frame the gateway sends back for it. A one-shot is registered
// under the order id before the PlaceOrder bytes reach the wire, so that
// first OpenOrder can never arrive before something is waiting for it.
func (c *Client) PlaceOrder(ctx context.Context, contract Contract, order Order) (*OrderTracker, error) {
	orderID := c.NextOrderID()
	payload := buildPlaceOrderMessage(orderID, contract, order)

	f, err := c.send(ctx, orderID, payload, defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	if f.Kind != FrameOpenOrder || f.OrderTrackerHandle == nil {
		return nil, frameError(f, FrameOpenOrder)
	}
	return f.OrderTrackerHandle, nil
}

func buildPlaceOrderMessage(orderID int64, contract Contract, order Order) string {
	var b strings.Builder
	b.WriteString(wire.EncodeInt(ibproto.OutPlaceOrder))
	b.WriteString(wire.EncodeInt(ibproto.LegacyVersion))
	b.WriteString(wire.EncodeInt64(orderID))
	b.WriteString(wire.EncodeString(contract.Symbol))
	b.WriteString(wire.EncodeString(string(contract.SecType)))
	b.WriteString(wire.EncodeString(contract.Exchange))
	b.WriteString(wire.EncodeString(contract.Currency))
	b.WriteString(wire.EncodeString(string(order.Action)))
	b.WriteString(wire.EncodeDecimal(order.TotalQty))
	b.WriteString(wire.EncodeString(string(order.OrderType)))
	if order.OrderType == OrderTypeLimit {
		b.WriteString(wire.EncodeDecimal(order.LimitPrice))
	} else {
		b.WriteString(wire.Empty())
	}
	b.WriteString(wire.EncodeString(order.Tif))
	return b.String()
}

// ReqMarketData subscribes to streaming market data for contract. genericTicks
// is an optional additional-field list (e.g. GenericTickShortableData). A
// one-shot is registered under reqID before the request is sent, so the
// first tick frame the gateway emits for it can never race ahead of the
// routing table; the router builds the Ticker from that first tick and
// hands it back through the one-shot.
func (c *Client) ReqMarketData(ctx context.Context, contract Contract, snapshot bool, regulatorySnapshot bool, genericTicks []ibproto.GenericTickType) (*Ticker, error) {
	reqID := c.NextRequestID()

	ticks := make([]string, len(genericTicks))
	for i, t := range genericTicks {
		ticks[i] = string(t)
	}

	payload := wire.EncodeInt(ibproto.OutReqMktData) +
		wire.EncodeInt(11) +
		wire.EncodeInt64(reqID) +
		wire.EncodeString(contract.Symbol) +
		wire.EncodeString(string(contract.SecType)) +
		wire.EncodeString(contract.Exchange) +
		wire.EncodeString(contract.Currency) +
		wire.EncodeString(strings.Join(ticks, ",")) +
		wire.EncodeBool(snapshot) +
		wire.EncodeBool(regulatorySnapshot) +
		wire.Empty()

	f, err := c.send(ctx, reqID, payload, defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	if f.TickerHandle == nil {
		return nil, frameError(f, FramePriceTick)
	}
	return f.TickerHandle, nil
}

// CancelMarketData unsubscribes reqID's market data stream and evicts its
// Ticker from the router's table.
func (c *Client) CancelMarketData(reqID int64) error {
	payload := wire.EncodeInt(ibproto.OutCancelMktData) + wire.EncodeInt(ibproto.LegacyVersion) + wire.EncodeInt64(reqID)
	if err := enqueueWrite(c.writeCh, []byte(payload)); err != nil {
		return err
	}
	c.router.evictTicker(reqID)
	return nil
}

// ReqHistoricalData requests a batch of historical bars ending at endDateTime,
// covering duration (e.g. "1 M") at the given bar size (e.g. "1 day"),
// showing whatToShow, restricted to regular trading hours if useRTH is set.
func (c *Client) ReqHistoricalData(ctx context.Context, contract Contract, endDateTime time.Time, duration, barSize string, whatToShow ibproto.WhatToShow, useRTH bool) (BarSeries, error) {
	reqID := c.NextRequestID()
	payload := wire.EncodeInt(ibproto.OutReqHistoricalData) +
		wire.EncodeInt(6) +
		wire.EncodeInt64(reqID) +
		wire.EncodeString(contract.Symbol) +
		wire.EncodeString(string(contract.SecType)) +
		wire.EncodeString(contract.Exchange) +
		wire.EncodeString(contract.Currency) +
		wire.EncodeTime(endDateTime) +
		wire.EncodeString(barSize) +
		wire.EncodeString(duration) +
		wire.EncodeBool(useRTH) +
		wire.EncodeString(string(whatToShow)) +
		wire.EncodeInt(1) +
		wire.Empty() +
		wire.Empty()

	f, err := c.send(ctx, reqID, payload, 30*time.Second)
	if err != nil {
		return BarSeries{}, err
	}
	if f.Kind != FrameHistoricalData {
		return BarSeries{}, frameError(f, FrameHistoricalData)
	}
	series := BarSeries{Bars: f.Bars}
	series.sortAscending()
	return series, nil
}

// ReqAdjHistoricalData is ReqHistoricalData with the gateway's dividend-
// and split-adjusted price series, exactly matching the original's
// separate entry point rather than overloading ReqHistoricalData with an
// extra boolean.
func (c *Client) ReqAdjHistoricalData(ctx context.Context, contract Contract, endDateTime time.Time, duration, barSize string, useRTH bool) (BarSeries, error) {
	return c.ReqHistoricalData(ctx, contract, endDateTime, duration, barSize, ibproto.WhatToShowAdjLast, useRTH)
}

// SetMarketDataType switches between realtime, frozen, delayed, and
// delayed-frozen market data for every subsequent ReqMarketData call.
func (c *Client) SetMarketDataType(t ibproto.MarketDataType) error {
	payload := wire.EncodeInt(ibproto.OutReqMarketDataType) + wire.EncodeInt(ibproto.LegacyVersion) + wire.EncodeInt(int(t))
	return enqueueWrite(c.writeCh, []byte(payload))
}
