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
	"testing"
	"time"

	"github.com/gurre/ibkr-go/ibproto"
)

func connectToFakeGateway(t *testing.T, gw *fakeGateway, clientID int64, orderID int64) *Client {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		gw.acceptAndHandshake(orderID)
	}()

	cfg := NewConfig("127.0.0.1", gw.port(), clientID)
	cfg.ConnectTimeout = testConnectTimeout
	ctx, cancel := context.WithTimeout(context.Background(), testConnectTimeout)
	defer cancel()

	c, err := Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	<-done
	return c
}

// fieldsOfLen builds a positional field slice exactly n long with every
// position defaulting to "", for constructing synthetic gateway replies
// without spelling out every irrelevant field.
func fieldsOfLen(n int) []string {
	return make([]string, n)
}

func TestContractDetails(t *testing.T) {
	gw := startFakeGateway(t)
	defer gw.close()

	c := connectToFakeGateway(t, gw, 1, 1)
	defer c.Close()

	go func() {
		req := gw.readRequest()
		reqID := req[2]

		fields := fieldsOfLen(25)
		fields[0] = "10"
		fields[1] = "1"
		fields[2] = reqID
		fields[3] = "AAPL"
		fields[4] = "STK"
		fields[6] = "NASDAQ"
		fields[8] = "SMART"
		fields[9] = "USD"
		fields[12] = "0.01"
		fields[20] = "Apple Inc"
		gw.send(fields...)
		gw.send("52", "1", reqID)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), testConnectTimeout)
	defer cancel()
	details, err := c.ReqContractDetails(ctx, StockContract("AAPL"))
	if err != nil {
		t.Fatalf("ReqContractDetails: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d contract details, want 1", len(details))
	}
	if details[0].Contract.Symbol != "AAPL" {
		t.Errorf("got symbol %q, want AAPL", details[0].Contract.Symbol)
	}
}

func TestPlaceMarketOrderReachesFilled(t *testing.T) {
	gw := startFakeGateway(t)
	defer gw.close()

	c := connectToFakeGateway(t, gw, 2, 5)
	defer c.Close()

	go func() {
		req := gw.readRequest()
		orderID := req[2]

		openOrder := fieldsOfLen(17)
		openOrder[0] = "5"
		openOrder[1] = orderID
		openOrder[2] = "AAPL"
		openOrder[6] = string(ActionBuy)
		openOrder[7] = "10"
		openOrder[8] = string(OrderTypeMarket)
		openOrder[16] = "Submitted"
		gw.send(openOrder...)

		gw.send("3", orderID, "Filled", "10", "0", "189.50", "0", "0", "0", "", "0", "0", "0")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), testConnectTimeout)
	defer cancel()
	tracker, err := c.PlaceOrder(ctx, StockContract("AAPL"), MarketOrder(ActionBuy, mustDecimal("10")))
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	var status string
	for time.Now().Before(deadline) {
		if s, ok := tracker.Status(); ok {
			status = s
			if status == "Filled" {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != "Filled" {
		t.Fatalf("got status %q, want Filled", status)
	}
}

func TestMarketDataShortableDataYieldsMidpoint(t *testing.T) {
	gw := startFakeGateway(t)
	defer gw.close()

	c := connectToFakeGateway(t, gw, 3, 1)
	defer c.Close()

	go func() {
		req := gw.readRequest()
		reqID := req[2]
		gw.send("1", "2", reqID, "1", "189.00", "0", "1")
		gw.send("1", "2", reqID, "2", "189.10", "0", "1")
		gw.send("46", "2", reqID, "236", "true")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), testConnectTimeout)
	defer cancel()
	ticker, err := c.ReqMarketData(ctx, StockContract("AAPL"), false, false, []ibproto.GenericTickType{ibproto.GenericTickShortableData})
	if err != nil {
		t.Fatalf("ReqMarketData: %v", err)
	}

	// ReqMarketData only blocks until the first tick (the bid) builds the
	// Ticker; the ask still arrives asynchronously, so the midpoint is
	// still polled for.
	deadline := time.Now().Add(time.Second)
	var ok bool
	for time.Now().Before(deadline) {
		if _, ok = ticker.Midpoint(); ok {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !ok {
		t.Fatal("expected a midpoint once bid and ask both arrived")
	}
}

func TestHistoricalDataReturnsSortedBars(t *testing.T) {
	gw := startFakeGateway(t)
	defer gw.close()

	c := connectToFakeGateway(t, gw, 4, 1)
	defer c.Close()

	go func() {
		req := gw.readRequest()
		reqID := req[2]
		fields := []string{"17", "1", reqID, "", "", "2"}
		fields = append(fields,
			"20200102 00:00:00", "100", "105", "99", "104", "1000", "", "", "",
			"20200101 00:00:00", "98", "102", "97", "100", "900", "", "", "",
		)
		gw.send(fields...)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), testConnectTimeout)
	defer cancel()
	series, err := c.ReqHistoricalData(ctx, StockContract("AAPL"), time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), "1 M", "1 day", ibproto.WhatToShowMidpoint, true)
	if err != nil {
		t.Fatalf("ReqHistoricalData: %v", err)
	}
	if series.Len() == 0 {
		t.Fatal("expected at least one bar")
	}
	for i := 1; i < len(series.Bars); i++ {
		if series.Bars[i].Time.Before(series.Bars[i-1].Time) {
			t.Fatal("bars are not sorted ascending by time")
		}
	}
}
