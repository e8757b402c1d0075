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
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestRouter() *router {
	return newRouter(16, newMetrics(nil), slog.Default(), nil)
}

func TestContractDetailsAccumulatesUntilEnd(t *testing.T) {
	r := newTestRouter()
	deliver := make(chan Frame, 1)
	if err := r.register(registration{kind: regOneShot, reqID: 1, deliver: deliver}); err != nil {
		t.Fatalf("register: %v", err)
	}
	r.drainRegistrations()

	r.dispatch(Frame{Kind: FrameContractDetails, ReqID: 1, ContractDetails: ContractDetails{Contract: Contract{Symbol: "AAPL"}}})
	r.dispatch(Frame{Kind: FrameContractDetails, ReqID: 1, ContractDetails: ContractDetails{Contract: Contract{Symbol: "AAPL", Exchange: "ARCA"}}})

	select {
	case <-deliver:
		t.Fatal("delivered before ContractDetailsEnd arrived")
	default:
	}

	r.dispatch(Frame{Kind: FrameContractDetailsEnd, ReqID: 1})

	select {
	case f := <-deliver:
		if len(f.ContractDetailsBatch) != 2 {
			t.Fatalf("got %d contract details, want 2", len(f.ContractDetailsBatch))
		}
	default:
		t.Fatal("expected delivery after ContractDetailsEnd")
	}

	if _, ok := r.contractCache[1]; ok {
		t.Error("contract cache was not cleared after delivery")
	}
}

func TestOpenOrderCreatesTrackerIdempotently(t *testing.T) {
	r := newTestRouter()

	r.dispatch(Frame{Kind: FrameOpenOrder, ReqID: -1, OrderID: 7, Order: Order{Action: ActionBuy}})
	first, ok := r.orderTrackers[7]
	if !ok {
		t.Fatal("expected a tracker to be created for order 7")
	}

	r.dispatch(Frame{Kind: FrameOpenOrder, ReqID: -1, OrderID: 7, Order: Order{Action: ActionBuy}})
	second := r.orderTrackers[7]
	if first != second {
		t.Error("a second OpenOrder for the same order id created a new tracker instead of updating the existing one")
	}
}

func TestExecutionThenCommissionRoutesAndCleansUp(t *testing.T) {
	r := newTestRouter()
	tracker := newOrderTracker(9)
	r.orderTrackers[9] = tracker

	r.dispatch(Frame{Kind: FrameExecution, ReqID: -1, Execution: Execution{ExecID: "exec-1", OrderID: 9, Shares: decimal.NewFromInt(10)}})
	if _, ok := r.execToOrder["exec-1"]; !ok {
		t.Fatal("expected exec-1 to be recorded in execToOrder")
	}

	r.dispatch(Frame{Kind: FrameCommissionReport, Commission: CommissionReport{ExecID: "exec-1", Commission: decimal.NewFromFloat(1.25)}})

	if _, ok := r.execToOrder["exec-1"]; ok {
		t.Error("exec-1 should be removed from execToOrder once its commission report is delivered")
	}
	reports := tracker.Commissions()
	if len(reports) != 1 || !reports[0].Commission.Equal(decimal.NewFromFloat(1.25)) {
		t.Errorf("got %+v, want one commission report of 1.25", reports)
	}
}

func TestOrphanCommissionReportIsDroppedCleanly(t *testing.T) {
	r := newTestRouter()
	// No execution was ever recorded for "exec-unknown".
	r.dispatch(Frame{Kind: FrameCommissionReport, Commission: CommissionReport{ExecID: "exec-unknown", Commission: decimal.NewFromInt(1)}})
	if _, ok := r.execToOrder["exec-unknown"]; ok {
		t.Error("an orphan commission report should not create an execToOrder entry")
	}
}

func TestNextValidIDPopsFIFOInOrder(t *testing.T) {
	r := newTestRouter()
	first := make(chan int64, 1)
	second := make(chan int64, 1)
	r.register(registration{kind: regOrderID, orderIDCh: first})
	r.register(registration{kind: regOrderID, orderIDCh: second})
	r.drainRegistrations()

	r.dispatch(Frame{Kind: FrameNextValidID, OrderID: 100})
	select {
	case id := <-first:
		if id != 100 {
			t.Errorf("got %d, want 100", id)
		}
	default:
		t.Fatal("expected the first registrant to receive the NextValidID reply")
	}
	select {
	case <-second:
		t.Fatal("second registrant should not have been delivered yet")
	default:
	}

	r.dispatch(Frame{Kind: FrameNextValidID, OrderID: 101})
	select {
	case id := <-second:
		if id != 101 {
			t.Errorf("got %d, want 101", id)
		}
	default:
		t.Fatal("expected the second registrant to receive the second reply")
	}
}

// TestFirstTickBuildsTickerAndDeliversItViaOneShot exercises the lazy
// subscription-creation path of §4.5's routing table: ReqMarketData
// registers a one-shot keyed by req id before sending, and the first tick
// frame the gateway replies with is what actually builds the Ticker and
// hands it back.
func TestFirstTickBuildsTickerAndDeliversItViaOneShot(t *testing.T) {
	r := newTestRouter()
	deliver := make(chan Frame, 1)
	if err := r.register(registration{kind: regOneShot, reqID: 5, deliver: deliver}); err != nil {
		t.Fatalf("register: %v", err)
	}
	r.drainRegistrations()

	r.dispatch(Frame{Kind: FramePriceTick, ReqID: 5, TickType: 1, Price: decimal.NewFromFloat(100)})

	var ticker *Ticker
	select {
	case f := <-deliver:
		if f.TickerHandle == nil {
			t.Fatal("expected the first tick to deliver a TickerHandle")
		}
		ticker = f.TickerHandle
	default:
		t.Fatal("expected delivery on the first tick")
	}
	if _, ok := r.tickers[5]; !ok {
		t.Error("ticker was not retained in the router's table after delivery")
	}
	if _, ok := r.oneShot[5]; ok {
		t.Error("one-shot registration was not removed after delivery")
	}

	r.dispatch(Frame{Kind: FramePriceTick, ReqID: 5, TickType: 2, Price: decimal.NewFromFloat(100.5)})
	mid, ok := ticker.Midpoint()
	if !ok {
		t.Fatal("expected a midpoint once both bid and ask have published")
	}
	if !mid.Equal(decimal.NewFromFloat(100.25)) {
		t.Errorf("got %s, want 100.25", mid)
	}
}

func TestEvictTickerRemovesSubscription(t *testing.T) {
	r := newTestRouter()
	ticker := newTicker(3)
	r.tickers[3] = ticker
	r.metrics.openSubscriptions.Inc()

	r.evictTicker(3)

	r.dispatch(Frame{Kind: FramePriceTick, ReqID: 3, TickType: 1, Price: decimal.NewFromInt(1)})
	if _, ok := ticker.Bid(); ok {
		t.Error("an evicted ticker should not receive further ticks")
	}
	if _, ok := r.tickers[3]; ok {
		t.Error("evicted ticker should be removed from the router's table")
	}
}

// TestFirstOpenOrderBuildsTrackerAndDeliversItViaOneShot exercises the
// lazy subscription-creation path for PlaceOrder: the first OpenOrder for
// an order id with a pending one-shot builds the OrderTracker and hands
// it back through that one-shot rather than being applied to a
// pre-existing tracker.
func TestFirstOpenOrderBuildsTrackerAndDeliversItViaOneShot(t *testing.T) {
	r := newTestRouter()
	deliver := make(chan Frame, 1)
	if err := r.register(registration{kind: regOneShot, reqID: 11, deliver: deliver}); err != nil {
		t.Fatalf("register: %v", err)
	}
	r.drainRegistrations()

	r.dispatch(Frame{Kind: FrameOpenOrder, ReqID: -1, OrderID: 11, Order: Order{Action: ActionBuy}})

	select {
	case f := <-deliver:
		if f.OrderTrackerHandle == nil {
			t.Fatal("expected the first OpenOrder to deliver an OrderTrackerHandle")
		}
		if f.OrderTrackerHandle.OrderID() != 11 {
			t.Errorf("got order id %d, want 11", f.OrderTrackerHandle.OrderID())
		}
	default:
		t.Fatal("expected delivery on the first OpenOrder")
	}
	if _, ok := r.orderTrackers[11]; !ok {
		t.Error("tracker was not retained in the router's table after delivery")
	}
	if _, ok := r.oneShot[11]; ok {
		t.Error("one-shot registration was not removed after delivery")
	}
}

func TestErrMsgFailsPendingOneShot(t *testing.T) {
	r := newTestRouter()
	deliver := make(chan Frame, 1)
	if err := r.register(registration{kind: regOneShot, reqID: 21, deliver: deliver}); err != nil {
		t.Fatalf("register: %v", err)
	}
	r.drainRegistrations()

	r.dispatch(Frame{Kind: FrameErrMsg, ReqID: 21, ErrCode: 321, ErrText: "order rejected"})

	select {
	case f := <-deliver:
		if f.Kind != FrameErrMsg || f.ErrCode != 321 {
			t.Fatalf("got %+v, want an ErrMsg frame with code 321", f)
		}
	default:
		t.Fatal("expected the pending one-shot to be failed with the error frame")
	}
}

func TestErrMsgAttachesToLiveOrderTracker(t *testing.T) {
	r := newTestRouter()
	tracker := newOrderTracker(12)
	r.orderTrackers[12] = tracker

	r.dispatch(Frame{Kind: FrameErrMsg, ReqID: 12, ErrCode: 202, ErrText: "order cancelled"})

	err, ok := tracker.Err()
	if !ok {
		t.Fatal("expected the error to be attached to the live order tracker")
	}
	if err.Code != 202 {
		t.Errorf("got code %d, want 202", err.Code)
	}
}

func TestErrMsgAttachesToLiveTicker(t *testing.T) {
	r := newTestRouter()
	ticker := newTicker(6)
	r.tickers[6] = ticker

	r.dispatch(Frame{Kind: FrameErrMsg, ReqID: 6, ErrCode: 200, ErrText: "no security definition"})

	err, ok := ticker.Err()
	if !ok {
		t.Fatal("expected the error to be attached to the live ticker")
	}
	if err.Code != 200 {
		t.Errorf("got code %d, want 200", err.Code)
	}
}

func TestAccountUpdateEndSwapsPendingPortfolio(t *testing.T) {
	r := newTestRouter()
	r.dispatch(Frame{Kind: FramePortfolioValue, Position: Position{Contract: Contract{Symbol: "AAPL"}}})
	r.dispatch(Frame{Kind: FramePortfolioValue, Position: Position{Contract: Contract{Symbol: "MSFT"}}})

	if got := len(r.account.Portfolio()); got != 0 {
		t.Fatalf("got %d positions before AccountUpdateEnd, want 0", got)
	}

	r.dispatch(Frame{Kind: FrameAccountUpdateEnd})

	portfolio := r.account.Portfolio()
	if len(portfolio) != 2 {
		t.Fatalf("got %d positions, want 2", len(portfolio))
	}
}
