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
	"container/list"
	"log/slog"
	"time"

	"github.com/gurre/ibkr-go/ibclient/audit"
)

// registrationKind discriminates the payload a façade call hands the
// router before it sends the corresponding request on the wire. Handing
// the registration to the router over regCh, strictly before the request
// bytes reach the writer's queue, is what lets a reply racing in on the
// reader ever find a waiting entry — see Client.send.
type registrationKind int

const (
	regOneShot registrationKind = iota
	regOrderID
	regCancelOneShot
)

// registration is posted over regCh before the façade writes the matching
// request to the wire. A regOneShot registration's key serves double duty:
// for ReqContractDetails/ReqHistoricalData it is a request id, for
// PlaceOrder/ReqMarketData it is the id the *first correlated reply* (an
// OpenOrder or a tick) will carry — an order id or a request id
// respectively. Both spaces share the oneShot map because the gateway
// itself never issues the same integer in both (see the routing-table
// invariants in the package's design notes).
type registration struct {
	kind  registrationKind
	reqID int64

	deliver   chan Frame
	orderIDCh chan int64
}

// router owns every routing table and runs exclusively on the reader
// task's goroutine. Because only one goroutine ever touches these maps,
// none of them need a mutex; registrations arrive over regCh instead of
// through a locked map.
type router struct {
	regCh chan registration

	oneShot map[int64]chan Frame

	contractCache map[int64][]ContractDetails

	tickers       map[int64]*Ticker
	orderTrackers map[int64]*OrderTracker
	execToOrder   map[string]int64

	orderIDWaiters *list.List

	account *AccountView

	metrics *metrics
	logger  *slog.Logger
	blotter *audit.Blotter
}

func newRouter(regQueueDepth int, m *metrics, logger *slog.Logger, blotter *audit.Blotter) *router {
	return &router{
		regCh:          make(chan registration, regQueueDepth),
		oneShot:        make(map[int64]chan Frame),
		contractCache:  make(map[int64][]ContractDetails),
		tickers:        make(map[int64]*Ticker),
		orderTrackers:  make(map[int64]*OrderTracker),
		execToOrder:    make(map[string]int64),
		orderIDWaiters: list.New(),
		account:        newAccountView(),
		metrics:        m,
		logger:         logger,
		blotter:        blotter,
	}
}

// register enqueues reg for application on the router's own goroutine. It
// never blocks: a full registration queue means the caller is producing
// requests faster than the reader loop can keep up, which surfaces as
// ErrRegistrationQueueFull rather than a deadlock.
func (r *router) register(reg registration) error {
	select {
	case r.regCh <- reg:
		return nil
	default:
		return ErrRegistrationQueueFull
	}
}

// drainRegistrations applies every registration currently queued. It is
// called once per reader loop iteration, before the frame just read is
// dispatched, so a registration queued immediately before the matching
// send is guaranteed to be visible to the router before any reply for it
// can possibly arrive.
func (r *router) drainRegistrations() {
	for {
		select {
		case reg := <-r.regCh:
			r.applyRegistration(reg)
		default:
			return
		}
	}
}

func (r *router) applyRegistration(reg registration) {
	switch reg.kind {
	case regOneShot:
		r.oneShot[reg.reqID] = reg.deliver
	case regOrderID:
		r.orderIDWaiters.PushBack(reg.orderIDCh)
	case regCancelOneShot:
		delete(r.oneShot, reg.reqID)
	}
}

// dispatch routes one parsed Frame to whatever table or sink it belongs
// to. It never panics and never blocks: a one-shot whose requester has
// already gone away is skipped by a non-blocking send. Streaming entries
// are not evicted here; see evictTicker.
func (r *router) dispatch(f Frame) {
	r.metrics.routed(f.Kind)

	switch f.Kind {
	case FrameUnknown:
		r.logger.Debug("dropping unrecognized frame")

	case FrameAccountCode, FrameAccountType, FrameCashBalance, FrameEquityWithLoanValue,
		FrameExcessLiquidity, FrameNetLiquidation, FrameUnrealizedPnL, FrameRealizedPnL,
		FrameTotalCashBalance, FramePortfolioValue, FrameAccountUpdateEnd:
		r.account.apply(f)

	case FrameCurrentTime:
		r.logger.Debug("heartbeat acknowledged", "time", f.Time)

	case FrameNextValidID:
		r.dispatchNextValidID(f)

	case FrameContractDetails:
		r.contractCache[f.ReqID] = append(r.contractCache[f.ReqID], f.ContractDetails)
		if r.blotter != nil {
			c := f.ContractDetails.Contract
			r.blotter.RecordContractDetails(f.ReqID, c.Symbol, string(c.SecType), c.Exchange, c.Currency)
		}

	case FrameContractDetailsEnd:
		batch := r.contractCache[f.ReqID]
		delete(r.contractCache, f.ReqID)
		r.deliverOneShot(f.ReqID, Frame{Kind: FrameContractDetailsEnd, ReqID: f.ReqID, ContractDetailsBatch: batch})

	case FrameHistoricalData:
		if r.blotter != nil {
			for _, bar := range f.Bars {
				r.blotter.RecordBar(f.ReqID, bar.Time.UTC().Format(time.RFC3339), bar.Open.String(), bar.High.String(), bar.Low.String(), bar.Close.String(), bar.Volume.String())
			}
		}
		r.deliverOneShot(f.ReqID, f)

	case FrameOpenOrder:
		r.dispatchOpenOrder(f)

	case FrameOrderStatus:
		if t, ok := r.orderTrackers[f.OrderID]; ok {
			t.onOrderStatus(f)
			if r.blotter != nil {
				r.blotter.RecordOrderStatus(f.OrderID, f.OrderState.Status, f.OrderState.Filled.String(), f.OrderState.Remaining.String(), f.OrderState.AvgFillPx.String())
			}
		}

	case FrameExecution:
		r.dispatchExecution(f)

	case FrameCommissionReport:
		r.dispatchCommissionReport(f)

	case FramePriceTick:
		r.dispatchTicker(f, func(t *Ticker) { t.onPriceTick(f) })

	case FrameSizeTick, FrameGenericTick:
		r.dispatchTicker(f, func(t *Ticker) { t.onSizeTick(f) })

	case FrameErrMsg:
		r.dispatchError(f)
	}
}

func (r *router) dispatchNextValidID(f Frame) {
	el := r.orderIDWaiters.Front()
	if el == nil {
		r.logger.Warn("NextValidID arrived with no pending requester")
		return
	}
	r.orderIDWaiters.Remove(el)
	ch := el.Value.(chan int64)
	select {
	case ch <- f.OrderID:
	default:
	}
}

// dispatchOpenOrder implements the OpenOrder routing rule: if a one-shot is
// pending under this order's id (PlaceOrder registered it before sending),
// this is the first reply for that order — build the OrderTracker, hand it
// back through the one-shot, and retain it in order_trackers. Otherwise
// this is an update (or an order already open at connect time) and is
// applied to the existing-or-freshly-created tracker directly.
func (r *router) dispatchOpenOrder(f Frame) {
	if ch, ok := r.oneShot[f.OrderID]; ok {
		delete(r.oneShot, f.OrderID)
		t := newOrderTracker(f.OrderID)
		t.onOpenOrder(f)
		r.orderTrackers[f.OrderID] = t
		r.metrics.openSubscriptions.Inc()
		select {
		case ch <- Frame{Kind: FrameOpenOrder, OrderID: f.OrderID, OrderTrackerHandle: t}:
		default:
		}
		return
	}
	t, ok := r.orderTrackers[f.OrderID]
	if !ok {
		t = newOrderTracker(f.OrderID)
		r.orderTrackers[f.OrderID] = t
	}
	t.onOpenOrder(f)
}

func (r *router) dispatchExecution(f Frame) {
	r.execToOrder[f.Execution.ExecID] = f.Execution.OrderID
	if t, ok := r.orderTrackers[f.Execution.OrderID]; ok {
		t.onExecution(f.Execution)
		if r.blotter != nil {
			r.blotter.RecordExecution(f.Execution.ExecID, f.Execution.OrderID, string(f.Execution.Side), f.Execution.Shares.String(), f.Execution.Price.String())
		}
	}
}

func (r *router) dispatchCommissionReport(f Frame) {
	orderID, ok := r.execToOrder[f.Commission.ExecID]
	if !ok {
		r.logger.Debug("commission report for unknown execution", "exec_id", f.Commission.ExecID)
		return
	}
	delete(r.execToOrder, f.Commission.ExecID)
	if t, ok := r.orderTrackers[orderID]; ok {
		t.onCommissionReport(f.Commission)
		if r.blotter != nil {
			r.blotter.RecordCommissionReport(f.Commission.ExecID, f.Commission.Commission.String(), f.Commission.Currency, f.Commission.RealizedPnL.String())
		}
	}
}

// dispatchTicker implements the PriceTick/SizeTick/GenericTick routing
// rule: the first tick for a request id that still has a one-shot pending
// (ReqMarketData registered it before sending) builds the Ticker, hands it
// back through the one-shot, and retains it in tickers; every subsequent
// tick for that request id publishes directly into the existing Ticker. A
// tick for neither a pending one-shot nor a live Ticker is dropped — either
// the stream was canceled or no one ever subscribed to it.
func (r *router) dispatchTicker(f Frame, apply func(*Ticker)) {
	t, ok := r.tickers[f.ReqID]
	if !ok {
		ch, pending := r.oneShot[f.ReqID]
		if !pending {
			return
		}
		delete(r.oneShot, f.ReqID)
		t = newTicker(f.ReqID)
		r.tickers[f.ReqID] = t
		r.metrics.openSubscriptions.Inc()
		select {
		case ch <- Frame{Kind: f.Kind, ReqID: f.ReqID, TickerHandle: t}:
		default:
		}
	}
	apply(t)
}

// dispatchError implements the Error routing rule: fail a pending one-shot
// request if one exists under this id, otherwise attach the error to a live
// order tracker or ticker carrying the same id, otherwise just log it.
func (r *router) dispatchError(f Frame) {
	if ch, ok := r.oneShot[f.ReqID]; ok {
		delete(r.oneShot, f.ReqID)
		select {
		case ch <- f:
		default:
		}
		return
	}
	if t, ok := r.orderTrackers[f.ReqID]; ok {
		t.onError(f.ErrCode, f.ErrText)
		return
	}
	if t, ok := r.tickers[f.ReqID]; ok {
		t.onError(f.ErrCode, f.ErrText)
		return
	}
	r.logger.Warn("gateway error", "req_id", f.ReqID, "code", f.ErrCode, "text", f.ErrText)
}

// cancelOneShot posts a best-effort removal of a one-shot registration,
// used by Client.send when a request times out or its context is canceled
// before any reply arrives. Like every other registration, it crosses into
// the router's own goroutine over regCh rather than touching oneShot
// directly — without it, every abandoned request would leak its map entry
// for the remaining lifetime of the connection, since reqIDs are never
// reused. Best-effort: a full regCh (the caller is already tearing down)
// just means the entry is cleaned up lazily if a stray reply ever arrives.
func (r *router) cancelOneShot(reqID int64) {
	_ = r.register(registration{kind: regCancelOneShot, reqID: reqID})
}

// deliverOneShot sends f to the one-shot channel registered for reqID, if
// any, and removes the registration. A missing or already-fired
// registration is silently ignored: the requester either already timed
// out or never registered (a protocol bug upstream, not this router's to
// solve).
func (r *router) deliverOneShot(reqID int64, f Frame) {
	ch, ok := r.oneShot[reqID]
	if !ok {
		return
	}
	delete(r.oneShot, reqID)
	select {
	case ch <- f:
	default:
	}
}

// evictTicker removes reqID's Ticker from the router's table. Its only
// caller is Client.CancelMarketData, when the caller unsubscribes; the
// router itself never observes delivery failure since Ticker fields are
// plain cells, not channels.
func (r *router) evictTicker(reqID int64) {
	if _, ok := r.tickers[reqID]; ok {
		delete(r.tickers, reqID)
		r.metrics.evicted(FramePriceTick)
		r.metrics.openSubscriptions.Dec()
	}
}
