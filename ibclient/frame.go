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
	"time"

	"github.com/shopspring/decimal"
)

// FrameKind discriminates the Frame union returned by parseFrame. The reader
// task switches on this before touching any of the kind-specific fields.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameAccountCode
	FrameAccountType
	FrameCashBalance
	FrameEquityWithLoanValue
	FrameExcessLiquidity
	FrameNetLiquidation
	FrameUnrealizedPnL
	FrameRealizedPnL
	FrameTotalCashBalance
	FramePortfolioValue
	FrameAccountUpdateEnd
	FrameCurrentTime
	FrameNextValidID
	FrameContractDetails
	FrameContractDetailsEnd
	FrameOpenOrder
	FrameOrderStatus
	FrameExecution
	FrameCommissionReport
	FramePriceTick
	FrameSizeTick
	FrameGenericTick
	FrameHistoricalData
	FrameErrMsg
)

// Frame is the parsed, typed form of one inbound payload. Only the fields
// relevant to Kind are populated; it is a tagged union represented as a
// flat struct rather than an interface so the router can switch on Kind
// without a type assertion on every field access.
type Frame struct {
	Kind FrameKind

	ReqID   int64 // -1 when the frame carries no request id (e.g. NextValidID)
	OrderID int64

	AccountName string
	Currency    string
	Text        string
	ScalarValue decimal.Decimal

	Position Position

	Time time.Time

	ContractDetails      ContractDetails
	ContractDetailsBatch []ContractDetails

	Order      Order
	OrderState OrderState

	Execution  Execution
	Commission CommissionReport

	TickType int
	Price    decimal.Decimal
	Size     decimal.Decimal

	Bars []Bar

	ErrCode int
	ErrText string

	// OrderTrackerHandle and TickerHandle carry a freshly built subscription
	// handle back through a one-shot on the first frame that correlates to
	// it (the first OpenOrder for a placed order, the first tick for a
	// market data request) — see router.dispatchOpenOrder/dispatchTicker.
	OrderTrackerHandle *OrderTracker
	TickerHandle       *Ticker
}
