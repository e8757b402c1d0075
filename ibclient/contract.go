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

// SecType identifies the kind of instrument a Contract describes.
type SecType string

const (
	SecTypeStock  SecType = "STK"
	SecTypeOption SecType = "OPT"
	SecTypeFuture SecType = "FUT"
	SecTypeCash   SecType = "CASH"
	SecTypeBond   SecType = "BOND"
)

// Action is the side of an Order.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// OrderType selects the pricing behavior of an Order.
type OrderType string

const (
	OrderTypeMarket OrderType = "MKT"
	OrderTypeLimit  OrderType = "LMT"
	OrderTypeStop   OrderType = "STP"
)

// Contract identifies a tradable instrument. Only the fields the core
// wire protocol needs to disambiguate an instrument are carried; detailed
// per-SecType field layouts are out of scope.
type Contract struct {
	ConID    int64
	Symbol   string
	SecType  SecType
	Exchange string
	Currency string
	Expiry   string
	Strike   decimal.Decimal
	Right    string
}

// StockContract builds the minimal Contract needed to address a US-listed
// equity on the primary smart-routed exchange.
func StockContract(symbol string) Contract {
	return Contract{
		Symbol:   symbol,
		SecType:  SecTypeStock,
		Exchange: "SMART",
		Currency: "USD",
	}
}

// ContractDetails is the accumulated reply to ReqContractDetails: the
// resolved Contract plus the descriptive fields the gateway attaches to it.
type ContractDetails struct {
	Contract      Contract
	MarketName    string
	LongName      string
	MinTick       decimal.Decimal
	OrderTypes    string
	ValidExchanges string
}

// Order is the caller-supplied description of a new order. MarketOrder builds a
// plain market order, the common case exercised by the testable scenarios.
type Order struct {
	Action      Action
	OrderType   OrderType
	TotalQty    decimal.Decimal
	LimitPrice  decimal.Decimal
	Tif         string
}

func MarketOrder(action Action, qty decimal.Decimal) Order {
	return Order{Action: action, OrderType: OrderTypeMarket, TotalQty: qty, Tif: "DAY"}
}

func LimitOrder(action Action, qty decimal.Decimal, limitPrice decimal.Decimal) Order {
	return Order{Action: action, OrderType: OrderTypeLimit, TotalQty: qty, LimitPrice: limitPrice, Tif: "DAY"}
}

// OrderState is the gateway's latest status snapshot for a live order.
type OrderState struct {
	Status     string
	Filled     decimal.Decimal
	Remaining  decimal.Decimal
	AvgFillPx  decimal.Decimal
}

// Execution records one fill against a placed order.
type Execution struct {
	ExecID   string
	OrderID  int64
	Time     time.Time
	Side     Action
	Shares   decimal.Decimal
	Price    decimal.Decimal
}

// CommissionReport carries the commission charged for one Execution,
// correlated back to it by ExecID.
type CommissionReport struct {
	ExecID      string
	Commission  decimal.Decimal
	Currency    string
	RealizedPnL decimal.Decimal
}

// Bar is one OHLCV sample of a historical or real-time bar series.
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Position is one row of the account's live portfolio, published as a
// batch whenever the gateway signals AccountUpdateEnd.
type Position struct {
	Contract     Contract
	Position     decimal.Decimal
	MarketPrice  decimal.Decimal
	MarketValue  decimal.Decimal
	AverageCost  decimal.Decimal
	UnrealizedPnL decimal.Decimal
}
