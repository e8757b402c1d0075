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

// Package ibproto carries the wire-level constants for the TWS/Gateway API:
// incoming and outgoing message-kind integers, tick-type codes, and the
// protocol version range advertised during the handshake.
package ibproto

// --- Handshake / protocol version range ---
const (
	MinClientVersion = 100
	MaxClientVersion = 151

	// HandshakePrefix is written raw, without a length prefix, before the
	// version-range string.
	HandshakePrefix = "API\x00"
)

// --- Outgoing message kinds (client -> gateway) ---
const (
	OutReqMktData         = 1
	OutCancelMktData      = 2
	OutPlaceOrder         = 3
	OutCancelOrder        = 4
	OutReqOpenOrders      = 5
	OutReqAccountData     = 6
	OutReqExecutions      = 7
	OutReqIds             = 8
	OutReqContractData    = 9
	OutReqMktDepth        = 10
	OutCancelMktDepth     = 11
	OutReqNewsBulletins   = 12
	OutCancelNewsBulletin = 13
	OutReqAllOpenOrders   = 16
	OutReqManagedAccts    = 17
	OutReqHistoricalData  = 20
	OutCancelHistData     = 25
	OutReqCurrentTime     = 49
	OutReqRealTimeBars    = 50
	OutCancelRealTimeBars = 51
	OutReqGlobalCancel    = 58
	OutReqMarketDataType  = 59
	OutReqPositions       = 61
	OutReqAccountSummary  = 62
	OutCancelAccountSumm  = 63
	OutCancelPositions    = 64
	OutStartApi           = 71
)

// LegacyVersion is the per-message version field that precedes the body of
// legacy (pre-v100) outgoing messages. Most outgoing message kinds the core
// builds use this version 1; StartApi and ReqAccountData (version 2),
// ReqMktData (version 11) and ReqHistoricalData (version 6) carry their
// own version inline at the call site.
const LegacyVersion = 1

// --- Incoming message kinds (gateway -> client) ---
const (
	InTickPrice               = 1
	InTickSize                = 2
	InOrderStatus             = 3
	InErrMsg                  = 4
	InOpenOrder               = 5
	InAcctValue               = 6
	InPortfolioValue          = 7
	InAcctUpdateTime          = 8
	InNextValidID             = 9
	InContractData            = 10
	InExecutionData           = 11
	InMarketDepth             = 12
	InMarketDepthL2           = 13
	InNewsBulletins           = 14
	InManagedAccts            = 15
	InHistoricalData          = 17
	InBondContractData        = 18
	InTickGeneric             = 45
	InTickString              = 46
	InTickEFP                 = 47
	InCurrentTime             = 49
	InRealtimeBars            = 50
	InContractDataEnd         = 52
	InOpenOrderEnd            = 53
	InAcctDownloadEnd         = 54
	InExecutionDataEnd        = 55
	InTickSnapshotEnd         = 57
	InMarketDataType          = 58
	InCommissionReport        = 59
	InPositionData            = 61
	InPositionEnd             = 62
	InAccountSummary          = 63
	InAccountSummaryEnd       = 64
)

// --- Account value keys (the "key" field of an AcctValue / msg 6 frame) ---
const (
	AcctKeyAccountCode         = "AccountCode"
	AcctKeyAccountType         = "AccountType"
	AcctKeyCashBalance         = "CashBalance"
	AcctKeyEquityWithLoanValue = "EquityWithLoanValue"
	AcctKeyExcessLiquidity     = "ExcessLiquidity"
	AcctKeyNetLiquidation      = "NetLiquidationByCurrency"
	AcctKeyUnrealizedPnL       = "UnrealizedPnL"
	AcctKeyRealizedPnL         = "RealizedPnL"
	AcctKeyTotalCashBalance    = "TotalCashBalance"
)

// --- Tick type codes (the integer preceding the value in tick frames) ---
const (
	TickBid              = 1
	TickAsk              = 2
	TickLast             = 4
	TickBidSize          = 0
	TickAskSize          = 3
	TickLastSize         = 5
	TickHigh             = 6
	TickLow              = 7
	TickVolume           = 8
	TickClose            = 9
	TickOpen             = 14
	TickShortable        = 46
	TickHalted           = 49
	TickShortableShares  = 89
	TickDelayedBid       = 66
	TickDelayedAsk       = 67
	TickDelayedLast      = 68
	TickDelayedBidSize   = 69
	TickDelayedAskSize   = 70
	TickDelayedLastSize  = 71
)

// MarketDataType mirrors the TWS REQ_MARKET_DATA_TYPE argument.
type MarketDataType int

const (
	MarketDataRealtime MarketDataType = iota + 1
	MarketDataFrozen
	MarketDataDelayed
	MarketDataDelayedFrozen
)

// GenericTickType is an additional tick list entry a market data request can
// ask the gateway to stream alongside the default tick set.
type GenericTickType string

const (
	GenericTickShortableData GenericTickType = "236"
	GenericTickFundamentals  GenericTickType = "258"
	GenericTickRTVolume      GenericTickType = "233"
)

// WhatToShow enumerates the historical-data "show" argument.
type WhatToShow string

const (
	WhatToShowTrades   WhatToShow = "TRADES"
	WhatToShowMidpoint WhatToShow = "MIDPOINT"
	WhatToShowBid      WhatToShow = "BID"
	WhatToShowAsk      WhatToShow = "ASK"
	WhatToShowAdjLast  WhatToShow = "ADJUSTED_LAST"
)
