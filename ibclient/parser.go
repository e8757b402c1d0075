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

	"github.com/gurre/ibkr-go/ibproto"
	"github.com/gurre/ibkr-go/wire"
)

// parseFrame turns one inbound payload into a typed Frame. It never
// returns an error: an empty payload or one of an unrecognized kind becomes
// a FrameUnknown so the router can log and drop it rather than stall the
// reader loop on a single bad message. A recognized kind is not checked for
// malformed content: fields that are missing or do not parse are left at
// their zero values in the returned Frame.
func parseFrame(payload []byte) Frame {
	fields := wire.SplitFields(payload)
	if len(fields) == 0 {
		return Frame{Kind: FrameUnknown}
	}
	kind, _ := wire.DecodeInt(fields[0])

	switch kind {
	case ibproto.InAcctValue:
		return parseAcctValue(fields)
	case ibproto.InPortfolioValue:
		return parsePortfolioValue(fields)
	case ibproto.InAcctDownloadEnd:
		return Frame{Kind: FrameAccountUpdateEnd, ReqID: -1}
	case ibproto.InCurrentTime:
		sec, _ := wire.DecodeInt64(wire.Field(fields, 2))
		return Frame{Kind: FrameCurrentTime, ReqID: -1, Time: time.Unix(sec, 0)}
	case ibproto.InNextValidID:
		id, _ := wire.DecodeInt64(wire.Field(fields, 2))
		return Frame{Kind: FrameNextValidID, ReqID: -1, OrderID: id}
	case ibproto.InContractData:
		return parseContractData(fields)
	case ibproto.InContractDataEnd:
		reqID, _ := wire.DecodeInt64(wire.Field(fields, 2))
		return Frame{Kind: FrameContractDetailsEnd, ReqID: reqID}
	case ibproto.InOpenOrder:
		return parseOpenOrder(fields)
	case ibproto.InOrderStatus:
		return parseOrderStatus(fields)
	case ibproto.InExecutionData:
		return parseExecution(fields)
	case ibproto.InCommissionReport:
		return parseCommissionReport(fields)
	case ibproto.InTickPrice:
		return parseTickPrice(fields)
	case ibproto.InTickSize:
		return parseTickSize(fields)
	case ibproto.InTickGeneric, ibproto.InTickString:
		return parseGenericTick(fields)
	case ibproto.InHistoricalData:
		return parseHistoricalData(fields)
	case ibproto.InErrMsg:
		return parseErrMsg(fields)
	default:
		return Frame{Kind: FrameUnknown}
	}
}

// parseAcctValue dispatches an AcctValue (msg 6) frame to the typed scalar
// Frame variant its key selects, mirroring the original's already-typed
// IBFrame account variants.
func parseAcctValue(fields []string) Frame {
	key := wire.Field(fields, 2)
	value := wire.Field(fields, 3)
	currency := wire.Field(fields, 4)
	accountName := wire.Field(fields, 5)

	base := Frame{ReqID: -1, AccountName: accountName, Currency: currency}

	switch key {
	case ibproto.AcctKeyAccountCode:
		base.Kind = FrameAccountCode
		base.Text = value
		return base
	case ibproto.AcctKeyAccountType:
		base.Kind = FrameAccountType
		base.Text = value
		return base
	case ibproto.AcctKeyCashBalance:
		base.Kind = FrameCashBalance
	case ibproto.AcctKeyEquityWithLoanValue:
		base.Kind = FrameEquityWithLoanValue
	case ibproto.AcctKeyExcessLiquidity:
		base.Kind = FrameExcessLiquidity
	case ibproto.AcctKeyNetLiquidation:
		base.Kind = FrameNetLiquidation
	case ibproto.AcctKeyUnrealizedPnL:
		base.Kind = FrameUnrealizedPnL
	case ibproto.AcctKeyRealizedPnL:
		base.Kind = FrameRealizedPnL
	case ibproto.AcctKeyTotalCashBalance:
		base.Kind = FrameTotalCashBalance
	default:
		return Frame{Kind: FrameUnknown}
	}
	if d, ok := wire.DecodeDecimal(value); ok {
		base.ScalarValue = d
	}
	return base
}

func parsePortfolioValue(fields []string) Frame {
	symbol := wire.Field(fields, 3)
	secType := wire.Field(fields, 2)

	pos, _ := wire.DecodeDecimal(wire.Field(fields, 7))
	mktPrice, _ := wire.DecodeDecimal(wire.Field(fields, 8))
	mktValue, _ := wire.DecodeDecimal(wire.Field(fields, 9))
	avgCost, _ := wire.DecodeDecimal(wire.Field(fields, 10))
	unrealized, _ := wire.DecodeDecimal(wire.Field(fields, 11))
	currency := wire.Field(fields, 13)

	return Frame{
		Kind:  FramePortfolioValue,
		ReqID: -1,
		Position: Position{
			Contract:      Contract{Symbol: symbol, SecType: SecType(secType), Currency: currency},
			Position:      pos,
			MarketPrice:   mktPrice,
			MarketValue:   mktValue,
			AverageCost:   avgCost,
			UnrealizedPnL: unrealized,
		},
	}
}

func parseContractData(fields []string) Frame {
	reqID, _ := wire.DecodeInt64(wire.Field(fields, 2))
	symbol := wire.Field(fields, 3)
	secType := wire.Field(fields, 4)
	exchange := wire.Field(fields, 8)
	currency := wire.Field(fields, 9)
	marketName := wire.Field(fields, 6)
	longName := wire.Field(fields, 20)
	minTick, _ := wire.DecodeDecimal(wire.Field(fields, 12))

	return Frame{
		Kind:  FrameContractDetails,
		ReqID: reqID,
		ContractDetails: ContractDetails{
			Contract: Contract{
				Symbol:   symbol,
				SecType:  SecType(secType),
				Exchange: exchange,
				Currency: currency,
			},
			MarketName: marketName,
			LongName:   longName,
			MinTick:    minTick,
		},
	}
}

func parseOpenOrder(fields []string) Frame {
	orderID, _ := wire.DecodeInt64(wire.Field(fields, 1))
	symbol := wire.Field(fields, 2)
	action := wire.Field(fields, 6)
	totalQty, _ := wire.DecodeDecimal(wire.Field(fields, 7))
	orderType := wire.Field(fields, 8)
	limitPrice, _ := wire.DecodeDecimal(wire.Field(fields, 9))
	status := wire.Field(fields, 16)

	return Frame{
		Kind:    FrameOpenOrder,
		ReqID:   -1,
		OrderID: orderID,
		Order: Order{
			Action:     Action(action),
			OrderType:  OrderType(orderType),
			TotalQty:   totalQty,
			LimitPrice: limitPrice,
		},
		OrderState: OrderState{Status: status},
		ContractDetails: ContractDetails{
			Contract: Contract{Symbol: symbol},
		},
	}
}

func parseOrderStatus(fields []string) Frame {
	orderID, _ := wire.DecodeInt64(wire.Field(fields, 1))
	status := wire.Field(fields, 2)
	filled, _ := wire.DecodeDecimal(wire.Field(fields, 3))
	remaining, _ := wire.DecodeDecimal(wire.Field(fields, 4))
	avgFillPx, _ := wire.DecodeDecimal(wire.Field(fields, 5))

	return Frame{
		Kind:    FrameOrderStatus,
		ReqID:   -1,
		OrderID: orderID,
		OrderState: OrderState{
			Status:    status,
			Filled:    filled,
			Remaining: remaining,
			AvgFillPx: avgFillPx,
		},
	}
}

func parseExecution(fields []string) Frame {
	reqID, _ := wire.DecodeInt64(wire.Field(fields, 1))
	orderID, _ := wire.DecodeInt64(wire.Field(fields, 3))
	execID := wire.Field(fields, 5)
	side := wire.Field(fields, 7)
	shares, _ := wire.DecodeDecimal(wire.Field(fields, 8))
	price, _ := wire.DecodeDecimal(wire.Field(fields, 9))

	return Frame{
		Kind:  FrameExecution,
		ReqID: reqID,
		Execution: Execution{
			ExecID:  execID,
			OrderID: orderID,
			Side:    Action(side),
			Shares:  shares,
			Price:   price,
		},
	}
}

func parseCommissionReport(fields []string) Frame {
	execID := wire.Field(fields, 2)
	commission, _ := wire.DecodeDecimal(wire.Field(fields, 3))
	currency := wire.Field(fields, 4)
	realizedPnL, _ := wire.DecodeDecimal(wire.Field(fields, 5))

	return Frame{
		Kind:  FrameCommissionReport,
		ReqID: -1,
		Commission: CommissionReport{
			ExecID:      execID,
			Commission:  commission,
			Currency:    currency,
			RealizedPnL: realizedPnL,
		},
	}
}

func parseTickPrice(fields []string) Frame {
	reqID, _ := wire.DecodeInt64(wire.Field(fields, 2))
	tickType, _ := wire.DecodeInt(wire.Field(fields, 3))
	price, _ := wire.DecodeDecimal(wire.Field(fields, 4))
	return Frame{Kind: FramePriceTick, ReqID: reqID, TickType: tickType, Price: price}
}

func parseTickSize(fields []string) Frame {
	reqID, _ := wire.DecodeInt64(wire.Field(fields, 2))
	tickType, _ := wire.DecodeInt(wire.Field(fields, 3))
	size, _ := wire.DecodeDecimal(wire.Field(fields, 4))
	return Frame{Kind: FrameSizeTick, ReqID: reqID, TickType: tickType, Size: size}
}

func parseGenericTick(fields []string) Frame {
	reqID, _ := wire.DecodeInt64(wire.Field(fields, 2))
	tickType, _ := wire.DecodeInt(wire.Field(fields, 3))
	value, _ := wire.DecodeDecimal(wire.Field(fields, 4))
	return Frame{Kind: FrameGenericTick, ReqID: reqID, TickType: tickType, Size: value}
}

// parseHistoricalData parses the whole reply to ReqHistoricalData /
// ReqAdjHistoricalData in one pass: unlike ContractDetails, the gateway
// bundles the entire bar series plus its own terminal marker into a
// single frame, so there is no separate "end" frame to wait for.
func parseHistoricalData(fields []string) Frame {
	reqID, _ := wire.DecodeInt64(wire.Field(fields, 2))
	itemCount, _ := wire.DecodeInt(wire.Field(fields, 5))

	const fieldsPerBar = 9
	bars := make([]Bar, 0, itemCount)
	base := 6
	for i := 0; i < itemCount; i++ {
		off := base + i*fieldsPerBar
		t, _ := wire.DecodeTime(wire.Field(fields, off), time.UTC)
		open, _ := wire.DecodeDecimal(wire.Field(fields, off+1))
		high, _ := wire.DecodeDecimal(wire.Field(fields, off+2))
		low, _ := wire.DecodeDecimal(wire.Field(fields, off+3))
		close_, _ := wire.DecodeDecimal(wire.Field(fields, off+4))
		volume, _ := wire.DecodeDecimal(wire.Field(fields, off+5))
		bars = append(bars, Bar{
			Time:   t,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close_,
			Volume: volume,
		})
	}

	return Frame{Kind: FrameHistoricalData, ReqID: reqID, Bars: bars}
}

func parseErrMsg(fields []string) Frame {
	reqID, _ := wire.DecodeInt64(wire.Field(fields, 2))
	code, _ := wire.DecodeInt(wire.Field(fields, 3))
	text := wire.Field(fields, 4)
	return Frame{Kind: FrameErrMsg, ReqID: reqID, ErrCode: code, ErrText: text}
}
