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

import "github.com/shopspring/decimal"

// AccountView is the single long-lived sink for account and portfolio
// updates. It is created once, at connect, by the initial ReqAccountData
// subscription and stays live for the connection's lifetime — unlike
// OrderTracker and Ticker it is never registered per-request.
type AccountView struct {
	accountCode cell[string]
	accountType cell[string]

	cashBalance         cell[decimal.Decimal]
	equityWithLoanValue cell[decimal.Decimal]
	excessLiquidity     cell[decimal.Decimal]
	netLiquidation      cell[decimal.Decimal]
	unrealizedPnL       cell[decimal.Decimal]
	realizedPnL         cell[decimal.Decimal]
	totalCashBalance    cell[decimal.Decimal]

	portfolio cell[[]Position]

	pendingPortfolio []Position
}

func newAccountView() *AccountView {
	return &AccountView{}
}

func (v *AccountView) AccountCode() (string, bool) { return v.accountCode.get() }
func (v *AccountView) AccountType() (string, bool) { return v.accountType.get() }

func (v *AccountView) CashBalance() (decimal.Decimal, bool)         { return v.cashBalance.get() }
func (v *AccountView) EquityWithLoanValue() (decimal.Decimal, bool) { return v.equityWithLoanValue.get() }
func (v *AccountView) ExcessLiquidity() (decimal.Decimal, bool)     { return v.excessLiquidity.get() }
func (v *AccountView) NetLiquidation() (decimal.Decimal, bool)      { return v.netLiquidation.get() }
func (v *AccountView) UnrealizedPnL() (decimal.Decimal, bool)       { return v.unrealizedPnL.get() }
func (v *AccountView) RealizedPnL() (decimal.Decimal, bool)         { return v.realizedPnL.get() }
func (v *AccountView) TotalCashBalance() (decimal.Decimal, bool)    { return v.totalCashBalance.get() }

// Portfolio returns the last fully-delivered batch of positions. A batch
// only replaces this value once the gateway signals AccountUpdateEnd; a
// batch still accumulating mid-stream is never visible here.
func (v *AccountView) Portfolio() []Position {
	p, ok := v.portfolio.get()
	if !ok {
		return nil
	}
	return p
}

// pushPortfolioRow accumulates one PortfolioValue frame into the pending
// batch; it is not visible via Portfolio() until endPortfolioBatch swaps
// it in.
func (v *AccountView) pushPortfolioRow(p Position) {
	v.pendingPortfolio = append(v.pendingPortfolio, p)
}

// endPortfolioBatch is called on AccountUpdateEnd: it swaps the
// accumulated rows into the visible Portfolio() and resets the pending
// batch for the next cycle.
func (v *AccountView) endPortfolioBatch() {
	v.portfolio.publish(v.pendingPortfolio)
	v.pendingPortfolio = nil
}

func (v *AccountView) apply(f Frame) {
	switch f.Kind {
	case FrameAccountCode:
		v.accountCode.publish(f.Text)
	case FrameAccountType:
		v.accountType.publish(f.Text)
	case FrameCashBalance:
		v.cashBalance.publish(f.ScalarValue)
	case FrameEquityWithLoanValue:
		v.equityWithLoanValue.publish(f.ScalarValue)
	case FrameExcessLiquidity:
		v.excessLiquidity.publish(f.ScalarValue)
	case FrameNetLiquidation:
		v.netLiquidation.publish(f.ScalarValue)
	case FrameUnrealizedPnL:
		v.unrealizedPnL.publish(f.ScalarValue)
	case FrameRealizedPnL:
		v.realizedPnL.publish(f.ScalarValue)
	case FrameTotalCashBalance:
		v.totalCashBalance.publish(f.ScalarValue)
	case FramePortfolioValue:
		v.pushPortfolioRow(f.Position)
	case FrameAccountUpdateEnd:
		v.endPortfolioBatch()
	}
}
