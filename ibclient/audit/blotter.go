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

// Package audit provides a write-only SQLite diagnostics blotter. It exists
// for offline inspection after a session ends: nothing in ibclient ever
// queries it back, so it carries no session state across runs.
package audit

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Blotter records parsed events for later offline analysis. Prepared
// statements are initialized once and reused for every insert, avoiding
// SQL parsing overhead on the router's hot path.
type Blotter struct {
	db *sql.DB

	stmtOrderStatus *sql.Stmt
	stmtExecution   *sql.Stmt
	stmtCommission  *sql.Stmt
	stmtContract    *sql.Stmt
	stmtBar         *sql.Stmt

	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS order_status (
	recorded_at TEXT, order_id INTEGER, status TEXT, filled TEXT, remaining TEXT, avg_fill_px TEXT
);
CREATE TABLE IF NOT EXISTS executions (
	recorded_at TEXT, exec_id TEXT, order_id INTEGER, side TEXT, shares TEXT, price TEXT
);
CREATE TABLE IF NOT EXISTS commission_reports (
	recorded_at TEXT, exec_id TEXT, commission TEXT, currency TEXT, realized_pnl TEXT
);
CREATE TABLE IF NOT EXISTS contract_details (
	recorded_at TEXT, req_id INTEGER, symbol TEXT, sec_type TEXT, exchange TEXT, currency TEXT
);
CREATE TABLE IF NOT EXISTS bars (
	recorded_at TEXT, req_id INTEGER, bar_time TEXT, open TEXT, high TEXT, low TEXT, close TEXT, volume TEXT
);
`

const (
	insertOrderStatusQuery = `INSERT INTO order_status (recorded_at, order_id, status, filled, remaining, avg_fill_px) VALUES (?, ?, ?, ?, ?, ?)`
	insertExecutionQuery   = `INSERT INTO executions (recorded_at, exec_id, order_id, side, shares, price) VALUES (?, ?, ?, ?, ?, ?)`
	insertCommissionQuery  = `INSERT INTO commission_reports (recorded_at, exec_id, commission, currency, realized_pnl) VALUES (?, ?, ?, ?, ?)`
	insertContractQuery    = `INSERT INTO contract_details (recorded_at, req_id, symbol, sec_type, exchange, currency) VALUES (?, ?, ?, ?, ?, ?)`
	insertBarQuery         = `INSERT INTO bars (recorded_at, req_id, bar_time, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// Open opens (creating if necessary) a SQLite blotter at dbPath.
func Open(dbPath string, logger *slog.Logger) (*Blotter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("audit: opening blotter: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: initializing schema: %w", err)
	}

	b := &Blotter{db: db, logger: logger}
	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&b.stmtOrderStatus, insertOrderStatusQuery},
		{&b.stmtExecution, insertExecutionQuery},
		{&b.stmtCommission, insertCommissionQuery},
		{&b.stmtContract, insertContractQuery},
		{&b.stmtBar, insertBarQuery},
	}
	for _, s := range stmts {
		stmt, err := db.Prepare(s.query)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("audit: preparing statement: %w", err)
		}
		*s.dst = stmt
	}

	logger.Info("audit blotter opened", "path", dbPath)
	return b, nil
}

func (b *Blotter) Close() error {
	for _, s := range []*sql.Stmt{b.stmtOrderStatus, b.stmtExecution, b.stmtCommission, b.stmtContract, b.stmtBar} {
		if s != nil {
			_ = s.Close()
		}
	}
	return b.db.Close()
}

func (b *Blotter) RecordOrderStatus(orderID int64, status, filled, remaining, avgFillPx string) {
	if _, err := b.stmtOrderStatus.Exec(now(), orderID, status, filled, remaining, avgFillPx); err != nil {
		b.logger.Warn("audit: recording order status failed", "error", err)
	}
}

func (b *Blotter) RecordExecution(execID string, orderID int64, side, shares, price string) {
	if _, err := b.stmtExecution.Exec(now(), execID, orderID, side, shares, price); err != nil {
		b.logger.Warn("audit: recording execution failed", "error", err)
	}
}

func (b *Blotter) RecordCommissionReport(execID, commission, currency, realizedPnL string) {
	if _, err := b.stmtCommission.Exec(now(), execID, commission, currency, realizedPnL); err != nil {
		b.logger.Warn("audit: recording commission report failed", "error", err)
	}
}

func (b *Blotter) RecordContractDetails(reqID int64, symbol, secType, exchange, currency string) {
	if _, err := b.stmtContract.Exec(now(), reqID, symbol, secType, exchange, currency); err != nil {
		b.logger.Warn("audit: recording contract details failed", "error", err)
	}
}

func (b *Blotter) RecordBar(reqID int64, barTime, open, high, low, close_, volume string) {
	if _, err := b.stmtBar.Exec(now(), reqID, barTime, open, high, low, close_, volume); err != nil {
		b.logger.Warn("audit: recording bar failed", "error", err)
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
