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

// Package ibclient is an asynchronous client for the IB TWS/Gateway wire
// protocol: one TCP connection carrying many concurrent logical
// conversations (market data, orders, account updates, historical data),
// demultiplexed by request id onto per-request sinks.
package ibclient

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/gurre/ibkr-go/ibclient/audit"
	"github.com/gurre/ibkr-go/ibproto"
	"github.com/gurre/ibkr-go/wire"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Client is a live connection to a TWS/Gateway instance. It owns three
// background tasks (writer, reader+router, heartbeat) that unwind
// together via a shared context: canceling the context (via Close, or a
// transport failure in any one task) brings all three down.
type Client struct {
	cfg    Config
	logger *slog.Logger

	conn net.Conn

	writeCh chan []byte
	router  *router
	metrics *metrics
	blotter *audit.Blotter

	serverVersion int

	nextReqID   atomic.Int64
	nextOrderID atomic.Int64

	cancel  context.CancelFunc
	group   *errgroup.Group
	groupCtx context.Context
}

// Connect dials host:port, performs the handshake, and starts the three
// background tasks. It sends the initial account-data subscription request
// and then blocks until the next-valid-order-id reply arrives; replies to
// the account-data subscription are not awaited before it returns.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	logger := cfg.logger()

	dialCtx, cancelDial := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancelDial()
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", cfg.addr())
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrTransport, cfg.addr(), err)
	}

	reader := bufio.NewReader(conn)
	serverVersion, err := handshake(conn, reader)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := newMetrics(reg)

	rt := newRouter(cfg.RegistrationQueueDepth, m, logger, nil)

	groupCtx, cancel := context.WithCancel(ctx)
	g, groupCtx := errgroup.WithContext(groupCtx)

	c := &Client{
		cfg:           cfg,
		logger:        logger,
		conn:          conn,
		writeCh:       make(chan []byte, cfg.WriteQueueDepth),
		router:        rt,
		metrics:       m,
		serverVersion: serverVersion,
		cancel:        cancel,
		group:         g,
		groupCtx:      groupCtx,
	}

	g.Go(func() error { return runWriter(groupCtx, conn, c.writeCh) })
	g.Go(func() error { return runReader(groupCtx, reader, rt) })
	g.Go(func() error { return runHeartbeat(groupCtx, cfg.HeartbeatInterval, c.writeCh) })

	if err := c.sendStartupRequests(); err != nil {
		_ = c.Close()
		return nil, err
	}

	orderID, err := c.reqIDs(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.nextOrderID.Store(orderID)

	logger.Info("ibclient connected", "addr", cfg.addr(), "server_version", serverVersion, "client_id", cfg.ClientID)
	return c, nil
}

// WithBlotter attaches a write-only diagnostics blotter to an already
// connected Client. It is never consulted by routing; it only receives a
// tee of parsed events for later offline inspection.
func (c *Client) WithBlotter(b *audit.Blotter) {
	c.router.blotter = b
	c.blotter = b
}

// handshake performs the "API\0" + version-range bootstrap and reads back
// the gateway's chosen server version, exactly mirroring the original's
// connect() framing: the initial token is written raw (no length prefix),
// but everything after it is length-prefixed like any other frame.
func handshake(conn net.Conn, reader *bufio.Reader) (int, error) {
	if err := wire.WriteRaw(conn, []byte(ibproto.HandshakePrefix)); err != nil {
		return 0, fmt.Errorf("%w: writing handshake prefix: %v", ErrHandshake, err)
	}
	versionRange := fmt.Sprintf("v%d..%d", ibproto.MinClientVersion, ibproto.MaxClientVersion)
	if err := wire.WriteFrame(conn, []byte(versionRange)); err != nil {
		return 0, fmt.Errorf("%w: writing version range: %v", ErrHandshake, err)
	}

	payload, err := wire.ReadFrame(reader)
	if err != nil {
		return 0, fmt.Errorf("%w: reading server version: %v", ErrHandshake, err)
	}
	fields := wire.SplitFields(payload)
	version, ok := wire.DecodeInt(wire.Field(fields, 0))
	if !ok {
		return 0, fmt.Errorf("%w: malformed server version frame", ErrHandshake)
	}
	return version, nil
}

func (c *Client) sendStartupRequests() error {
	startAPI := wire.EncodeInt(ibproto.OutStartApi) +
		wire.EncodeInt(2) +
		wire.EncodeInt64(c.cfg.ClientID) +
		wire.EncodeString(c.cfg.OptionalCapabilities)
	if err := enqueueWrite(c.writeCh, []byte(startAPI)); err != nil {
		return err
	}

	reqAcctData := wire.EncodeInt(ibproto.OutReqAccountData) +
		wire.EncodeInt(2) +
		wire.EncodeBool(true) +
		wire.Empty()
	return enqueueWrite(c.writeCh, []byte(reqAcctData))
}

// reqIDs performs the initial ReqIds(1) call, registering a FIFO waiter
// before sending so the unsolicited (request-id-less) NextValidID reply
// cannot arrive before something is waiting for it.
func (c *Client) reqIDs(ctx context.Context) (int64, error) {
	ch := make(chan int64, 1)
	if err := c.router.register(registration{kind: regOrderID, orderIDCh: ch}); err != nil {
		return 0, err
	}
	payload := wire.EncodeInt(ibproto.OutReqIds) + wire.EncodeInt(ibproto.LegacyVersion) + wire.EncodeInt(1)
	if err := enqueueWrite(c.writeCh, []byte(payload)); err != nil {
		return 0, err
	}
	select {
	case id := <-ch:
		return id, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// NextRequestID returns a fresh, monotonically increasing request id for
// use in a façade call's registration.
func (c *Client) NextRequestID() int64 {
	return c.nextReqID.Add(1)
}

// NextOrderID returns the next order id, seeded once at connect by the
// gateway's NextValidID reply and incremented locally for every order
// placed after that.
func (c *Client) NextOrderID() int64 {
	return c.nextOrderID.Add(1)
}

// Account returns the connection-lifetime account and portfolio sink.
func (c *Client) Account() *AccountView {
	return c.router.account
}

// Close cancels the shared context, closes the write queue, and closes the
// socket so a reader blocked on it returns, then waits for all three
// background tasks to exit. The single context cancel signals all three
// tasks at once; no order among heartbeat, writer and reader is enforced.
func (c *Client) Close() error {
	c.cancel()
	close(c.writeCh)
	closeErr := c.conn.Close()
	err := c.group.Wait()
	if c.blotter != nil {
		_ = c.blotter.Close()
	}
	if err != nil {
		return err
	}
	return closeErr
}

// send is the shared registration-then-write helper every one-shot façade
// call uses: it registers the delivery channel with the router before
// putting the request bytes on the writer's queue, so a reply racing in
// immediately after the send can never be missed.
func (c *Client) send(ctx context.Context, reqID int64, payload string, timeout time.Duration) (Frame, error) {
	deliver := make(chan Frame, 1)
	if err := c.router.register(registration{kind: regOneShot, reqID: reqID, deliver: deliver}); err != nil {
		return Frame{}, err
	}
	if err := enqueueWrite(c.writeCh, []byte(payload)); err != nil {
		return Frame{}, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f := <-deliver:
		return f, nil
	case <-timer.C:
		c.metrics.timedOut()
		c.router.cancelOneShot(reqID)
		return Frame{}, fmt.Errorf("ibclient: request %d timed out after %s", reqID, timeout)
	case <-ctx.Done():
		c.router.cancelOneShot(reqID)
		return Frame{}, ctx.Err()
	case <-c.groupCtx.Done():
		c.router.cancelOneShot(reqID)
		return Frame{}, ErrClientClosed
	}
}
