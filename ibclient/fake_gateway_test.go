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
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gurre/ibkr-go/ibproto"
	"github.com/gurre/ibkr-go/wire"
)

// fakeGateway is a minimal in-process stand-in for a TWS/Gateway instance,
// just enough of the wire protocol to drive Client through the connect
// handshake and answer one scripted request per test.
type fakeGateway struct {
	t        *testing.T
	listener net.Listener
	conn     net.Conn
	reader   *bufio.Reader
}

func startFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return &fakeGateway{t: t, listener: l}
}

func (g *fakeGateway) addr() string {
	return g.listener.Addr().String()
}

func (g *fakeGateway) port() int {
	return g.listener.Addr().(*net.TCPAddr).Port
}

// acceptAndHandshake accepts one connection and performs the bootstrap
// exchange: read "API\0" + version range, write back a server version
// frame, then drain the StartApi, ReqAccountData, and ReqIds frames,
// answering ReqIds with orderID.
func (g *fakeGateway) acceptAndHandshake(orderID int64) {
	conn, err := g.listener.Accept()
	if err != nil {
		g.t.Fatalf("accept: %v", err)
	}
	g.conn = conn
	g.reader = bufio.NewReader(conn)

	prefix := make([]byte, len(ibproto.HandshakePrefix))
	if _, err := ioReadFull(g.reader, prefix); err != nil {
		g.t.Fatalf("reading handshake prefix: %v", err)
	}
	if string(prefix) != ibproto.HandshakePrefix {
		g.t.Fatalf("got handshake prefix %q, want %q", prefix, ibproto.HandshakePrefix)
	}
	if _, err := wire.ReadFrame(g.reader); err != nil {
		g.t.Fatalf("reading version range: %v", err)
	}
	if err := wire.WriteFrame(g.conn, []byte("176\x0020230101 00:00:00 EST\x00")); err != nil {
		g.t.Fatalf("writing server version: %v", err)
	}

	// StartApi
	if _, err := wire.ReadFrame(g.reader); err != nil {
		g.t.Fatalf("reading StartApi: %v", err)
	}
	// ReqAccountData
	if _, err := wire.ReadFrame(g.reader); err != nil {
		g.t.Fatalf("reading ReqAccountData: %v", err)
	}
	// ReqIds
	if _, err := wire.ReadFrame(g.reader); err != nil {
		g.t.Fatalf("reading ReqIds: %v", err)
	}
	nextValidID := wire.EncodeInt(ibproto.InNextValidID) + wire.EncodeInt(1) + wire.EncodeInt64(orderID)
	if err := wire.WriteFrame(g.conn, []byte(nextValidID)); err != nil {
		g.t.Fatalf("writing NextValidID: %v", err)
	}
}

// readRequest reads and field-splits the next frame sent by the client.
func (g *fakeGateway) readRequest() []string {
	payload, err := wire.ReadFrame(g.reader)
	if err != nil {
		g.t.Fatalf("reading request: %v", err)
	}
	return wire.SplitFields(payload)
}

func (g *fakeGateway) send(fields ...string) {
	if err := wire.WriteFrame(g.conn, []byte(strings.Join(fields, "\x00")+"\x00")); err != nil {
		g.t.Fatalf("writing frame: %v", err)
	}
}

func (g *fakeGateway) close() {
	if g.conn != nil {
		_ = g.conn.Close()
	}
	_ = g.listener.Close()
}

func ioReadFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

const testConnectTimeout = 5 * time.Second
