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
	"errors"
	"strconv"
)

// ErrorKind classifies a client-level error into the taxonomy the façade
// and caller both need to branch on: is this retryable transport noise, a
// handshake/version problem, a gateway-reported business error, or a bug
// where the delivered Frame didn't match what the caller asked for.
type ErrorKind int

const (
	ErrorKindTransport ErrorKind = iota
	ErrorKindHandshake
	ErrorKindProtocolMismatch
	ErrorKindServer
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindHandshake:
		return "handshake"
	case ErrorKindProtocolMismatch:
		return "protocol_mismatch"
	case ErrorKindServer:
		return "server"
	default:
		return "unknown"
	}
}

var (
	// ErrTransport wraps I/O failures on the underlying socket.
	ErrTransport = errors.New("ibclient: transport error")

	// ErrHandshake covers anything that goes wrong negotiating the
	// "API\0" / version-range / StartApi exchange.
	ErrHandshake = errors.New("ibclient: handshake failed")

	// ErrProtocolMismatch is returned when a façade operation's pending
	// request is fulfilled by a Frame of a different Kind than expected,
	// mirroring the original's "Invalid response type!" condition.
	ErrProtocolMismatch = errors.New("ibclient: unexpected response frame")

	// ErrServer wraps an ErrMsg frame delivered by the gateway in response
	// to a specific request.
	ErrServer = errors.New("ibclient: gateway reported an error")

	// ErrRegistrationQueueFull is returned by a façade call when the
	// router's registration channel is saturated. The router never blocks
	// on registration; callers see this instead of an indefinite stall.
	ErrRegistrationQueueFull = errors.New("ibclient: registration queue full")

	// ErrWriteQueueFull is returned when the writer task's outbound queue
	// is saturated.
	ErrWriteQueueFull = errors.New("ibclient: write queue full")

	// ErrClientClosed is returned by any façade call made after the
	// client's background tasks have unwound.
	ErrClientClosed = errors.New("ibclient: client closed")
)

// ServerError wraps a gateway-reported ErrMsg frame with its code and text,
// satisfying errors.Is(err, ErrServer). ID is whichever correlation id the
// gateway attached the error to — a request id for a one-shot call, or an
// order id when the error was routed to a live OrderTracker.
type ServerError struct {
	ID   int64
	Code int
	Text string
}

func (e *ServerError) Error() string {
	return "ibclient: gateway error " + strconv.Itoa(e.Code) + ": " + e.Text
}

func (e *ServerError) Unwrap() error {
	return ErrServer
}
