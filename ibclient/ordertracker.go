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

// OrderTracker is the live sink for one placed order: the router publishes
// every OpenOrder/OrderStatus/Execution/CommissionReport frame addressed to
// this order's id into it for the lifetime of the order.
type OrderTracker struct {
	orderID int64

	order  cell[Order]
	state  cell[OrderState]
	status cell[string]

	executions  queue[Execution]
	commissions queue[CommissionReport]

	lastErr cell[*ServerError]
}

func newOrderTracker(orderID int64) *OrderTracker {
	return &OrderTracker{orderID: orderID}
}

// OrderID is the id this tracker was registered under.
func (t *OrderTracker) OrderID() int64 { return t.orderID }

// Order returns the last-known order description, if any OpenOrder frame
// has arrived yet.
func (t *OrderTracker) Order() (Order, bool) { return t.order.get() }

// State returns the latest OrderState snapshot (status, filled, remaining,
// average fill price).
func (t *OrderTracker) State() (OrderState, bool) { return t.state.get() }

// Status is a convenience accessor over State().Status, matching the
// common "is it Filled yet" poll.
func (t *OrderTracker) Status() (string, bool) { return t.status.get() }

// Executions returns every fill recorded against this order so far.
func (t *OrderTracker) Executions() []Execution { return t.executions.snapshot() }

// Commissions returns every commission report correlated to this order's
// executions so far.
func (t *OrderTracker) Commissions() []CommissionReport { return t.commissions.snapshot() }

func (t *OrderTracker) onOpenOrder(f Frame) {
	t.order.publish(f.Order)
	t.state.publish(f.OrderState)
	t.status.publish(f.OrderState.Status)
}

func (t *OrderTracker) onOrderStatus(f Frame) {
	t.state.publish(f.OrderState)
	t.status.publish(f.OrderState.Status)
}

func (t *OrderTracker) onExecution(exec Execution) {
	t.executions.push(exec)
}

func (t *OrderTracker) onCommissionReport(rep CommissionReport) {
	t.commissions.push(rep)
}

// Err returns the most recent gateway error reported against this order's
// id, if any.
func (t *OrderTracker) Err() (*ServerError, bool) { return t.lastErr.get() }

func (t *OrderTracker) onError(code int, text string) {
	t.lastErr.publish(&ServerError{ID: t.orderID, Code: code, Text: text})
}
