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

import "sync"

// cell holds the latest published value of one field. It is the Go
// stand-in for the original's watch channel: readers always see the most
// recent publish and never block on one.
type cell[T any] struct {
	mu   sync.RWMutex
	val  T
	seen bool
}

func (c *cell[T]) publish(v T) {
	c.mu.Lock()
	c.val = v
	c.seen = true
	c.mu.Unlock()
}

// get reports the latest value and whether anything has been published
// yet. Callers must check the bool: the zero value of T (e.g. a zero
// decimal.Decimal) can be a legitimate published value.
func (c *cell[T]) get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.val, c.seen
}

// queue is an append-only, snapshot-read log, used for executions and
// commission reports where every element matters and none are ever
// replaced.
type queue[T any] struct {
	mu    sync.Mutex
	items []T
}

func (q *queue[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

func (q *queue[T]) snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
