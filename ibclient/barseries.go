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

import "sort"

// BarSeries is the one-shot batch reply to ReqHistoricalData /
// ReqAdjHistoricalData: every bar carried by the gateway's single
// historical-data frame, sorted ascending by time.
type BarSeries struct {
	Bars []Bar
}

func (b BarSeries) Len() int { return len(b.Bars) }

func (b *BarSeries) sortAscending() {
	sort.Slice(b.Bars, func(i, j int) bool {
		return b.Bars[i].Time.Before(b.Bars[j].Time)
	})
}
