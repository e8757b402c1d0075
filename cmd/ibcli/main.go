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

// Command ibcli is a thin manual-test harness: connect to a local
// Gateway/TWS instance, print the account summary, and exit. It is not a
// REPL or a trading tool; it exists to exercise ibclient against a real
// gateway during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gurre/ibkr-go/ibclient"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML ibclient.Config file")
		host       = flag.String("host", "127.0.0.1", "gateway host")
		port       = flag.Int("port", 4002, "gateway port")
		clientID   = flag.Int64("client-id", 1, "API client id")
	)
	flag.Parse()

	cfg := ibclient.NewConfig(*host, *port, *clientID)
	if *configPath != "" {
		loaded, err := ibclient.LoadConfigFile(*configPath)
		if err != nil {
			slog.Error("loading config file", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := ibclient.Connect(ctx, cfg)
	if err != nil {
		slog.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	time.Sleep(2 * time.Second)

	acct := client.Account()
	netLiq, _ := acct.NetLiquidation()
	cash, _ := acct.CashBalance()
	fmt.Printf("net liquidation: %s\ncash balance: %s\npositions: %d\n", netLiq, cash, len(acct.Portfolio()))
}
