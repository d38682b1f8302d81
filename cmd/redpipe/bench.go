// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/redpipe/redpipe/logger"
	"github.com/redpipe/redpipe/resp"
	"github.com/redpipe/redpipe/transport"
)

var (
	benchAddr        string
	benchCount       int
	benchConcurrency int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure pipelined PING throughput against a server",
	Run: func(cmd *cobra.Command, args []string) {
		tr := transport.New(transport.Options{Addr: benchAddr, Logger: logger.Nop()})
		if err := tr.Connect(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
			os.Exit(1)
		}
		defer tr.Disconnect()

		ping := resp.ArrayOf([]resp.Value{resp.BulkString([]byte("PING"))})

		// Submit is never blocking, so nothing upstream of the transport
		// bounds memory growth on its own; a buffered-channel semaphore
		// caps how many requests this run keeps in flight at once.
		sem := make(chan struct{}, benchConcurrency)
		handles := make([]*transport.Handle, benchCount)

		start := time.Now()
		for i := range handles {
			sem <- struct{}{}
			h := tr.Submit(ping)
			handles[i] = h
			go func() {
				<-h.Done()
				<-sem
			}()
		}
		for _, h := range handles {
			_, err := h.Await(context.Background())
			if err != nil {
				fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
				os.Exit(1)
			}
		}
		elapsed := time.Since(start)

		fmt.Printf("%d requests in %s (%.0f req/s)\n", benchCount, elapsed, float64(benchCount)/elapsed.Seconds())
	},
}

func init() {
	benchCmd.Flags().StringVar(&benchAddr, "addr", "127.0.0.1:6379", "Address to connect to")
	benchCmd.Flags().IntVar(&benchCount, "count", 10000, "Number of pipelined PINGs to send")
	benchCmd.Flags().IntVar(&benchConcurrency, "concurrency", 1000, "Maximum in-flight requests")
	rootCmd.AddCommand(benchCmd)
}
