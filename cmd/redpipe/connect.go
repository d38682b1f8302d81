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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redpipe/redpipe/logger"
	"github.com/redpipe/redpipe/resp"
	"github.com/redpipe/redpipe/transport"
)

var connectAddr string

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Open an interactive pipelined RESP session",
	Run: func(cmd *cobra.Command, args []string) {
		tr := transport.New(transport.Options{Addr: connectAddr, Logger: logger.Nop()})
		if err := tr.Connect(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
			os.Exit(1)
		}
		defer tr.Disconnect()

		fmt.Printf("connected to %s, type a command per line (e.g. \"GET foo\"), Ctrl-D to quit\n", connectAddr)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			fields := strings.Fields(line)
			elems := make([]resp.Value, len(fields))
			for i, f := range fields {
				elems[i] = resp.BulkString([]byte(f))
			}

			h := tr.Submit(resp.ArrayOf(elems))
			v, err := h.Await(context.Background())
			if err != nil {
				fmt.Printf("(error) %v\n", err)
				continue
			}
			printValue(v)
		}
	},
}

func printValue(v resp.Value) {
	switch v.Kind {
	case resp.KindSimple:
		fmt.Println(v.Text)
	case resp.KindError:
		fmt.Printf("(error) %s\n", v.Text)
	case resp.KindInteger:
		fmt.Printf("(integer) %d\n", v.Int)
	case resp.KindBulkString:
		fmt.Printf("%q\n", string(v.Bulk))
	case resp.KindNullBulk, resp.KindNullArray:
		fmt.Println("(nil)")
	case resp.KindArray:
		for i, el := range v.Array {
			fmt.Printf("%d) ", i+1)
			printValue(el)
		}
	}
}

func init() {
	connectCmd.Flags().StringVar(&connectAddr, "addr", "127.0.0.1:6379", "Address to connect to")
	rootCmd.AddCommand(connectCmd)
}
