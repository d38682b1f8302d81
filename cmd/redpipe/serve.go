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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/redpipe/redpipe/confengine"
	"github.com/redpipe/redpipe/logger"
	"github.com/redpipe/redpipe/metrics"
	"github.com/redpipe/redpipe/server"
	"github.com/redpipe/redpipe/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to a server and run the Prometheus/pprof admin surface",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := confengine.LoadSettings(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", configPath, err)
			os.Exit(1)
		}

		log := logger.New(settings.Logger)
		reg := prometheus.NewRegistry()
		rec := metrics.NewPrometheus(reg)

		tr := transport.New(transport.Options{
			Addr:         settings.Transport.Addr,
			ReadBufSize:  settings.Transport.ReadBufSize,
			WriteBufSize: settings.Transport.WriteBufSize,
			Logger:       log,
			Metrics:      rec,
		})
		if err := tr.Connect(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", settings.Transport.Addr, err)
			os.Exit(1)
		}
		defer tr.Disconnect()

		admin, err := server.New(settings.Admin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to construct admin server: %v\n", err)
			os.Exit(1)
		}
		if admin == nil {
			log.Infof("admin surface disabled, idling connected to %s", settings.Transport.Addr)
			select {}
		}

		admin.RegisterMetrics(reg)
		admin.RegisterTransportSnapshot(func() []server.TransportSnapshot {
			return []server.TransportSnapshot{{
				ConnID:      tr.ConnID(),
				State:       tr.State().String(),
				ActiveCount: tr.ActiveCount(),
				Addr:        settings.Transport.Addr,
			}}
		})

		if err := admin.ListenAndServe(); err != nil {
			fmt.Fprintf(os.Stderr, "admin server stopped: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
