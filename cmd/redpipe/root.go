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

import "github.com/spf13/cobra"

var (
	version = "dev"
	gitHash = "none"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "redpipe",
	Short: "A pipelined RESP client and admin toolkit",
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "redpipe.yaml", "Configuration file path")
}
