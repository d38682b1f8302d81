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

package command

import "github.com/mitchellh/mapstructure"

// scanOptions mirrors Redis's optional SCAN clauses.
type scanOptions struct {
	Match string `mapstructure:"match"`
	Count int64  `mapstructure:"count"`
	Type  string `mapstructure:"type"`
}

// decodeScanOptions decodes a loosely-typed option bag (as a caller might
// build one from a config file or a higher-level API) into a scanOptions,
// the same way processor/roundtripstometrics/factory.go decodes dynamic
// processor configuration in this corpus.
func decodeScanOptions(raw map[string]any, out *scanOptions) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
