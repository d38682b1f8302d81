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

package transport

import (
	"io"
	"net"

	"github.com/redpipe/redpipe/redpipeerr"
)

// writeFull writes all of b to conn, looping over the short writes TCP can
// still produce even on a blocking socket.
func writeFull(conn net.Conn, b []byte) (int, error) {
	total := 0
	for total < len(b) {
		n, err := conn.Write(b[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// classifyIOErr classifies a raw net/io error: a clean EOF (the peer closed
// the connection) becomes NotConnected, any other error is wrapped as a
// redpipeerr IoError.
func classifyIOErr(err error) error {
	if err == io.EOF {
		return redpipeerr.NotConnected()
	}
	return redpipeerr.IO(err)
}
