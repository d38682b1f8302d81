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

// Package idutil mints the connection ids stamped onto log lines and
// metrics labels so a process driving many transports can tell them apart.
// The id carries no protocol meaning.
package idutil

import "github.com/google/uuid"

// New returns a fresh random connection id.
func New() string {
	return uuid.NewString()
}
