// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package storage

// Key prefixes of the values stored in the database. Each key is the prefix
// byte followed by its big-endian segments.
const (
	PrefixVersion    = 1
	PrefixDifficulty = 2
	PrefixLast       = 3

	PrefixBlock          = 4
	PrefixIndexForDigest = 5
)

// Version is the current version of the storage format.
const Version = 1
