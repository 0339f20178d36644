// Copyright 2025 Proposive Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cache provides a shared, lock-protected memoization table
// with per-call TTLs and a fixed entry capacity.
//
// Keys are derived with KeyFor from an operation identity plus its
// arguments: positional arguments are order-sensitive, keyword
// arguments are not. Expiry is lazy — an expired entry is dropped only
// when its key is looked up, and it counts toward capacity until then.
// Capacity pressure evicts the oldest-inserted entries first.
//
// The table is guarded by one coarse lock held only around map access,
// so concurrent misses on the same key can both run the underlying
// operation. Closing that race would need per-key locking or a
// compare-and-swap insert; callers that need at-most-once execution
// must serialize themselves.
//
// TTL is always a call-site parameter. There is no single process-wide
// default because expensive operations legitimately want different
// windows (the text-generation wrapper uses 30 minutes).
package cache
