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


// Package storage provides the storage abstraction layer for rfpbase.
//
// This package defines the interfaces that decouple storage
// implementation from business logic: a relational DocumentStore and
// SearchLogStore (backed by SQLite) and a BlobStore for raw document
// payloads (backed by the local filesystem or by BadgerDB).
//
// # Constructor Return Type Pattern
//
// Public constructors in the backend subpackages return the interfaces
// defined here rather than concrete types:
//
//	store, err := sqlite.NewStore(dataDir)   // storage.DocumentStore + storage.SearchLogStore
//	blobs, err := fsblob.NewStore(dataDir)   // storage.BlobStore
//
// This keeps consumers decoupled from the backend and lets tests swap
// in in-memory implementations without modification.
//
// # Durability
//
// DocumentStore mutations are flushed before the call returns. There is
// no partial-write recovery: a crash between a blob write and the row
// insert may leave an orphaned payload or an orphaned row. This is a
// documented gap, not silently masked.
//
// # Thread Safety
//
// All implementations must be safe for concurrent use. Concurrent
// writers to the same document ID are not guarded beyond the storage
// engine's own write serialization.
package storage
