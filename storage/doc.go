// Copyright 2025 Poiesic Systems
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


// Package storage provides the storage abstraction layer for gurukul.
//
// The substrate is a key-value interface (KV) carrying JSON documents in
// named areas, one document per normalized (subject, topic) key. Two
// implementations are provided:
//
//   - storage/file: one JSON file per key under an area directory
//   - storage/badger: area-prefixed keys in an embedded BadgerDB
//
// Both persist the same JSON documents, so the choice of substrate never
// changes the layout contract: a document written under one backend remains
// addressable by the same normalized key under the other.
//
// On top of the KV, ArtifactStore implements the versioned knowledge store:
// overwrite-on-write with monotonic minor-version numbering, per-key write
// serialization, and a linear-scan substring search. The Wikipedia cache in
// package wiki consumes a KV area directly.
//
// # Thread Safety
//
// All KV implementations and ArtifactStore are safe for concurrent use.
// Writes to the same key are serialized; reads are concurrent.
//
// # Context Support
//
// All methods accept context.Context for cancellation and timeout support.
// Pass context.Background() for operations without specific timeout
// requirements.
package storage
