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


// Package ai provides the text-generation abstraction used by gurukul.
//
// The orchestrator depends on the Generator interface rather than a concrete
// model client, so the external LLM can be swapped or mocked without touching
// pipeline logic.
//
// # Implementation Packages
//
//   - ai/openai: production implementation over OpenAI-compatible chat APIs
//   - ai/mock: test double for unit testing without an external service
//
// Public constructors (openai.NewGenerator) return the Generator INTERFACE to
// enforce abstraction; mock constructors return CONCRETE types so tests can
// inject behavior and assert call counts.
//
// The package also owns the lesson payload schema the generator is asked to
// emit, together with ParseLessonPayload, which tolerates markdown code
// fences and repairs common LLM JSON defects before giving up. Retrying a
// failed parse is the caller's decision; parsing itself is deterministic.
package ai
