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


// Package ai defines the text-generation collaborator interface and
// its configuration.
//
// The Generator contract is deliberately error-free: implementations
// absorb every transport or service failure and answer with a
// deterministic templated response instead. Downstream pipelines are
// written against "a string always comes back" and carry no retry
// logic of their own.
//
// Subpackages provide implementations:
//   - openai: OpenAI-compatible services via langchaingo
//   - mock: test doubles with call counting and scripted responses
package ai
