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


// Package analyze inspects RFP documents and proposals.
//
// Three services live here:
//   - Analyzer extracts requirements, technical specs, timeline, budget,
//     compliance items, and evaluation criteria from an RFP, assesses
//     delivery risks, and attaches a confidence score.
//   - Evaluator grades a proposal draft section by section and produces
//     strengths, weaknesses, and improvement suggestions.
//   - Advisor maps an industry and project scope to market context,
//     strategic recommendations, and a recommended approach.
//
// Extraction is pattern-driven first; the AI generator layers additional
// items on top. Generator output is advisory and parsed tolerantly, so
// a misbehaving model degrades results but never fails an analysis.
package analyze
