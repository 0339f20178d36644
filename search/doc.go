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


// Package search ranks stored documents against free-text queries.
//
// The Engine type implements a multi-stage search pipeline:
//   - Candidate retrieval by literal substring match against content,
//     keywords, and description
//   - Weighted relevance scoring over keyword, preview, and description
//     matches
//   - Best-effort AI enrichment of the top-ranked results
//   - Follow-up suggestion building from result keywords
//
// Every search appends one row to the search audit log, which feeds the
// popular-query statistics.
package search
