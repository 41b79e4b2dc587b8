// Copyright 2026 Coursetta Authors
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


// Package answer assembles retrieved evidence into answered responses.
//
// The Assembler sits between the retrieval core and the outward API: it
// retrieves ranked evidence for a question, filters out fragments too short
// to be useful, delegates language generation to an ai.AnswerGenerator, and
// extracts deduplicated citation links from the supporting documents.
// Optional base64 image attachments are validated here; an invalid image is
// dropped, never a request failure.
package answer
