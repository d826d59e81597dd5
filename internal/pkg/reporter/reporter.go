// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reporter defines the diagnostic sink this pass reports
// user-program errors to (spec §6, §7). The pass never decides whether
// to abort; it only reports and keeps going so multiple errors can
// surface in one run, leaving the abort decision to the containing
// pipeline (out of scope).
package reporter

import "github.com/heapverify/effectelab/internal/pkg/ir"

// The four fixed diagnostic messages spec §6 requires. Usage
// identifies the heap-accessing construct that triggered the error,
// e.g. "read from heap object" or "write to heap object".
const (
	MsgNoHeapAccess   = "Cannot use heap-accessing construct (%s) here"
	MsgMissingReads    = "Cannot %s without a reads clause"
	MsgMissingModifies = "Cannot %s without a modifies clause"
	MsgReadOnlyWrite   = "Can't modify heap in read-only context"
)

// Reporter is the external collaborator this pass sends diagnostics
// to; its implementation belongs to the containing pipeline (spec §1,
// out of scope), only this interface does not.
type Reporter interface {
	// Reportf records a diagnostic at pos with the given message,
	// formatted the same way fmt.Sprintf would format format/args.
	Reportf(pos ir.Pos, format string, args ...interface{})
}

// ReporterFunc adapts a plain function to a Reporter, the same
// pattern http.HandlerFunc uses for http.Handler.
type ReporterFunc func(pos ir.Pos, format string, args ...interface{})

// Reportf implements Reporter.
func (f ReporterFunc) Reportf(pos ir.Pos, format string, args ...interface{}) {
	f(pos, format, args...)
}
