// Copyright 2026 © The Orquestrador Authors
// SPDX-License-Identifier: Apache-2.0

// Package core defines the data shared by every role agent: task requests,
// response envelopes, role profiles and directives, and health reports.
package core
