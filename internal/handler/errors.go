// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server
// configuration has no HTTP address. The document store has no other
// transport, so this is a fatal misconfiguration.
var errNoHandlersAreCreated = errors.New("no handlers are created")
