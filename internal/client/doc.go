// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive list client runtime.
//
// It wires the terminal UI, the sync layer and the background workers
// (periodic refresh and the realtime subscription) into a single process
// lifecycle.
package client
