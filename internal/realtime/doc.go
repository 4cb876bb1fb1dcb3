// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

// Package realtime pushes new messages and presence changes to connected
// websocket clients. The hub is the single owner of the subscriber registry;
// all mutation goes through its run loop.
package realtime
