// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

// Package chat implements direct messaging between users: validation and
// persistence of messages and retrieval of pairwise conversation history.
// Delivery to connected sockets is delegated to a Notifier so the package
// carries no websocket dependency.
package chat
