// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

// Package client is a Go client for the Banter HTTP API. It validates input
// before issuing network calls, guards every request with a timeout, and
// keeps the authenticated profile in an observable session store.
package client
