// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Banter Contributors

// Package web exposes the REST and websocket API. Handlers translate HTTP
// requests into service calls and map error codes onto status codes; all
// business rules live in the services.
package web
