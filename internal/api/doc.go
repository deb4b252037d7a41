// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the minbao advisory backend.
//
// The client is a thin request wrapper: one method per backend operation,
// no retries and no client-side timeout. Callers bound requests with the
// context they pass in.
//
// # Error Model
//
// Every failure is a *ClientError. Its Type separates the two failure kinds
// the UI must tell apart:
//
//   - ErrTypeTransport: no response was received (backend down, DNS, reset)
//   - ErrTypeStatus: the backend answered with a non-2xx status
//
// ErrTypeDecode marks a 2xx response whose body could not be decoded, and
// ErrTypeRequest marks a request that could not be built.
//
// # Usage
//
//	client := api.NewClient("http://127.0.0.1:8000")
//	answer, err := client.Chat(ctx, "宝宝对鸡蛋过敏怎么办")
//	switch {
//	case api.IsTransport(err):
//	    // backend unreachable
//	case err != nil:
//	    // backend returned an error
//	}
package api
