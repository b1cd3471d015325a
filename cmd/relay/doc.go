// Package main runs an in-memory Nostr relay used during development and
// tests. Point maxbitcoins at it with --relay ws://127.0.0.1:7777.
//
// Protocol
//
//	["EVENT", <event>]
//	    Verify the id and signature and store the event. The reply is
//	    ["OK", <id>, true, ""] for a new event, ["OK", <id>, true,
//	    "duplicate: ..."] for a known one and ["OK", <id>, false,
//	    "invalid: ..."] when verification fails.
//
//	anything else
//	    ["NOTICE", "unsupported: <label>"] or ["NOTICE", "error: ..."].
//
// A plain HTTP GET returns every stored event as a JSON array.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Subscriptions (REQ/CLOSE) are not implemented.
//   - The default listen address is :7777.
package main
