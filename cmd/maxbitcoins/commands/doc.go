// Package commands defines the maxbitcoins CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - publish [text]   Sign and publish a note under the posting budget
//   - budget           Show quota usage and circuit breaker state
//   - budget reset <a> Clear the failure count that opened a breaker
//   - key              Show the npub of NOSTR_PRIVATE_KEY or generate a key
//   - verify <file>    Check the id and signature of a signed event
//
// # Implementation
//
// The root command loads the TOML config and builds the dependency graph
// (state store, budget, relay publisher, services) before any subcommand
// runs. key and verify need none of it and skip that step.
package commands
