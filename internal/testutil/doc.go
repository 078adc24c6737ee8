// Package testutil contains helpers used across tests to reduce boilerplate
// when exercising the coordination stack without a real host: a scripted
// in-memory Host that records prompts and optionally drives the lifecycle
// hooks the way a real host would. Not intended for production usage.
package testutil
