// Package state provides a lightweight per-user dialog FSM for Telegram bots.
// It is intentionally domain-agnostic so it can be reused across bots: flows
// and steps are opaque strings declared by the application.
package state
