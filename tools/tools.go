//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload for the API server during development
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Docs: https://github.com/air-verse/air
//   Usage: run from the repo root to rebuild and restart cmd/rosterd on save.
//
// Mocks are generated with go.uber.org/mock via `go generate ./internal/mocks`;
// mockgen runs through `go run` and needs no global install.
