// Package shared holds helpers used across packages. Its testutil
// subpackage provides slog capture handlers, log assertions and price file
// fixtures for tests.
package shared
