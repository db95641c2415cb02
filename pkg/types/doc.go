// Package types provides shared type definitions used across the doculyzer packages.
//
// This package contains fundamental types like FactKey, ChangeType and FactStatus
// that are referenced by multiple packages (facts, resolve, match, explain) to
// avoid import cycles while maintaining type safety.
//
// The package has zero dependencies and serves as a foundation for the type system.
//
//nolint:revive // Package name 'types' is appropriate for common type definitions
package types
