// Package core defines the shared language of the formviz system.
//
// This package contains:
//   - Domain entities (Visualization, Form, View, CacheEntry)
//   - Service interfaces (Store)
//   - Session types (Account, AccountType)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
