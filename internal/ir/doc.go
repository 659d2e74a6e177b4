// Package ir provides the canonical data model for DynamicCPQ.
//
// This package contains type definitions and value semantics only. All other
// internal packages import ir; ir imports nothing internal. This ensures the
// model remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Configuration values are a sealed tagged union (Number, Text, Bool,
//     Unset) - never raw interface{} maps. Both validators and the domain
//     encoder normalize through this one point.
//   - The loose-equality coercion table (number vs numeric string, bool vs
//     0/1) lives here so the deterministic and SAT validators cannot drift
//     apart in their comparison semantics.
//   - Text values are NFC normalized at construction, never at comparison
//     time.
//   - All JSON and YAML tags use snake_case.
package ir
