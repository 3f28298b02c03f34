// Package domain defines the core business types for the phishing-trainer
// platform.
//
// Types in this package are pure value objects with no behavior beyond
// validation and the target status transition table. They are the shared
// language between handlers, services, and storage.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - JSON tags are allowed (they're metadata, not behavior)
//   - Validation methods are allowed (they're pure functions on the type)
//   - Constants and enums belong here
package domain
