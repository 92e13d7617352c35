package contextkeys

// ContextKey is a dedicated type for context values so keys from this
// package never collide with keys set by other packages.
type ContextKey string

// RequestIDKey carries the per-request correlation id.
const RequestIDKey ContextKey = "request_id"
