// Package runner performs the single outbound Anthropic Messages call behind
// each engine operation.
//
// Invariants:
//   - at most one HTTP round trip per Call; no retries.
//   - every call runs under a bounded timeout and honors caller cancellation.
//   - a model_call telemetry event is emitted for every attempted call, carrying
//     the call id, operation, model, duration and success only.
//
// Flow:
//
//	system(instruction) + user(payload) -> assistant(text | tool_use)
package runner
