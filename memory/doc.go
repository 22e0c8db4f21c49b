// Package memory holds the extracted user profile and the transcript sources it is built from.
//
// Model:
//   - UserProfile: facts, preferences, emotional patterns. Empty slices mean "no data"; never nil.
//   - Message: a chat turn (role + text) loaded from a JSON transcript file.
//   - Nothing here is persisted; profiles live only as long as the caller holds them.
package memory
