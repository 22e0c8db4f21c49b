// Package tools defines the structured-output tools offered to the model.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - record_user_profile: the forced tool whose input is the extracted profile.
package tools
