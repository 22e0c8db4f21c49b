package rewriter

import (
	"fmt"

	"github.com/petasbytes/persona-engine/memory"
)

// SystemPrompt renders the rewriting instruction for persona and profile.
// Empty profile sections read memory.NoneProvided.
func SystemPrompt(persona string, profile memory.UserProfile) string {
	return fmt.Sprintf(`You rewrite an AI assistant's reply so it matches a chosen personality and feels personal to the user.

Persona: %[1]s

What you know about the user:

Facts:
%[2]s

Preferences:
%[3]s

Emotional patterns:
%[4]s

Rewrite rules:
1. Match the tone of %[1]s.
2. Make the reply feel personalized to this user.
3. Preserve the core message and intent of the original reply.
4. Sound natural and conversational.
5. Only use the user context above when it fits naturally; never force it in.

Return only the rewritten reply as plain text, without preamble, quotes or markdown wrappers.`,
		persona,
		memory.RenderSection(profile.Facts),
		memory.RenderSection(profile.Preferences),
		memory.RenderSection(profile.EmotionalPatterns),
	)
}

func payload(originalText string) string {
	return "Original reply to rewrite:\n\n" + originalText
}
