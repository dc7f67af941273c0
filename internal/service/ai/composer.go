package ai

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/sitewright/backend/internal/model/chat"
	"github.com/sitewright/backend/internal/service/intent"
)

// systemDirective is the fixed output contract sent with every generation
// request: a complete standalone HTML document, nothing else.
const systemDirective = `You are an expert web developer specializing in creating modern, responsive HTML websites using Tailwind CSS and JavaScript.

CRITICAL REQUIREMENTS:
1. Generate ONLY HTML code - no explanations, no markdown, no code blocks
2. Use the Tailwind CSS Play CDN: <script src="https://cdn.jsdelivr.net/npm/@tailwindcss/browser@4"></script>
   IMPORTANT: This is the ONLY Tailwind CDN you should use
3. You may use images from the internet, but credit the source and only use free versions
4. Create a complete, functional website that works standalone
5. Include proper HTML5 structure with head, body, navigation, main content, and footer
6. Make it responsive and mobile-friendly
7. Use modern, professional design patterns with gradients, shadows, and sophisticated layouts
8. Include interactive elements with JavaScript (buttons, hover effects, forms, animations)
9. Use proper Tailwind classes for styling (bg-gradient-to-r, shadow-xl, text-4xl, rounded-2xl)
10. Include hero sections with background images, feature cards, and call-to-action sections
11. For images and icons, use these free sources:
    - Placeholder images: https://via.placeholder.com/400x300/4F46E5/FFFFFF?text=Your+Text
    - Unsplash: https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=400&h=300&fit=crop
    - Pexels: https://images.pexels.com/photos/1267320/pexels-photo-1267320.jpeg?w=400&h=300&fit=crop
    - Icons: Font Awesome CDN: <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.0.0/css/all.min.css">
12. Style images with Tailwind classes: w-full, h-64, rounded-lg, object-cover
13. Use proper alt attributes for accessibility
14. ALWAYS include SiteWright branding in the footer: "Powered by SiteWright - AI Technology Solutions" with black and gold styling
15. Use the SiteWright color scheme when appropriate: black (#000000), gold (#D4AF36)

RESPONSE FORMAT:
- Start with <!DOCTYPE html>
- End with </html>
- No code blocks or markdown formatting
- No explanations or comments outside the HTML
- Pure HTML with embedded JavaScript in <script> tags`

// sharedRequirements is the checklist appended to every final user message.
const sharedRequirements = `Requirements:
- Use Tailwind CSS for styling (ALWAYS include <script src="https://cdn.jsdelivr.net/npm/@tailwindcss/browser@4"></script> in <head>)
- Keep the website professional and visually appealing
- Include navigation, hero section, features, and footer
- Make it responsive and mobile-friendly
- Include interactive JavaScript elements (forms, animations, hover effects)
- Make forms functional with JavaScript validation
- Add images and icons using free online sources (unsplash.com, pexels.com)
- Style images with Tailwind classes (w-full, h-64, rounded-lg, object-cover)
- Ensure the website renders properly in an iframe
- ALWAYS include "Powered by SiteWright - AI Technology Solutions" in the footer`

// Composer assembles the message sequence handed to the generation
// backend: the fixed system directive, the replayed session history, and a
// final user message framed by the classification.
type Composer struct {
	classifier intent.Classifier
}

// NewComposer wires the composer to its classification strategy.
func NewComposer(classifier intent.Classifier) *Composer {
	return &Composer{classifier: classifier}
}

// ChainInput is what Compose feeds the generation chain.
type ChainInput struct {
	System  string
	History []*schema.Message
	Query   string
	Intent  intent.Intent
}

// Compose classifies the prompt against the session history and builds the
// full chain input. History is replayed as user/assistant pairs in append
// order so the backend sees the conversational shape it expects.
func (c *Composer) Compose(sessionID, prompt string, turns []chat.Turn) ChainInput {
	classification := c.classifier.Classify(prompt, len(turns) > 0)

	var query string
	switch {
	// Modification needs a prior document to start from; a classifier that
	// reports it without history falls through to the fresh-session frame.
	case classification == intent.Modification && len(turns) > 0:
		query = modificationPrompt(turns[len(turns)-1].AIResponse, prompt)
	case len(turns) > 0:
		query = newTopicPrompt(prompt)
	default:
		query = createPrompt(sessionID, prompt)
	}

	return ChainInput{
		System:  systemDirective,
		History: replayHistory(turns),
		Query:   query,
		Intent:  classification,
	}
}

func replayHistory(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns)*2)
	for _, turn := range turns {
		history = append(history, schema.UserMessage(turn.UserPrompt))
		history = append(history, schema.AssistantMessage(turn.AIResponse, nil))
	}
	return history
}

// createPrompt frames the first request of a session.
func createPrompt(sessionID, prompt string) string {
	return fmt.Sprintf(`Create an HTML website with the following requirements:

User Request: %s
Session ID: %s

%s

Generate the complete HTML code with embedded JavaScript:`, prompt, sessionID, sharedRequirements)
}

// newTopicPrompt frames a fresh request inside an existing conversation.
// Prior turns remain as context but the model is not asked to preserve
// the previous output.
func newTopicPrompt(prompt string) string {
	return fmt.Sprintf(`You are continuing a conversation about website development. The user is now requesting a new website.

CURRENT USER REQUEST: %s

Create a complete, professional website based on this new request.

%s

Generate the complete HTML code with embedded JavaScript:`, prompt, sharedRequirements)
}

// modificationPrompt embeds the previous document verbatim and instructs
// the model to return the complete updated document, not a diff.
func modificationPrompt(lastHTML, prompt string) string {
	return fmt.Sprintf(`You are modifying an existing website. The user wants to make specific changes to the current HTML.

CURRENT HTML CODE:
%s

USER REQUEST: %s

IMPORTANT: This is a MODIFICATION request. You should:
1. Start from the CURRENT HTML CODE above
2. Apply ONLY the specific changes the user requested
3. Keep everything else exactly the same
4. Maintain the same structure, layout, and styling
5. Only change what the user specifically asked for
6. Return the FULL updated HTML code (no explanations, no markdown)

%s

Return the complete updated HTML code:`, lastHTML, prompt, sharedRequirements)
}

// NormalizeHTML cleans a raw completion for storage: code fences are
// stripped and the document is anchored with a doctype and closing root
// tag. Applying it twice yields the same string as once.
func NormalizeHTML(raw string) string {
	html := strings.TrimSpace(raw)

	html = strings.TrimPrefix(html, "```html")
	html = strings.TrimPrefix(html, "```")
	html = strings.TrimSuffix(html, "```")
	html = strings.TrimSpace(html)

	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		html = "<!DOCTYPE html>\n" + html
	}
	if !strings.HasSuffix(html, "</html>") {
		html = html + "\n</html>"
	}
	return html
}
