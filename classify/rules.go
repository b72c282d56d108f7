package classify

// DefaultRules returns the built-in match tables for the stock agents. The
// tables are ordinary data; callers can extend or replace them entirely when
// constructing a Classifier.
func DefaultRules() []Rule {
	return []Rule{
		{
			Agent: "gmail",
			Keywords: []string{
				"email", "emails", "inbox", "unread",
				"mail", "gmail", "message", "messages",
			},
			Patterns: []string{
				`\b(check|read|search|find|show|list|get)\b.*\b(email|emails|mail|inbox)\b`,
				`\b(email|mail)\b.*\b(from|to|about|subject)\b`,
				`\bunread\b.*\b(email|emails|mail|message|messages)\b`,
				`\b(email|emails|mail|message|messages)\b.*\bunread\b`,
			},
		},
		{
			Agent: "calendar",
			Keywords: []string{
				"calendar", "schedule", "meeting", "meetings",
				"appointment", "appointments", "event", "events",
			},
			Patterns: []string{
				`\b(check|show|list|what|when)\b.*\b(calendar|schedule|meeting|meetings|appointment)\b`,
				`\b(schedule|book|create)\b.*\b(meeting|appointment|event)\b`,
				`\b(meeting|meetings|appointment|appointments)\b.*\b(today|tomorrow|this week)\b`,
			},
		},
		{
			Agent: "weather",
			Keywords: []string{
				"weather", "temperature", "rain", "forecast", "sunny", "cloudy",
			},
			Patterns: []string{
				`\b(what|how|check)\b.*\b(weather|temperature|forecast)\b`,
				`\bwill it\b.*\b(rain|snow|be sunny)\b`,
			},
		},
	}
}
