package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clarvishq/clarvis/core"
)

// routerSystemPrompt frames the escalation call. The %s placeholder receives
// the formatted agent descriptions.
const routerSystemPrompt = `You are a routing assistant for a multi-agent home automation system.
Your job is to analyze user queries and determine which specialist agent should handle them.

AVAILABLE AGENTS:
%s

ROUTING RULES:
1. Route to an agent ONLY if the query clearly matches their capabilities
2. Set AGENT: DIRECT for:
   - Greetings ("hello", "hi", "hey", "good morning")
   - Thanks ("thank you", "thanks")
   - Simple questions about yourself or the system
   - General conversation that doesn't require specialized agents
3. If uncertain between agents, choose the most likely one with lower confidence
4. Consider conversation context when routing follow-ups

RESPONSE FORMAT:
You MUST respond in this exact format (one item per line):
AGENT: <agent_name or DIRECT>
CONFIDENCE: <0.0 to 1.0>
REASONING: <brief one-line explanation>

Examples:
- For "check my emails": AGENT: gmail
- For "hello there": AGENT: DIRECT
- For "what's on my calendar": AGENT: calendar
`

// greetingPhrases are matched as a prefix of (or equal to) the query.
var greetingPhrases = []string{
	"hello",
	"hi",
	"hey",
	"good morning",
	"good afternoon",
	"good evening",
	"howdy",
	"greetings",
	"yo",
	"hiya",
}

// thanksPhrases are matched anywhere in the query.
var thanksPhrases = []string{
	"thank you",
	"thanks",
	"thx",
	"appreciate it",
	"cheers",
	"thank u",
	"ty",
}

// formatAgentDescriptions renders registered agent capabilities for the
// escalation prompt. Agents are emitted in sorted name order so prompts are
// deterministic.
func formatAgentDescriptions(capabilities map[string][]core.Capability) string {
	if len(capabilities) == 0 {
		return "No agents currently available."
	}

	names := make([]string, 0, len(capabilities))
	for name := range capabilities {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "Agent: %s\n", name)

		caps := capabilities[name]
		if len(caps) == 0 {
			b.WriteString("  - (No capabilities defined)\n\n")
			continue
		}
		for _, cap := range caps {
			fmt.Fprintf(&b, "  - %s: %s\n", cap.Name, cap.Description)
		}
		if examples := caps[0].Examples; len(examples) > 0 {
			if len(examples) > 2 {
				examples = examples[:2]
			}
			fmt.Fprintf(&b, "  Example queries: %s\n", strings.Join(examples, ", "))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
