package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/clarvishq/clarvis/classify"
	"github.com/clarvishq/clarvis/core"
	"github.com/clarvishq/clarvis/logging"
	"github.com/clarvishq/clarvis/model"
)

// Decision is the outcome of routing a single query.
//
// Invariant: HandleDirectly implies AgentName is empty.
type Decision struct {
	AgentName      string  `json:"agent_name"`
	Confidence     float64 `json:"confidence"`
	Rationale      string  `json:"rationale"`
	HandleDirectly bool    `json:"handle_directly"`
}

// Options configures Router construction.
type Options struct {
	// Classifier used for the deterministic fast path. Defaults to one built
	// from classify.DefaultRules.
	Classifier *classify.Classifier
	// Completer used for escalation. Escalation is skipped when nil.
	Completer model.Completer
	// EscalationEnabled toggles completion-service routing.
	EscalationEnabled bool
	// FollowUpDetection toggles continuing with the previous turn's agent.
	FollowUpDetection bool
	// CompletionTimeout bounds the escalation call.
	CompletionTimeout time.Duration
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Router resolves queries to agents through the hybrid pipeline. A Router is
// safe for concurrent use: the classifier is read-only after construction and
// the registry carries its own synchronization.
type Router struct {
	registry          *core.Registry
	classifier        *classify.Classifier
	completer         model.Completer
	escalationEnabled bool
	followUpDetection bool
	completionTimeout time.Duration
	logger            logging.Logger
}

// New creates a Router over the given registry.
func New(registry *core.Registry, optFns ...func(o *Options)) (*Router, error) {
	opts := Options{
		EscalationEnabled: true,
		FollowUpDetection: true,
		CompletionTimeout: 30 * time.Second,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Classifier == nil {
		c, err := classify.New(classify.DefaultRules())
		if err != nil {
			return nil, fmt.Errorf("build default classifier: %w", err)
		}
		opts.Classifier = c
	}

	return &Router{
		registry:          registry,
		classifier:        opts.Classifier,
		completer:         opts.Completer,
		escalationEnabled: opts.EscalationEnabled,
		followUpDetection: opts.FollowUpDetection,
		completionTimeout: opts.CompletionTimeout,
		logger:            opts.Logger,
	}, nil
}

// Route resolves the query through the pipeline. It always produces a
// Decision; escalation failures degrade to the classifier's best effort.
func (r *Router) Route(ctx context.Context, query string, sess *core.Session) Decision {
	if d, ok := r.checkFollowUp(query, sess); ok {
		r.logger.Debug("routed by follow-up", "agent", d.AgentName)
		return d
	}

	if d, ok := checkDirect(query); ok {
		r.logger.Debug("routed to direct handling", "rationale", d.Rationale)
		return d
	}

	cls := r.classifier.Classify(query)
	if !cls.NeedsEscalation {
		return Decision{
			AgentName:  cls.AgentName,
			Confidence: cls.Confidence,
			Rationale:  fmt.Sprintf("code-based routing: matched keywords %v", cls.MatchedKeywords),
		}
	}

	if r.escalationEnabled && r.completer != nil {
		return r.escalate(ctx, query, cls, sess)
	}

	// Escalation unavailable: take the low-confidence code match if one
	// exists, otherwise hand the query back to the orchestrator.
	if cls.AgentName != "" {
		return Decision{
			AgentName:  cls.AgentName,
			Confidence: cls.Confidence,
			Rationale:  "escalation disabled, using low-confidence code match",
		}
	}
	return Decision{
		Rationale:      "no agent match found, handling directly",
		HandleDirectly: true,
	}
}

// checkFollowUp routes short continuations to the agent that handled the
// previous turn, provided it is still registered.
func (r *Router) checkFollowUp(query string, sess *core.Session) (Decision, bool) {
	if !r.followUpDetection || sess == nil {
		return Decision{}, false
	}
	agent, ok := sess.FollowUpTarget(query)
	if !ok {
		return Decision{}, false
	}
	if _, registered := r.registry.Get(agent); !registered {
		return Decision{}, false
	}
	return Decision{
		AgentName:  agent,
		Confidence: 0.9, // high but not 1.0 since it's heuristic
		Rationale:  fmt.Sprintf("follow-up detected, continuing with %s", agent),
	}, true
}

// checkDirect detects greetings (prefix match) and thanks/acknowledgments
// (substring match).
func checkDirect(query string) (Decision, bool) {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	for _, phrase := range greetingPhrases {
		if queryLower == phrase || strings.HasPrefix(queryLower, phrase) {
			return Decision{
				Confidence:     1.0,
				Rationale:      fmt.Sprintf("greeting detected: %q", phrase),
				HandleDirectly: true,
			}, true
		}
	}
	for _, phrase := range thanksPhrases {
		if strings.Contains(queryLower, phrase) {
			return Decision{
				Confidence:     1.0,
				Rationale:      fmt.Sprintf("thanks/acknowledgment detected: %q", phrase),
				HandleDirectly: true,
			}, true
		}
	}
	return Decision{}, false
}

// escalate asks the completion service to resolve a query the classifier
// could not.
func (r *Router) escalate(
	ctx context.Context,
	query string,
	cls classify.Result,
	sess *core.Session,
) Decision {
	systemPrompt := fmt.Sprintf(routerSystemPrompt, formatAgentDescriptions(r.registry.AllCapabilities()))

	userMsg := "Query: " + query
	if sess != nil && sess.Len() > 0 {
		userMsg = fmt.Sprintf("Recent conversation:\n%s\n\nNew query: %s", sess.RecentContext(2), query)
	}
	if cls.AgentName != "" {
		userMsg += fmt.Sprintf("\n\nCode-based hint: possibly %s (confidence: %.2f)", cls.AgentName, cls.Confidence)
	}

	cctx, cancel := context.WithTimeout(ctx, r.completionTimeout)
	defer cancel()

	start := time.Now()
	text, err := r.completer.Complete(cctx, systemPrompt, []model.Message{{Role: "user", Content: userMsg}})
	if err != nil {
		r.logger.Warn("escalation call failed", "error", err.Error(), "duration", time.Since(start))
		return r.escalationFallback(cls, err)
	}
	r.logger.Debug("escalation call completed", "duration", time.Since(start))

	return r.parseDecision(text)
}

// parseDecision parses the fixed three-line escalation response:
//
//	AGENT: <agent_name or DIRECT>
//	CONFIDENCE: <0.0 to 1.0>
//	REASONING: <explanation>
//
// Confidence is clamped to [0,1]; an unregistered agent suggestion is
// downgraded to direct handling.
func (r *Router) parseDecision(text string) Decision {
	d := Decision{
		Confidence: 0.5,
		Rationale:  "completion-service routing",
	}

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "AGENT:"):
			value := strings.TrimSpace(line[len("AGENT:"):])
			if strings.EqualFold(value, "DIRECT") {
				d.HandleDirectly = true
				d.AgentName = ""
			} else {
				d.AgentName = strings.ToLower(value)
			}
		case strings.HasPrefix(upper, "CONFIDENCE:"):
			value := strings.TrimSpace(line[len("CONFIDENCE:"):])
			if conf, err := strconv.ParseFloat(value, 64); err == nil {
				d.Confidence = max(0.0, min(1.0, conf))
			} else {
				d.Confidence = 0.5
			}
		case strings.HasPrefix(upper, "REASONING:"):
			d.Rationale = strings.TrimSpace(line[len("REASONING:"):])
		}
	}

	if d.AgentName != "" {
		if _, ok := r.registry.Get(d.AgentName); !ok {
			d.HandleDirectly = true
			d.AgentName = ""
			d.Rationale = "completion service suggested unknown agent, handling directly"
		}
	}
	return d
}

// escalationFallback degrades a failed escalation to the classifier's best
// effort, or to direct handling when no usable match exists.
func (r *Router) escalationFallback(cls classify.Result, err error) Decision {
	if cls.AgentName != "" && cls.Confidence > 0.3 {
		return Decision{
			AgentName:  cls.AgentName,
			Confidence: cls.Confidence,
			Rationale:  fmt.Sprintf("escalation failed (%v), using code classification", err),
		}
	}
	return Decision{
		Rationale:      fmt.Sprintf("escalation failed (%v), no confident match from code classification", err),
		HandleDirectly: true,
	}
}
