package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Scoring constants. Keyword hits are cheap and capped low; pattern hits are
// stronger signals. Totals never exceed 1.0.
const (
	keywordScorePerMatch = 0.2
	keywordScoreCap      = 0.6
	patternScorePerMatch = 0.3
	patternScoreCap      = 0.6
)

// Rule declares the match table for one routing target. Keywords are matched
// on whole-word boundaries, Patterns are regular expressions; both are
// case-insensitive.
type Rule struct {
	Agent    string
	Keywords []string
	Patterns []string
}

// Result is the outcome of classifying a single query.
//
// AgentName is empty when nothing matched or when the top two candidates were
// too close to call; Confidence still reports the leading score in the
// ambiguous case so escalation fallbacks can reuse it.
type Result struct {
	AgentName       string
	Confidence      float64
	NeedsEscalation bool
	MatchedKeywords []string
	MatchedPatterns []string
}

// Options configures classifier construction.
type Options struct {
	// Threshold is the minimum confidence for routing without escalation.
	Threshold float64
	// AmbiguityMargin is the minimum gap between the top two scores below
	// which the result is treated as ambiguous.
	AmbiguityMargin float64
}

// Classifier scores queries against a fixed rule set. All regular expressions
// are compiled once at construction; Classify performs no I/O and holds no
// mutable state, so a single Classifier is safe for concurrent use.
type Classifier struct {
	threshold float64
	margin    float64
	targets   []compiledTarget
}

type compiledTarget struct {
	agent      string
	keywords   []string
	keywordRes []*regexp.Regexp
	patterns   []string
	patternRes []*regexp.Regexp
}

// New compiles the given rules into a Classifier.
func New(rules []Rule, optFns ...func(o *Options)) (*Classifier, error) {
	opts := Options{
		Threshold:       0.7,
		AmbiguityMargin: 0.1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	targets := make([]compiledTarget, 0, len(rules))
	for _, rule := range rules {
		ct := compiledTarget{
			agent:    rule.Agent,
			keywords: rule.Keywords,
			patterns: rule.Patterns,
		}
		for _, kw := range rule.Keywords {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("compile keyword %q for agent %s: %w", kw, rule.Agent, err)
			}
			ct.keywordRes = append(ct.keywordRes, re)
		}
		for _, pat := range rule.Patterns {
			re, err := regexp.Compile(`(?i)` + pat)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for agent %s: %w", pat, rule.Agent, err)
			}
			ct.patternRes = append(ct.patternRes, re)
		}
		targets = append(targets, ct)
	}

	return &Classifier{
		threshold: opts.Threshold,
		margin:    opts.AmbiguityMargin,
		targets:   targets,
	}, nil
}

// Classify scores the query against every target and selects the best match.
//
// Per target: keyword score = min(0.2 * distinct keyword hits, 0.6), pattern
// score = min(0.3 * distinct pattern hits, 0.6), total capped at 1.0.
// Escalation is requested when nothing matched, when the best score is below
// the threshold, or when the runner-up is within the ambiguity margin of the
// leader (in which case no agent is named).
func (c *Classifier) Classify(query string) Result {
	queryLower := strings.ToLower(query)

	type scored struct {
		target *compiledTarget
		score  float64
		kws    []string
		pats   []string
	}

	best := scored{}
	var second float64

	for i := range c.targets {
		t := &c.targets[i]

		var kws []string
		for j, re := range t.keywordRes {
			if re.MatchString(queryLower) {
				kws = append(kws, t.keywords[j])
			}
		}
		keywordScore := min(float64(len(kws))*keywordScorePerMatch, keywordScoreCap)

		var pats []string
		for j, re := range t.patternRes {
			if re.MatchString(query) {
				pats = append(pats, t.patterns[j])
			}
		}
		patternScore := min(float64(len(pats))*patternScorePerMatch, patternScoreCap)

		total := min(keywordScore+patternScore, 1.0)

		if total > best.score {
			second = best.score
			best = scored{target: t, score: total, kws: kws, pats: pats}
		} else if total > second {
			second = total
		}
	}

	if best.target == nil || best.score == 0 {
		return Result{NeedsEscalation: true}
	}

	ambiguous := second > 0 && best.score-second < c.margin

	res := Result{
		AgentName:       best.target.agent,
		Confidence:      best.score,
		NeedsEscalation: best.score < c.threshold || ambiguous,
		MatchedKeywords: best.kws,
		MatchedPatterns: best.pats,
	}
	if ambiguous {
		// A leader existed but the gap is too small to trust; report its score
		// without naming it.
		res.AgentName = ""
	}
	return res
}

// Threshold returns the configured escalation threshold.
func (c *Classifier) Threshold() float64 { return c.threshold }
