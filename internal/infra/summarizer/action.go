package summarizer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned by ParseAction for names it does not recognise.
var ErrUnknownAction = errors.New("unknown action")

// Action selects what the model is asked to do with the condensed text.
type Action string

const (
	// ActionSummarize asks for a brief summary. It is the default action.
	ActionSummarize Action = "summarize"
	// ActionSuggestCSS asks for CSS improvements to the given markup or stylesheet.
	ActionSuggestCSS Action = "suggest_css"
)

// profile holds the prompt and generation settings for one action.
type profile struct {
	instruction string
	prefill     string
	stop        []string
	maxTokens   int
	shrinkRatio float64
	fallback    string
}

var profiles = map[Action]profile{
	ActionSummarize: {
		instruction: "Summarize briefly.",
		maxTokens:   150,
		shrinkRatio: 0.6,
		fallback:    "Error generating summary. The text might be too long or complex.",
	},
	ActionSuggestCSS: {
		instruction: "Suggest CSS improvements.",
		prefill:     "```css",
		stop:        []string{"```"},
		maxTokens:   200,
		shrinkRatio: 0.5,
		fallback:    "/* Error generating CSS suggestions. */",
	},
}

// ParseAction maps a request value to an Action. An empty value means ActionSummarize.
func ParseAction(s string) (Action, error) {
	a := Action(strings.TrimSpace(strings.ToLower(s)))
	if a == "" {
		return ActionSummarize, nil
	}
	if _, ok := profiles[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := profiles[a]
	return ok
}

// Fallback returns the text returned to callers when the model fails.
func (a Action) Fallback() string {
	return a.profile().fallback
}

// MaxTokens returns the generation limit for a.
func (a Action) MaxTokens() int {
	return a.profile().maxTokens
}

func (a Action) profile() profile {
	if p, ok := profiles[a]; ok {
		return p
	}
	return profiles[ActionSummarize]
}
