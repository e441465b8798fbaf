package summarizer

import (
	"strings"

	"condense/internal/infra/tokenizer"
	"condense/internal/utils/text"
)

const truncationMarker = "..."

// Prompt is a provider-neutral chat prompt.
type Prompt struct {
	Action    Action
	System    string
	User      string
	Prefill   string
	Stop      []string
	MaxTokens int

	// Tokens is the counted size of the rendered prompt.
	Tokens int
	// Shrunk is set when User was cut to fit the token limit.
	Shrunk bool
}

// Render returns the prompt in ChatML form, the layout used for token counting.
func (p Prompt) Render() string {
	var b strings.Builder
	b.WriteString("<|im_start|>system\n")
	b.WriteString(p.System)
	b.WriteString("<|im_end|>\n<|im_start|>user\n")
	b.WriteString(p.User)
	b.WriteString("<|im_end|>\n<|im_start|>assistant\n")
	b.WriteString(p.Prefill)
	return b.String()
}

// BuildPrompt builds the prompt for action over input. When limit is positive and
// the prompt counts more than limit tokens, input is cut to the action's shrink
// ratio of its length, marked with "...", and the prompt is rebuilt once.
func BuildPrompt(action Action, input string, counter tokenizer.Counter, limit int) Prompt {
	prof := action.profile()
	p := Prompt{
		Action:    action,
		System:    prof.instruction,
		User:      input,
		Prefill:   prof.prefill,
		Stop:      prof.stop,
		MaxTokens: prof.maxTokens,
	}
	if counter == nil {
		counter = tokenizer.Estimate{}
	}

	p.Tokens = counter.Count(p.Render())
	if limit <= 0 || p.Tokens <= limit {
		return p
	}

	keep := int(float64(text.CountRunes(input)) * prof.shrinkRatio)
	p.User = text.Head(input, keep) + truncationMarker
	p.Shrunk = true
	p.Tokens = counter.Count(p.Render())
	return p
}

// trimFence strips a surrounding Markdown code fence from model output.
func trimFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = ""
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
