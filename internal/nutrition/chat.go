package nutrition

import (
	"math"
	"strings"
)

// MacroReport is the per-food macro summary a chat answer may carry.
type MacroReport struct {
	Carbs   float64 `json:"carbs"`
	Protein float64 `json:"protein"`
	Fats    float64 `json:"fats"`
}

// ChatReply is the assistant answer returned to clients.
type ChatReply struct {
	Text      string       `json:"text"`
	Report    *MacroReport `json:"report,omitempty"`
	HealthTip string       `json:"healthTip,omitempty"`
	Info      string       `json:"info,omitempty"`
}

const maxChatText = 4000

// ParseChat reads a JSON chat answer. Plain-text answers are returned as Text.
func ParseChat(raw string) ChatReply {
	obj, ok := ExtractObject(raw)
	if !ok {
		return ChatReply{Text: truncate(StripFences(raw), maxChatText)}
	}

	reply := ChatReply{
		Text:      text(obj, "text", maxChatText),
		HealthTip: text(obj, "healthTip", maxChatText),
		Info:      text(obj, "info", maxChatText),
	}
	if r := object(obj, "report"); len(r) > 0 {
		reply.Report = &MacroReport{
			Carbs:   nonNegative(number(r["carbs"])),
			Protein: nonNegative(number(r["protein"])),
			Fats:    nonNegative(number(r["fats"])),
		}
	}
	if reply.Text == "" {
		reply.Text = truncate(strings.TrimSpace(StripFences(raw)), maxChatText)
	}
	return reply
}

// nonNegative zeroes negative, NaN and absurd values.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 || v > 1e6 {
		return 0
	}
	return v
}
