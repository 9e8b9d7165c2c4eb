package vision

import (
	"fmt"
	"strings"
)

// Mode selects how the orchestrator talks to the vision service.
type Mode string

const (
	// ModeSingle issues one label detection call that also returns image properties.
	ModeSingle Mode = "single"
	// ModeFull issues one call per enabled feature, concurrently.
	ModeFull Mode = "full"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeFull, "":
		return ModeFull, nil
	}
	return "", fmt.Errorf("unknown vision mode %q", s)
}

// Features selects which result sections are computed.
type Features struct {
	Labels      bool
	Text        bool
	Celebrities bool
	Moderation  bool
	Colors      bool
}

// AllFeatures enables every section.
func AllFeatures() Features {
	return Features{Labels: true, Text: true, Celebrities: true, Moderation: true, Colors: true}
}

// SingleFeatures is the fixed feature set of single-operation mode.
func SingleFeatures() Features {
	return Features{Labels: true, Colors: true}
}

// ParseFeatures reads a comma separated feature list. An empty list enables everything.
func ParseFeatures(s string) (Features, error) {
	if strings.TrimSpace(s) == "" {
		return AllFeatures(), nil
	}
	var f Features
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "labels":
			f.Labels = true
		case "text":
			f.Text = true
		case "celebrities":
			f.Celebrities = true
		case "moderation":
			f.Moderation = true
		case "colors":
			f.Colors = true
		case "":
		default:
			return Features{}, fmt.Errorf("unknown vision feature %q", part)
		}
	}
	if f == (Features{}) {
		return Features{}, fmt.Errorf("no vision features enabled")
	}
	return f, nil
}

// String lists the enabled features in a stable order.
func (f Features) String() string {
	var names []string
	if f.Labels {
		names = append(names, "labels")
	}
	if f.Text {
		names = append(names, "text")
	}
	if f.Celebrities {
		names = append(names, "celebrities")
	}
	if f.Moderation {
		names = append(names, "moderation")
	}
	if f.Colors {
		names = append(names, "colors")
	}
	return strings.Join(names, ",")
}
