package inference

import (
	"fmt"
	"strings"
)

// Mode names a backend selection.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
	ModeServer Mode = "server"
)

// ParseMode accepts auto|remote|local|server (case-insensitive). Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeRemote, ModeLocal, ModeServer:
		return m, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want auto|remote|local|server)", s)
	}
}

// Resolve turns auto into remote when an API key is present and local otherwise.
// Explicit modes are returned unchanged.
func (m Mode) Resolve(apiKey string) Mode {
	if m != ModeAuto && m != "" {
		return m
	}
	if apiKey != "" {
		return ModeRemote
	}
	return ModeLocal
}

// Kind reports which failure family the mode belongs to.
func (m Mode) Kind() Kind {
	if m == ModeRemote {
		return KindRemote
	}
	return KindLocal
}
