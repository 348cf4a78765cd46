package inference

import "testing"

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"":        ModeAuto,
		"auto":    ModeAuto,
		"REMOTE":  ModeRemote,
		" local ": ModeLocal,
		"server":  ModeServer,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("ollama-cloud"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestModeResolve(t *testing.T) {
	if got := ModeAuto.Resolve("key"); got != ModeRemote {
		t.Fatalf("auto+key -> %q", got)
	}
	if got := ModeAuto.Resolve(""); got != ModeLocal {
		t.Fatalf("auto without key -> %q", got)
	}
	if got := ModeLocal.Resolve("key"); got != ModeLocal {
		t.Fatalf("explicit local -> %q", got)
	}
	if got := ModeRemote.Resolve(""); got != ModeRemote {
		t.Fatalf("explicit remote -> %q", got)
	}
}

func TestModeKind(t *testing.T) {
	if ModeRemote.Kind() != KindRemote {
		t.Fatalf("remote kind")
	}
	for _, m := range []Mode{ModeLocal, ModeServer} {
		if m.Kind() != KindLocal {
			t.Fatalf("%s kind = %v", m, m.Kind())
		}
	}
}
