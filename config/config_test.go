package config

import "testing"

func TestTagMask(t *testing.T) {
	cfg := Default()
	if len(cfg.Tags) != 9 {
		t.Fatalf("default config has %d tags", len(cfg.Tags))
	}
	if cfg.TagMask() != 0x1ff {
		t.Fatalf("tag mask %#x, want 0x1ff", cfg.TagMask())
	}
}

func TestPerTagKeys(t *testing.T) {
	cfg := Default()
	// view, toggleview, tag and toggletag for every tag.
	byCmd := map[string][]Key{}
	for _, k := range cfg.Keys {
		byCmd[k.Cmd] = append(byCmd[k.Cmd], k)
	}
	for _, cmd := range []string{"view", "toggleview", "tag", "toggletag"} {
		var masks uint
		for _, k := range byCmd[cmd] {
			masks |= k.Arg.UInt
		}
		if masks&cfg.TagMask() != cfg.TagMask() {
			t.Fatalf("%s bindings cover %#x of %#x", cmd, masks, cfg.TagMask())
		}
	}
}

func TestDefaultsSane(t *testing.T) {
	cfg := Default()
	if cfg.MFact < 0.1 || cfg.MFact > 0.9 {
		t.Fatalf("default mfact %f outside the adjustable range", cfg.MFact)
	}
	if len(cfg.Layouts) == 0 {
		t.Fatalf("no layouts configured")
	}
	for _, r := range cfg.Rules {
		if r.Tags&^cfg.TagMask() != 0 {
			t.Fatalf("rule %+v places windows on nonexistent tags", r)
		}
	}
}
