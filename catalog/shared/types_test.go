package shared

import "testing"

func TestParseCreateMode(t *testing.T) {
	cases := map[string]CreateMode{
		"":          CreateModeCreate,
		"create":    CreateModeCreate,
		"CREATE":    CreateModeCreate,
		"exist_ok":  CreateModeExistOK,
		"existok":   CreateModeExistOK,
		"ExistOk":   CreateModeExistOK,
		"overwrite": CreateModeOverwrite,
	}
	for input, expected := range cases {
		got, err := ParseCreateMode(input)
		if err != nil {
			t.Errorf("ParseCreateMode(%q) failed: %v", input, err)
			continue
		}
		if got != expected {
			t.Errorf("ParseCreateMode(%q) = %v, expected %v", input, got, expected)
		}
	}

	_, err := ParseCreateMode("upsert")
	if err == nil {
		t.Fatal("Expected error for unknown mode")
	}
	if !IsInvalidInput(err) {
		t.Errorf("Expected invalid input, got %v", err)
	}
}

func TestParseDropMode(t *testing.T) {
	for _, input := range []string{"", "fail", "FAIL"} {
		got, err := ParseDropMode(input)
		if err != nil || got != DropModeFail {
			t.Errorf("ParseDropMode(%q) = %v, %v", input, got, err)
		}
	}
	got, err := ParseDropMode("skip")
	if err != nil || got != DropModeSkip {
		t.Errorf("ParseDropMode(skip) = %v, %v", got, err)
	}
	if _, err := ParseDropMode("force"); err == nil {
		t.Error("Expected error for unknown drop mode")
	}
}

func TestParseDropBehavior(t *testing.T) {
	for _, input := range []string{"", "restrict"} {
		got, err := ParseDropBehavior(input)
		if err != nil || got != DropBehaviorRestrict {
			t.Errorf("ParseDropBehavior(%q) = %v, %v", input, got, err)
		}
	}
	got, err := ParseDropBehavior("CASCADE")
	if err != nil || got != DropBehaviorCascade {
		t.Errorf("ParseDropBehavior(CASCADE) = %v, %v", got, err)
	}
	if _, err := ParseDropBehavior("purge"); err == nil {
		t.Error("Expected error for unknown behavior")
	}
}

func TestModeRoundTrip(t *testing.T) {
	for _, mode := range []CreateMode{CreateModeCreate, CreateModeExistOK, CreateModeOverwrite} {
		parsed, err := ParseCreateMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("CreateMode %v did not round trip: %v, %v", mode, parsed, err)
		}
	}
	for _, mode := range []DropMode{DropModeFail, DropModeSkip} {
		parsed, err := ParseDropMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("DropMode %v did not round trip: %v, %v", mode, parsed, err)
		}
	}
	for _, behavior := range []DropBehavior{DropBehaviorRestrict, DropBehaviorCascade} {
		parsed, err := ParseDropBehavior(behavior.String())
		if err != nil || parsed != behavior {
			t.Errorf("DropBehavior %v did not round trip: %v, %v", behavior, parsed, err)
		}
	}
}
