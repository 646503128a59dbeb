package cgrag

import "testing"

func TestClassifyGap(t *testing.T) {
	tests := []struct {
		gap      string
		specific bool
		symbol   string
		pathHint string
	}{
		{"parseConfig", true, "parseConfig", ""},
		{"parseConfig()", true, "parseConfig", ""},
		{"`parseConfig`", true, "parseConfig", ""},
		{"Config.load", true, "load", ""},
		{"`parseConfig` in `config.py`", true, "parseConfig", "config.py"},
		{"parseConfig in config.py", true, "parseConfig", "config.py"},
		{"parseConfig() in src/config.py", true, "parseConfig", "src/config.py"},
		{"  parseConfig  ", true, "parseConfig", ""},
		{"how retries are scheduled", false, "", ""},
		{"details of the frobnication retry policy", false, "", ""},
		{"", false, "", ""},
	}

	for _, tt := range tests {
		got := classifyGap(tt.gap)
		if got.Specific != tt.specific {
			t.Errorf("classifyGap(%q).Specific = %v, want %v", tt.gap, got.Specific, tt.specific)
			continue
		}
		if !tt.specific {
			continue
		}
		if got.Symbol != tt.symbol {
			t.Errorf("classifyGap(%q).Symbol = %q, want %q", tt.gap, got.Symbol, tt.symbol)
		}
		if got.PathHint != tt.pathHint {
			t.Errorf("classifyGap(%q).PathHint = %q, want %q", tt.gap, got.PathHint, tt.pathHint)
		}
	}
}

func TestParseReasoning_ToleratesNoise(t *testing.T) {
	raw := "Here is my answer:\n```json\n{\"answer\":\"It parses config.\",\"citations\":[{\"path\":\"config.py\",\"relevant_text\":\"def parseConfig\"}],\"missing_context\":[\"none\"]}\n```"
	r := parseReasoning(raw)
	if r.Answer != "It parses config." {
		t.Errorf("answer = %q", r.Answer)
	}
	if len(r.Citations) != 1 || r.Citations[0].Path != "config.py" {
		t.Errorf("citations = %+v", r.Citations)
	}
	if len(r.Gaps) != 0 {
		t.Errorf("placeholder gaps not dropped: %v", r.Gaps)
	}
}

func TestParseReasoning_FallsBackToRawContent(t *testing.T) {
	r := parseReasoning("plain prose, no JSON anywhere")
	if r.Answer != "plain prose, no JSON anywhere" {
		t.Errorf("fallback answer = %q", r.Answer)
	}
	if len(r.Gaps) != 0 || len(r.Citations) != 0 {
		t.Errorf("fallback should carry only the answer: %+v", r)
	}
}
