package judge

import "testing"

type verdict struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("plain JSON", func(t *testing.T) {
		t.Parallel()

		got := Decode[verdict](`{"score": 7.5, "reason": "clear match"}`)
		if got.Malformed {
			t.Fatalf("Malformed = true, raw = %q", got.Raw)
		}
		if got.Payload.Score != 7.5 || got.Payload.Reason != "clear match" {
			t.Errorf("Payload = %+v", got.Payload)
		}
	})

	t.Run("json fence", func(t *testing.T) {
		t.Parallel()

		raw := "```json\n{\"score\": 3}\n```"
		got := Decode[verdict](raw)
		if got.Malformed {
			t.Fatalf("Malformed = true, raw = %q", got.Raw)
		}
		if got.Payload.Score != 3 {
			t.Errorf("Score = %v, want 3", got.Payload.Score)
		}
	})

	t.Run("bare fence", func(t *testing.T) {
		t.Parallel()

		got := Decode[verdict]("```\n{\"score\": 1}\n```")
		if got.Malformed {
			t.Fatalf("Malformed = true, raw = %q", got.Raw)
		}
		if got.Payload.Score != 1 {
			t.Errorf("Score = %v, want 1", got.Payload.Score)
		}
	})

	t.Run("prose is malformed", func(t *testing.T) {
		t.Parallel()

		raw := "I think this page is relevant."
		got := Decode[verdict](raw)
		if !got.Malformed {
			t.Fatal("Malformed = false, want true")
		}
		if got.Raw != raw {
			t.Errorf("Raw = %q, want original text", got.Raw)
		}
		if got.Payload != (verdict{}) {
			t.Errorf("Payload = %+v, want zero value", got.Payload)
		}
	})

	t.Run("truncated JSON is malformed", func(t *testing.T) {
		t.Parallel()

		if got := Decode[verdict](`{"score": 7.5, "rea`); !got.Malformed {
			t.Error("Malformed = false, want true")
		}
	})
}

func TestStripFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fence", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding whitespace", in: "  {\"a\":1}\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripFence(tt.in); got != tt.want {
				t.Errorf("StripFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
