package audio

import "testing"

func TestSpokenPrompt(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{prompt: "3 + 4 = ?", want: "What is 3 plus 4?"},
		{prompt: "10 - 7 = ?", want: "What is 10 minus 7?"},
		{prompt: "12 × 3 = ?", want: "What is 12 times 3?"},
		{prompt: "20 ÷ 5 = ?", want: "What is 20 divided by 5?"},
		{prompt: "  3 + 4 = ?  ", want: "What is 3 plus 4?"},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			if got := SpokenPrompt(tt.prompt); got != tt.want {
				t.Errorf("SpokenPrompt(%q) = %q, want %q", tt.prompt, got, tt.want)
			}
		})
	}
}
