package chat

import (
	"errors"
	"strings"
	"testing"
)

func TestStaticCompleterEchoesQuestion(t *testing.T) {
	answer, err := StaticCompleter{}.Complete(t.Context(), "you are helpful", "what is a token?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(answer, "what is a token?") {
		t.Fatalf("answer %q does not echo the question", answer)
	}
}

func TestStaticCompleterRejectsBlankQuestion(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := (StaticCompleter{}).Complete(t.Context(), "", q); !errors.Is(err, ErrEmptyQuestion) {
			t.Fatalf("question %q: got err %v, want ErrEmptyQuestion", q, err)
		}
	}
}
