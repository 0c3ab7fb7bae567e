package telegram

import (
	"strings"
	"testing"

	logx "recallbot/pkg/logx"
)

func TestSplitTextShortPassThrough(t *testing.T) {
	t.Parallel()
	got := splitText("hello", 100, "")
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("splitText = %v", got)
	}
}

func TestSplitTextPrefersNewlines(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("aaaa aaaa\n", 30)
	got := splitText(s, 100, "")
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	for i, c := range got {
		if len([]rune(c)) > 100 {
			t.Fatalf("chunk %d exceeds limit: %d runes", i, len([]rune(c)))
		}
		if strings.HasSuffix(c, "\n") {
			t.Fatalf("chunk %d ends with newline", i)
		}
	}
}

func TestSplitTextAvoidsDanglingHTMLTag(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("x", 95) + "<b>bold</b>"
	got := splitText(s, 100, "HTML")
	if len(got) < 2 {
		t.Fatalf("expected split, got %v", got)
	}
	if strings.Contains(got[0], "<b") && !strings.Contains(got[0], ">") {
		t.Fatalf("first chunk ends inside a tag: %q", got[0])
	}
}

func TestNewRequiresToken(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{Token: "  "}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestNewOffline(t *testing.T) {
	t.Parallel()
	a, err := New(Config{Token: "123:abc", Offline: true}, logx.Nop())
	if err != nil {
		t.Fatalf("New offline: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
