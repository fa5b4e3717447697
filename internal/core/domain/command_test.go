package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseCommand(t *testing.T) {
	type TestCase struct {
		description string
		text        string
		want        Command
	}

	testCases := []TestCase{
		{
			description: "start",
			text:        "/start",
			want:        Command{Kind: Start, Raw: "/start"},
		},
		{
			description: "start with bot suffix",
			text:        "/start@somebot",
			want:        Command{Kind: Start, Raw: "/start@somebot"},
		},
		{
			description: "ask with question",
			text:        "/ask foo",
			want:        Command{Kind: Ask, Argument: "foo", Raw: "/ask foo"},
		},
		{
			description: "ask keeps the whole remainder",
			text:        "/ask who is Buddha?",
			want:        Command{Kind: Ask, Argument: "who is Buddha?", Raw: "/ask who is Buddha?"},
		},
		{
			description: "ask without space is unrecognized",
			text:        "/ask",
			want:        Command{Kind: Unrecognized, Raw: "/ask"},
		},
		{
			description: "image with prompt",
			text:        "/image bar",
			want:        Command{Kind: Image, Argument: "bar", Raw: "/image bar"},
		},
		{
			description: "image with empty prompt",
			text:        "/image ",
			want:        Command{Kind: Image, Argument: "", Raw: "/image "},
		},
		{
			description: "plain text",
			text:        "hello",
			want:        Command{Kind: Unrecognized, Raw: "hello"},
		},
		{
			description: "empty text",
			text:        "",
			want:        Command{Kind: Unrecognized, Raw: ""},
		},
		{
			description: "prefix match is case sensitive",
			text:        "/ASK foo",
			want:        Command{Kind: Unrecognized, Raw: "/ASK foo"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			got := ParseCommand(testCase.text)

			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestParseCommand_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		prefix := rapid.SampledFrom([]string{"", "/start", "/ask ", "/image ", "/ask", "/other "}).Draw(rt, "prefix")
		rest := rapid.StringMatching(`[a-zA-Z0-9 ?]{0,20}`).Draw(rt, "rest")
		text := prefix + rest

		first := ParseCommand(text)
		second := ParseCommand(text)

		if first != second {
			rt.Fatalf("classification is not deterministic for %q", text)
		}
		if first.Raw != text {
			rt.Fatalf("raw text not preserved: %q != %q", first.Raw, text)
		}

		switch first.Kind {
		case Ask:
			if !strings.HasPrefix(text, "/ask ") || first.Argument != text[len("/ask "):] {
				rt.Fatalf("bad ask classification for %q", text)
			}
		case Image:
			if !strings.HasPrefix(text, "/image ") || first.Argument != text[len("/image "):] {
				rt.Fatalf("bad image classification for %q", text)
			}
		case Start:
			if !strings.HasPrefix(text, "/start") {
				rt.Fatalf("bad start classification for %q", text)
			}
		case Unrecognized:
			if strings.HasPrefix(text, "/start") || strings.HasPrefix(text, "/ask ") ||
				strings.HasPrefix(text, "/image ") {
				rt.Fatalf("%q should have been recognized", text)
			}
		}
	})
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "/start", Start.String())
	assert.Equal(t, "/ask", Ask.String())
	assert.Equal(t, "/image", Image.String())
	assert.Equal(t, "unrecognized", Unrecognized.String())
}
