package domain

type Update struct {
	ID      int64
	Message *Message
}

type Message struct {
	ID       int
	ChatID   int64
	Username string
	Text     string
}

type Action string

const (
	Typing       Action = "typing"
	SendingPhoto Action = "sending_photo"
)

// TextPrompt is a single text generation request. An empty Template falls back to DefaultTemplate.
type TextPrompt struct {
	Language string
	Text     string
	Template string
}

type TextConfig struct {
	MaxTokens   int
	Temperature float64
}

type ImageConfig struct {
	Scale   float64
	Seed    int
	Quality string
	Width   int
	Height  int
	Count   int
}
