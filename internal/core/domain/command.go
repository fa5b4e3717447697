package domain

import "strings"

type CommandKind int

const (
	Unrecognized CommandKind = iota
	Start
	Ask
	Image
)

func (k CommandKind) String() string {
	switch k {
	case Start:
		return "/start"
	case Ask:
		return "/ask"
	case Image:
		return "/image"
	default:
		return "unrecognized"
	}
}

// Command is the classified form of an incoming message. Argument holds the question for Ask and the
// prompt for Image, Raw always holds the original text.
type Command struct {
	Kind     CommandKind
	Argument string
	Raw      string
}

const (
	startPrefix = "/start"
	askPrefix   = "/ask "
	imagePrefix = "/image "
)

// ParseCommand classifies message text by literal prefix.
func ParseCommand(text string) Command {
	switch {
	case strings.HasPrefix(text, startPrefix):
		return Command{Kind: Start, Raw: text}
	case strings.HasPrefix(text, askPrefix):
		return Command{Kind: Ask, Argument: text[len(askPrefix):], Raw: text}
	case strings.HasPrefix(text, imagePrefix):
		return Command{Kind: Image, Argument: text[len(imagePrefix):], Raw: text}
	default:
		return Command{Kind: Unrecognized, Raw: text}
	}
}
