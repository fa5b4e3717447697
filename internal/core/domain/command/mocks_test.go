package command

import (
	"bedrockbot/internal/core/domain"
	"context"
	"sync"
)

type MockTextGenerator struct {
	response string
	err      error
	Prompt   domain.TextPrompt
	calls    int
}

func (m *MockTextGenerator) GenerateText(_ context.Context, prompt domain.TextPrompt) (string, error) {
	m.Prompt = prompt
	m.calls++
	return m.response, m.err
}

type MockTextSender struct {
	mutex    sync.Mutex
	err      error
	Message  string
	Messages []string
	ChatIDs  []int64
}

func (m *MockTextSender) SendMessage(_ context.Context, chatID int64, text string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Message = text
	m.Messages = append(m.Messages, text)
	m.ChatIDs = append(m.ChatIDs, chatID)
	return m.err
}

func (m *MockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

type MockImageGenerator struct {
	image   []byte
	err     error
	Message string
}

func (m *MockImageGenerator) GenerateFromPrompt(_ context.Context, prompt string) ([]byte, error) {
	m.Message = prompt
	return m.image, m.err
}

type MockImageSender struct {
	photo   []byte
	caption string
	chatID  int64
	called  bool
	err     error
}

func (m *MockImageSender) SendPhoto(_ context.Context, chatID int64, photo []byte, caption string) error {
	m.chatID = chatID
	m.photo = photo
	m.caption = caption
	m.called = true
	return m.err
}

type MockSessions struct {
	chats map[int64][]string
}

func (m *MockSessions) Append(chatID int64, question string) int {
	if m.chats == nil {
		m.chats = make(map[int64][]string)
	}
	m.chats[chatID] = append(m.chats[chatID], question)
	return len(m.chats[chatID])
}

func (m *MockSessions) Questions(chatID int64) []string {
	return m.chats[chatID]
}
