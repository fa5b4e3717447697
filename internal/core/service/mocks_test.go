package service

import (
	"bedrockbot/internal/core/domain"
	"context"
	"sync"
	"time"
)

type mockTextSender struct {
	sendError   error
	callCount   int
	chatIDs     []int64
	sendReplies []string
}

func (m *mockTextSender) SendMessage(_ context.Context, chatID int64, text string) error {
	m.callCount++
	m.chatIDs = append(m.chatIDs, chatID)
	m.sendReplies = append(m.sendReplies, text)
	return m.sendError
}

func (m *mockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

type generatorResult struct {
	image []byte
	err   error
}

// scriptedImageGenerator returns the scripted results in order, repeating the last one.
type scriptedImageGenerator struct {
	results []generatorResult
	calls   int
}

func (s *scriptedImageGenerator) GenerateFromPrompt(_ context.Context, _ string) ([]byte, error) {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i].image, s.results[i].err
}

type recordingSleeper struct {
	mutex  sync.Mutex
	sleeps []time.Duration
	err    error
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sleeps = append(r.sleeps, d)
	return r.err
}

type fetchResult struct {
	updates []domain.Update
	err     error
}

type mockFetcher struct {
	mutex   sync.Mutex
	results []fetchResult
	offsets []int64
}

func (m *mockFetcher) GetUpdates(ctx context.Context, offset int64, _ time.Duration) ([]domain.Update, error) {
	m.mutex.Lock()
	m.offsets = append(m.offsets, offset)
	if len(m.results) == 0 {
		m.mutex.Unlock()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	r := m.results[0]
	m.results = m.results[1:]
	m.mutex.Unlock()
	return r.updates, r.err
}

func (m *mockFetcher) Offsets() []int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]int64(nil), m.offsets...)
}

type mockDispatcher struct {
	mutex   sync.Mutex
	handled []int64
}

func (m *mockDispatcher) Handle(_ context.Context, update domain.Update) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.handled = append(m.handled, update.ID)
}

func (m *mockDispatcher) Handled() []int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]int64(nil), m.handled...)
}
