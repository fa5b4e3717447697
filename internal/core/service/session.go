package service

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// SessionStore keeps the questions asked per chat for the lifetime of the bot. Nothing is persisted.
type SessionStore struct {
	chats map[int64][]string
	mutex *sync.Mutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		chats: make(map[int64][]string),
		mutex: &sync.Mutex{},
	}
}

func (s *SessionStore) Append(chatID int64, question string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.chats[chatID]; !ok {
		log.Debug().Int64("chatId", chatID).Msg("new session")
	}

	s.chats[chatID] = append(s.chats[chatID], question)
	return len(s.chats[chatID])
}

func (s *SessionStore) Questions(chatID int64) []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	questions := make([]string, len(s.chats[chatID]))
	copy(questions, s.chats[chatID])
	return questions
}
