package sender

import (
	"bedrockbot/internal/core/domain"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// TelegramBot is the subset of *bot.Bot used for replies.
type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

const TelegramMessageLimit = 4096

type Telegram struct {
	bot TelegramBot
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot}
}

func (s *Telegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range splitMessage(text, TelegramMessageLimit) {
		_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		})
		if err != nil {
			log.Error().Err(err).Int64("chatId", chatID).Msg("failed to send message")
			return err
		}
	}

	return nil
}

func (s *Telegram) SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("error creating file name: %w", err)
	}

	params := &bot.SendPhotoParams{
		ChatID:  chatID,
		Caption: caption,
		Photo: &models.InputFileUpload{Filename: id.String() + ".png",
			Data: bytes.NewReader(photo)},
	}

	_, err = s.bot.SendPhoto(ctx, params)
	if err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("failed to send photo response")
		return err
	}

	return nil
}

const ChatActionRepeatSeconds = 5

func (s *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	log.Debug().Int64("chatId", chatID).Msg("starting action routine")

	var chatAction models.ChatAction
	switch action {
	case domain.SendingPhoto:
		chatAction = models.ChatActionUploadPhoto
	default:
		chatAction = models.ChatActionTyping
	}

	for {
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			log.Debug().Err(err).Int64("chatId", chatID).Msg("stopping action routine")
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatId", chatID).Msg("done, stopping action routine")
			return
		case <-time.After(ChatActionRepeatSeconds * time.Second):
		}
	}
}

// splitMessage cuts text into chunks of at most limit runes. Empty text yields a single empty chunk.
func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		n := min(limit, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}

	return chunks
}
