package command

import (
	"bedrockbot/internal/core/domain"
	"bedrockbot/internal/core/port"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultCaption      = "Generated Image"
	DefaultImageFailure = "Failed to generate image."
)

type Image struct {
	imageGenerator port.ImageGenerator
	imageSender    port.ImageSender
	textSender     port.TextSender
	caption        string
	failureText    string
}

func NewImage(imageGenerator port.ImageGenerator,
	imageSender port.ImageSender,
	textSender port.TextSender,
	caption string) *Image {
	if caption == "" {
		caption = DefaultCaption
	}

	return &Image{imageGenerator: imageGenerator,
		imageSender: imageSender,
		textSender:  textSender,
		caption:     caption,
		failureText: DefaultImageFailure}
}

func (i *Image) GetCommand() domain.CommandKind {
	return domain.Image
}

func (i *Image) Respond(ctx context.Context, timeout time.Duration, message *domain.Message, cmd domain.Command) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("prompt", cmd.Argument).
		Stringer("command", i.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	go i.textSender.SendChatAction(ctx, message.ChatID, domain.SendingPhoto)

	image, err := i.imageGenerator.GenerateFromPrompt(ctx, cmd.Argument)
	if err != nil {
		return i.notifyFailure(ctx, message, fmt.Errorf("error generating image: %w", err))
	}

	err = i.imageSender.SendPhoto(ctx, message.ChatID, image, i.caption)
	if err != nil {
		return i.notifyFailure(ctx, message, fmt.Errorf("error sending image: %w", err))
	}

	l.Debug().Int("bytes", len(image)).Msg("sent image")

	return nil
}

func (i *Image) notifyFailure(ctx context.Context, message *domain.Message, err error) error {
	if sendErr := i.textSender.SendMessage(ctx, message.ChatID, i.failureText); sendErr != nil {
		return errors.Join(err, fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, sendErr))
	}
	return err
}
