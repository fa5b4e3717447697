package app

import (
	"bedrockbot/internal/adapters/generator"
	"bedrockbot/internal/adapters/handler"
	"bedrockbot/internal/adapters/sender"
	"bedrockbot/internal/adapters/updates"
	"bedrockbot/internal/adapters/web"
	"bedrockbot/internal/config"
	"bedrockbot/internal/core/domain"
	"bedrockbot/internal/core/domain/command"
	"bedrockbot/internal/core/port"
	"bedrockbot/internal/core/service"
	"context"
	"errors"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

var ErrMissingToken = errors.New("telegram bot token is not configured")

// Generators holds the backends shared by the bot and the web front-end.
type Generators struct {
	Text  port.TextGenerator
	Image port.ImageGenerator
}

// NewGenerators builds the text generator selected by text.provider and the retrying Bedrock image
// generator.
func NewGenerators(ctx context.Context, cfg *config.Config) (*Generators, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWS.Region),
		awsconfig.WithRetryMaxAttempts(cfg.AWS.SDKMaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}

	return newGenerators(cfg, bedrockruntime.NewFromConfig(awsCfg)), nil
}

func newGenerators(cfg *config.Config, client generator.BedrockClient) *Generators {
	textConfig := domain.TextConfig{
		MaxTokens:   cfg.Text.MaxTokens,
		Temperature: cfg.Text.Temperature,
	}

	bedrock := generator.NewBedrock(generator.BedrockParams{
		Client:       client,
		TextModelID:  cfg.Text.ModelID,
		ImageModelID: cfg.Image.ModelID,
		Text:         textConfig,
		Image: domain.ImageConfig{
			Scale:   cfg.Image.Scale,
			Seed:    cfg.Image.Seed,
			Quality: cfg.Image.Quality,
			Width:   cfg.Image.Width,
			Height:  cfg.Image.Height,
			Count:   1,
		},
	})

	var text port.TextGenerator = bedrock
	if cfg.Text.Provider == config.ProviderOpenRouter {
		text = generator.NewOpenRouter(cfg.Text.APIKey, cfg.Text.OpenRouterModel, textConfig)
	}

	image := service.NewRetryingImageGenerator(service.RetryParams{
		Generator:        bedrock,
		MaxAttempts:      cfg.Image.MaxAttempts,
		Cooldown:         cfg.Image.Cooldown,
		PostSuccessDelay: cfg.Image.PostSuccessDelay,
	})

	log.Info().
		Str("textProvider", cfg.Text.Provider).
		Str("imageModel", cfg.Image.ModelID).
		Msg("generators initialized")

	return &Generators{Text: text, Image: image}
}

// Bot bundles everything needed to answer Telegram commands.
type Bot struct {
	Sender     *sender.Telegram
	Sessions   *service.SessionStore
	Registry   *command.Registry
	Dispatcher *handler.Command
	Auditor    *service.Auditor
}

// NewBot wires the command handlers to a sender. The generators are shared with the web server.
func NewBot(cfg *config.Config, tg sender.TelegramBot, gens *Generators) *Bot {
	s := sender.NewTelegram(tg)
	sessions := service.NewSessionStore()

	registry := command.NewRegistry(
		command.NewStart(s, cfg.Bot.Greeting),
		command.NewAsk(command.AskParams{
			TextGenerator: gens.Text,
			TextSender:    s,
			Sessions:      sessions,
			Language:      cfg.Bot.Language,
			Template:      cfg.Bot.Template,
			FailureText:   cfg.Bot.AskFailure,
		}),
		command.NewImage(gens.Image, s, s, cfg.Bot.Caption),
		command.NewHelp(s, cfg.Bot.HelpText),
	)
	log.Info().Int("commands", len(registry.ListCommands())).Msg("command handlers registered")

	return &Bot{
		Sender:     s,
		Sessions:   sessions,
		Registry:   registry,
		Dispatcher: handler.NewCommand(registry, cfg.Handler.Timeout),
		Auditor:    service.NewAuditor(s, cfg.Telegram.LogChatID),
	}
}

// Serve runs the update poller and the web server until ctx is cancelled. A web server failure also stops
// the poller.
func Serve(ctx context.Context, cfg *config.Config) error {
	if cfg.Telegram.BotToken == "" {
		return ErrMissingToken
	}

	gens, err := NewGenerators(ctx, cfg)
	if err != nil {
		return err
	}

	tg, err := bot.New(cfg.Telegram.BotToken,
		bot.WithServerURL(cfg.Telegram.APIURL),
		bot.WithDefaultHandler(noOpHandler),
		bot.WithHTTPClient(cfg.Telegram.PollTimeout, &http.Client{Timeout: cfg.Handler.Timeout}),
	)
	if err != nil {
		return fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	fetcher := updates.NewTelegram(cfg.Telegram.APIURL, cfg.Telegram.BotToken)

	return serve(ctx, cfg, NewBot(cfg, tg, gens), gens, fetcher)
}

func serve(ctx context.Context, cfg *config.Config, b *Bot, gens *Generators, fetcher port.UpdateFetcher) error {
	if cfg.Bot.PollEnabled {
		poller := service.NewPoller(service.PollerParams{
			Fetcher:      fetcher,
			Dispatcher:   b.Dispatcher,
			PollTimeout:  cfg.Telegram.PollTimeout,
			ErrorBackoff: cfg.Telegram.ErrorBackoff,
		})

		log.Info().Msg("bot listening")
		poller.Start(ctx)
		defer poller.Stop()
	}

	if !cfg.Web.Enabled {
		<-ctx.Done()
		return nil
	}

	server := web.NewServer(web.Params{
		Addr:           cfg.Web.Addr,
		TextGenerator:  gens.Text,
		ImageGenerator: gens.Image,
		Auditor:        b.Auditor,
		Languages:      cfg.Chat.Languages,
		Suggestions:    cfg.Chat.Suggestions,
		Template:       cfg.Bot.Template,
	})

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("web server stopped: %w", err)
	}

	return nil
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
