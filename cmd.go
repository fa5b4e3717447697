package main

import (
	"bedrockbot/internal/app"
	"bedrockbot/internal/config"
	"bedrockbot/internal/core/domain"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
	logCloser  io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "bedrockbot",
		Short:         "Telegram bot and web API for Bedrock text and image generation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.New(), opts.configPath)
			if err != nil {
				return err
			}

			closer, err := config.SetupLogging(cfg.Log, cfg.Bot.LogLevel, os.Stderr)
			if err != nil {
				return err
			}

			opts.cfg = cfg
			opts.logCloser = closer
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if opts.logCloser != nil {
				return opts.logCloser.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file (default ./config.toml)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newAskCmd(opts))
	cmd.AddCommand(newImageCmd(opts))

	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram poller and the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	log.Info().Msg("starting bedrockbot...")
	return app.Serve(cmd.Context(), opts.cfg)
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Generate a single text answer and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gens, err := app.NewGenerators(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}

			if language == "" {
				language = opts.cfg.Bot.Language
			}

			answer, err := gens.Text.GenerateText(cmd.Context(), domain.TextPrompt{
				Language: language,
				Text:     strings.Join(args, " "),
				Template: opts.cfg.Bot.Template,
			})
			if err != nil {
				return fmt.Errorf("failed to generate response: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "answer language (default bot.language)")

	return cmd
}

func newImageCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate a single image and write it to a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gens, err := app.NewGenerators(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}

			img, err := gens.Image.GenerateFromPrompt(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, img, 0o644); err != nil {
				return fmt.Errorf("could not write image: %w", err)
			}

			log.Info().Str("path", out).Int("bytes", len(img)).Msg("image written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "image.png", "output file")

	return cmd
}
