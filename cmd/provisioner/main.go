package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hanamilabs/safeguard-provisioner/internal/config"
	"github.com/hanamilabs/safeguard-provisioner/internal/logging"
	"github.com/hanamilabs/safeguard-provisioner/internal/service"
	"github.com/hanamilabs/safeguard-provisioner/internal/telegram"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "provisioner: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return runProvision()
	}

	switch args[0] {
	case "provision":
		return runProvision()
	case "check":
		return runCheck()
	case "resolve-bot":
		return runResolveBot(args[1:])
	case "bootstrap":
		return runBootstrap(args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runProvision() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.ValidateProvision(); err != nil {
		return err
	}

	logger, logPath, err := logging.New(cfg, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	platform, err := telegram.Connect(ctx, cfg)
	if err != nil {
		return err
	}

	setup := service.NewSetupService(logger, platform, service.Options{
		BotUsername:  cfg.BotUsername,
		PollAttempts: cfg.PollAttempts,
		PollInterval: cfg.PollInterval,
	})

	report, err := setup.Run(ctx, service.Params{
		PublicUsername: cfg.PublicUsername,
		GroupTitle:     cfg.GroupTitle,
		ChannelTitle:   cfg.ChannelTitle,
	})
	if err != nil {
		return err
	}

	fmt.Print(report.Render())
	fmt.Printf("Log file: %s\n", logPath)
	return nil
}

func runCheck() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	platform, err := telegram.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer platform.Close()

	authorized, err := platform.Authorized(ctx)
	if err != nil {
		return err
	}
	if !authorized {
		return fmt.Errorf("session %s is not authorized; log in with an authorized session first", cfg.SessionFile)
	}

	fmt.Printf("session %s is authorized\n", cfg.SessionFile)
	return nil
}

func runResolveBot(args []string) error {
	fs := flag.NewFlagSet("resolve-bot", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var username string
	fs.StringVar(&username, "username", "", "bot username to resolve (defaults to GUARD_BOT_USERNAME)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if strings.TrimSpace(username) == "" {
		username = cfg.BotUsername
	}
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	platform, err := telegram.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer platform.Close()

	bot, err := platform.ResolveBot(ctx, username)
	if err != nil {
		return err
	}

	fmt.Printf("resolved @%s -> %d\n", bot.Username, bot.ID)
	return nil
}

func runBootstrap(args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var envPath string
	fs.StringVar(&envPath, "env-file", ".env", "path to output .env file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	lines := []string{
		"TELEGRAM_API_ID=" + strconv.Itoa(cfg.APIID),
		"TELEGRAM_API_HASH=" + cfg.APIHash,
		"PUBLIC_USERNAME=" + cfg.PublicUsername,
		"GROUP_TITLE=" + cfg.GroupTitle,
		"CHANNEL_TITLE=" + cfg.ChannelTitle,
		"GUARD_BOT_USERNAME=" + cfg.BotUsername,
		"DATA_DIR=" + cfg.DataDir,
		"SESSION_FILE=" + cfg.SessionFile,
		"LOG_LEVEL=" + cfg.LogLevel,
		"SETUP_POLL_ATTEMPTS=" + strconv.Itoa(cfg.PollAttempts),
		"SETUP_POLL_INTERVAL_MS=" + strconv.FormatInt(cfg.PollInterval.Milliseconds(), 10),
		"REQUEST_TIMEOUT_MS=" + strconv.FormatInt(cfg.RequestTimeout.Milliseconds(), 10),
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", envPath)
	return nil
}

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}
