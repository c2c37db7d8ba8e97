package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/haroai/haro/adapters/llm"
	"github.com/haroai/haro/adapters/mic"
	"github.com/haroai/haro/adapters/offline"
	"github.com/haroai/haro/adapters/stt"
	"github.com/haroai/haro/adapters/tts"
	"github.com/haroai/haro/domain/repositories"
	"github.com/haroai/haro/internal/api"
	"github.com/haroai/haro/internal/auth"
	"github.com/haroai/haro/internal/config"
	"github.com/haroai/haro/internal/listener"
	"github.com/haroai/haro/internal/observability"
	"github.com/haroai/haro/internal/orchestrator"
	"github.com/haroai/haro/internal/speech"
	"github.com/haroai/haro/usecase"
)

func main() {
	console := flag.Bool("console", false, "interactive text console instead of the voice loop")
	showConfig := flag.Bool("show-config", false, "print the resolved configuration and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Optional .env file for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if *showConfig {
		cfg.Print()
		return
	}

	var logger *zap.Logger
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *console); err != nil {
		logger.Error("Startup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger, console bool) error {
	fmt.Printf("%s voice assistant\n", cfg.AIName)
	fmt.Printf("Mode: %s responder, %s speech\n", cfg.Mode, cfg.TTSProvider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	responder, err := buildResponder(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("responder init: %w", err)
	}

	session := usecase.NewSession(usecase.SessionConfig{
		AIName:       cfg.AIName,
		SystemPrompt: cfg.SystemPrompt,
		MaxExchanges: cfg.MaxExchanges,
	}, responder, logger)

	synth, err := buildSynthesizer(cfg, logger)
	if err != nil {
		return fmt.Errorf("synthesizer init: %w", err)
	}

	queue := speech.NewQueue(synth, logger)
	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	metrics.RegisterQueueDepth(cfg.MetricsNamespace, queue.Depth)
	orch := orchestrator.New(orchestrator.Config{
		AIName:        cfg.AIName,
		WakePhrases:   cfg.WakePhrases,
		ShutdownGrace: 10 * time.Second,
	}, session, queue, metrics, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	server := api.NewServer(session, queue, orch, auth.New(cfg.APISecret), logger)
	server.RegisterRoutes(e)
	go func() {
		if err := e.Start(cfg.BindAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("Status server stopped", zap.Error(err))
		}
	}()
	logger.Info("Status server listening", zap.String("addr", cfg.BindAddr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	if console {
		runConsole(ctx, session, queue, quit, logger)
	} else {
		if err := runVoice(ctx, cfg, orch, logger, quit); err != nil {
			queue.Shutdown()
			return err
		}
	}

	// Farewell, bounded drain, worker join.
	orch.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Status server forced to shut down", zap.Error(err))
	}

	logger.Info("Exited")
	return nil
}

// runVoice starts the capture loop and the orchestrator, then blocks until a
// signal arrives.
func runVoice(ctx context.Context, cfg config.Config, orch *orchestrator.Orchestrator, logger *zap.Logger, quit <-chan os.Signal) error {
	device, err := mic.NewCommandDevice(mic.CommandConfig{
		Binary:     cfg.CaptureBinary,
		SampleRate: cfg.CaptureSampleRate,
		MaxSeconds: cfg.CaptureMaxSeconds,
	}, logger)
	if err != nil {
		return fmt.Errorf("capture init: %w", err)
	}
	defer device.Close()

	transcriber, err := stt.NewGoogleTranscriber(ctx, logger)
	if err != nil {
		return fmt.Errorf("transcriber init: %w", err)
	}
	defer transcriber.Close()

	l := listener.New(device, transcriber, repositories.AudioConfig{
		SampleRate: cfg.CaptureSampleRate,
		Encoding:   "LINEAR16",
		Language:   cfg.Language,
	}, logger)

	go l.Run(ctx)
	go orch.Run(ctx, l.Out())

	<-quit
	logger.Info("Signal received, shutting down")
	return nil
}

// runConsole reads utterances from stdin, bypassing capture and the wake
// filter. Replies are both printed and spoken.
func runConsole(ctx context.Context, session *usecase.Session, queue *speech.Queue, quit <-chan os.Signal, logger *zap.Logger) {
	fmt.Println("Console mode. Type 'quit' to exit, 'reset' to clear history, 'summary' for session stats.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print("> ")
		select {
		case <-quit:
			logger.Info("Signal received, shutting down")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "":
				continue
			case "quit", "exit":
				return
			case "reset":
				session.Reset()
				fmt.Println("Conversation history cleared.")
			case "summary":
				summary := session.Summary()
				fmt.Printf("Exchanges: %d, history length: %d, model: %s\n",
					summary.TotalExchanges, summary.HistoryLength, summary.Model)
			default:
				reply := session.Process(ctx, line)
				fmt.Println(reply)
				queue.Enqueue(reply, false)
			}
		}
	}
}

func buildResponder(ctx context.Context, cfg config.Config, logger *zap.Logger) (repositories.Responder, error) {
	switch cfg.Mode {
	case "remote":
		return llm.NewGeminiResponder(ctx, llm.GeminiConfig{
			APIKey:          cfg.GeminiAPIKey,
			Model:           cfg.GeminiModel,
			Temperature:     float32(cfg.Temperature),
			MaxOutputTokens: cfg.MaxOutputTokens,
			TimeoutSeconds:  cfg.RequestTimeout,
		}, logger)
	default:
		return offline.NewResponder(cfg.AIName, logger), nil
	}
}

func buildSynthesizer(cfg config.Config, logger *zap.Logger) (repositories.Synthesizer, error) {
	switch cfg.TTSProvider {
	case "elevenlabs":
		return tts.NewElevenLabsSynthesizer(tts.ElevenLabsConfig{
			APIKey:  cfg.ElevenLabsAPIKey,
			VoiceID: cfg.ElevenLabsVoiceID,
		}, logger)
	default:
		return tts.NewCommandSynthesizer(tts.CommandConfig{
			Binary:     cfg.TTSBinary,
			Rate:       cfg.SpeechRate,
			Volume:     cfg.SpeechVol,
			VoiceIndex: cfg.VoiceIndex,
		}, logger)
	}
}
