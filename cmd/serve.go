package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/abhisek/p5math/internal/api"
	"github.com/abhisek/p5math/internal/config"
	"github.com/abhisek/p5math/internal/grading"
	"github.com/abhisek/p5math/internal/history"
	"github.com/abhisek/p5math/internal/llm"
	"github.com/abhisek/p5math/internal/problemgen"
	"github.com/abhisek/p5math/internal/store"
)

const (
	startTimeout    = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		app := newServeApp(cfg)

		startCtx, cancel := context.WithTimeout(cmd.Context(), startTimeout)
		defer cancel()
		if err := app.Start(startCtx); err != nil {
			return err
		}

		sig := <-app.Done()
		log.Info().Str("signal", sig.String()).Msg("shutting down")

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.Stop(stopCtx)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "Port to listen on (overrides SERVER_PORT)")
}

// newServeApp wires the server. Construction errors, including a missing
// LLM credential, surface from app.Start before anything is served.
func newServeApp(cfg *config.Config, opts ...fx.Option) *fx.App {
	return fx.New(append(serveOptions(cfg), opts...)...)
}

func serveOptions(cfg *config.Config) []fx.Option {
	return []fx.Option{
		fx.WithLogger(func() fxevent.Logger { return fxLogger{} }),
		fx.Supply(cfg),
		fx.Provide(
			newStore,
			newLLMProvider,
			newAttempter,
			newGenerator,
			newGrader,
			newHistoryReader,
			newRateLimiter,
			newHandler,
			newRouter,
		),
		fx.Invoke(startServer),
	}
}

func newStore(lc fx.Lifecycle, cfg *config.Config) (*store.Store, error) {
	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return s.Close() },
	})
	return s, nil
}

func newLLMProvider(cfg *config.Config, s *store.Store) (llm.Provider, error) {
	return llm.NewProvider(context.Background(), cfg.LLM, s.EventRepo())
}

func newAttempter(cfg *config.Config, p llm.Provider) *llm.Attempter {
	return llm.NewAttempter(p, cfg.LLM.MaxAttempts)
}

func newGenerator(a *llm.Attempter, s *store.Store) api.ProblemGenerator {
	return problemgen.New(a, s.SessionRepo(), problemgen.DefaultConfig())
}

func newGrader(a *llm.Attempter, s *store.Store) api.AnswerGrader {
	return grading.New(a, s.SessionRepo(), s.SubmissionRepo(), grading.DefaultConfig())
}

func newHistoryReader(s *store.Store) api.HistoryReader {
	return history.NewReader(s.SessionRepo())
}

func newRateLimiter(lc fx.Lifecycle, cfg *config.Config) *api.RateLimiter {
	rl := api.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			rl.Stop()
			return nil
		},
	})
	return rl
}

func newHandler(g api.ProblemGenerator, gr api.AnswerGrader, h api.HistoryReader, s *store.Store) *api.Handler {
	return api.NewHandler(g, gr, h, s)
}

func newRouter(cfg *config.Config, h *api.Handler, rl *api.RateLimiter) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	return api.NewRouter(h, api.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter:    rl,
	})
}

// startServer binds the port on start so that a busy port fails startup,
// then serves in the background until stop.
func startServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine) {
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			log.Info().
				Str("addr", ln.Addr().String()).
				Str("llm_provider", cfg.LLM.Provider).
				Str("database", cfg.Database.Driver).
				Msg("p5math server listening")
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("server stopped unexpectedly")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("server shutting down")
			return server.Shutdown(ctx)
		},
	})
}

// fxLogger routes fx lifecycle events through zerolog.
type fxLogger struct{}

func (fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx start hook failed")
		}
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("fx stop hook failed")
		}
	case *fxevent.Provided:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("fx provide failed")
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			log.Error().Err(e.Err).Str("function", e.FunctionName).Msg("fx invoke failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("fx start failed")
		} else {
			log.Debug().Msg("fx started")
		}
	case *fxevent.Stopped:
		if e.Err != nil {
			log.Error().Err(e.Err).Msg("fx stop failed")
		}
	}
}
