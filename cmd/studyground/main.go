package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	studyground "github.com/dsvdev/studyground"
	"github.com/dsvdev/studyground/ai"
	"github.com/dsvdev/studyground/ai/adapters"
	"github.com/dsvdev/studyground/api"
	"github.com/dsvdev/studyground/client"
	"github.com/dsvdev/studyground/session"
	"github.com/dsvdev/studyground/store"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	root := &cobra.Command{
		Use:           "studyground",
		Short:         "Ask questions about ingested course materials",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), ingestCmd(), askCmd())

	if err := root.Execute(); err != nil {
		logger.Fatal().Err(err).Msg("command failed")
	}
}

// toolCallLogger logs each tool round and the final answer of a query.
type toolCallLogger struct{}

func (toolCallLogger) OnToolCall(round int, name, input, output string) {
	logger.Info().
		Int("round", round).
		Str("tool", name).
		Str("input", input).
		Int("output_len", len(output)).
		Msg("tool call")
}

func (toolCallLogger) OnAnswer(text string, sources []ai.Source) {
	logger.Info().
		Int("answer_len", len(text)).
		Int("sources", len(sources)).
		Msg("answer")
}

func newStore(dataDir string) (*store.Store, error) {
	var opts []store.Option
	if dataDir != "" {
		opts = append(opts, store.WithPersistPath(dataDir))
	}
	return store.New(opts...)
}

func serveCmd() *cobra.Command {
	var addr, docsDir, dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Ingest course scripts and serve the query API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiKey := os.Getenv("ANTHROPIC_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("ANTHROPIC_API_KEY is not set")
			}
			if os.Getenv("OPENAI_API_KEY") == "" {
				return fmt.Errorf("OPENAI_API_KEY is not set (used for embeddings)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := newStore(dataDir)
			if err != nil {
				return err
			}

			sysOpts := []studyground.Option{
				studyground.WithLLM(adapters.NewAnthropic(apiKey)),
				studyground.WithStore(st),
				studyground.WithObserver(toolCallLogger{}),
			}
			if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
				sessions, err := session.NewPostgres(ctx, connStr)
				if err != nil {
					return err
				}
				defer sessions.Close()
				logger.Info().Msg("using postgres session store")
				sysOpts = append(sysOpts, studyground.WithSessions(sessions))
			}

			sys, err := studyground.New(sysOpts...)
			if err != nil {
				return err
			}

			courses, chunks, err := sys.AddCourseFolder(ctx, docsDir)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", docsDir, err)
			}
			logger.Info().
				Str("dir", docsDir).
				Int("courses", courses).
				Int("chunks", chunks).
				Msg("ingested course scripts")

			return api.Serve(ctx, addr, api.NewRouter(sys, logger), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("STUDYGROUND_ADDR", ":8000"), "listen address")
	cmd.Flags().StringVar(&docsDir, "docs", envOr("STUDYGROUND_DOCS", "./docs"), "course scripts directory")
	cmd.Flags().StringVar(&dataDir, "data", os.Getenv("STUDYGROUND_DATA"), "persist the vector store here (in-memory when empty)")
	return cmd
}

func ingestCmd() *cobra.Command {
	var docsDir, dataDir string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest course scripts into the vector store without serving",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dataDir == "" {
				return fmt.Errorf("--data is required, an in-memory store would be discarded")
			}
			if os.Getenv("OPENAI_API_KEY") == "" {
				return fmt.Errorf("OPENAI_API_KEY is not set (used for embeddings)")
			}
			st, err := newStore(dataDir)
			if err != nil {
				return err
			}

			// Ingestion only needs the store; no model client is involved.
			sys, err := studyground.New(
				studyground.WithLLM(noLLM{}),
				studyground.WithStore(st),
			)
			if err != nil {
				return err
			}

			courses, chunks, err := sys.AddCourseFolder(cmd.Context(), docsDir)
			if err != nil {
				return err
			}
			fmt.Printf("Added %d courses (%d chunks); store now has %d courses\n",
				courses, chunks, st.CourseCount())
			return nil
		},
	}

	cmd.Flags().StringVar(&docsDir, "docs", envOr("STUDYGROUND_DOCS", "./docs"), "course scripts directory")
	cmd.Flags().StringVar(&dataDir, "data", os.Getenv("STUDYGROUND_DATA"), "persist the vector store here")
	return cmd
}

type noLLM struct{}

func (noLLM) Complete(context.Context, string, []ai.Message, []ai.ToolDefinition) (*ai.Response, error) {
	return nil, fmt.Errorf("no model configured")
}

func askCmd() *cobra.Command {
	var server, sessionID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a running studyground server a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(server)
			result, err := c.Query(cmd.Context(), args[0], sessionID)
			if err != nil {
				return err
			}

			fmt.Println(result.Answer)
			if len(result.Sources) > 0 {
				fmt.Println("\nSources:")
				for _, s := range result.Sources {
					if s.Link != "" {
						fmt.Printf("  - %s (%s)\n", s.Text, s.Link)
					} else {
						fmt.Printf("  - %s\n", s.Text)
					}
				}
			}
			fmt.Printf("\nSession: %s\n", result.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", envOr("STUDYGROUND_SERVER", "http://localhost:8000"), "server base URL")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id to continue a conversation")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
