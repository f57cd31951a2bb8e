// Package cli implements the alizia operator commands.
package cli

import (
	"alizia-planner/internal/config"
	"alizia-planner/internal/domain"
	apperrors "alizia-planner/internal/errors"
	"alizia-planner/internal/logger"
	"alizia-planner/internal/reference"
	"alizia-planner/internal/remote"
	"alizia-planner/internal/session"
	"alizia-planner/internal/worker"
	"alizia-planner/redis"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	apiURL    string
	apiToken  string
	kindFlag  string
	waitLimit time.Duration
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "alizia",
	Short: "Work with coordination documents and lesson plans from the terminal",
	Long:  "Opens planning documents against the remote API, chats with the assistant, triggers generation and prints the derived views as JSON.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default: $API_BASE_URL)")
	RootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Bearer token (default: $API_TOKEN)")
	RootCmd.PersistentFlags().StringVarP(&kindFlag, "kind", "k", "coordination", "Document kind: coordination or lesson-plan")
	RootCmd.PersistentFlags().DurationVar(&waitLimit, "wait", 5*time.Minute, "How long to wait for loading and generation")
}

func newLogger() zerolog.Logger {
	return logger.NewWithWriter(config.AppConfig.Environment, os.Stderr)
}

func newClient() *remote.Client {
	base := apiURL
	if base == "" {
		base = config.AppConfig.APIBaseURL
	}
	token := apiToken
	if token == "" {
		token = config.AppConfig.APIToken
	}
	return remote.NewClient(base, token, config.AppConfig.RequestTimeout)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid document id %q", raw)
	}
	return id, nil
}

// openSession opens document rawID and waits until it is loaded and any
// automatic generation has settled. Callers must shut the pool down.
func openSession(ctx context.Context, rawID string) (*session.Session, *worker.Pool, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, nil, err
	}
	kind, err := domain.ParseKind(kindFlag)
	if err != nil {
		return nil, nil, err
	}

	log := newLogger()
	pool := worker.NewPool(1, 4, log)
	s := session.New(newClient().Documents(kind), pool, log)

	if err := s.Open(ctx, id); err != nil {
		pool.Shutdown()
		return nil, nil, err
	}
	if err := s.Wait(ctx); err != nil {
		pool.Shutdown()
		return nil, nil, err
	}
	return s, pool, nil
}

func waitContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), waitLimit)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintln(os.Stderr, errorLine(msg, err))
	os.Exit(1)
}

func errorLine(msg string, err error) string {
	line := fmt.Sprintf("error: %s: %v", msg, err)
	if apperrors.IsNetwork(err) {
		line += "\nhint: check --api and that the planning API is reachable"
	}
	return line
}

// newCatalog reads reference data straight from the API; the CLI runs
// without redis.
func newCatalog() *reference.Catalog {
	return reference.NewCatalog(newClient(), redis.NewCache(nil), config.AppConfig.ReferenceCacheTTL, newLogger())
}
