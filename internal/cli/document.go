package cli

import (
	"alizia-planner/internal/domain"
	"alizia-planner/internal/projection"
	"alizia-planner/internal/session"
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Open a document and print its view",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	chat := &cobra.Command{
		Use:   "chat <id> <message...>",
		Short: "Send one message to the assistant about a document",
		Args:  cobra.MinimumNArgs(2),
		Run:   runChat,
	}

	generate := &cobra.Command{
		Use:   "generate <id>",
		Short: "Regenerate the content of a document",
		Args:  cobra.ExactArgs(1),
		Run:   runGenerate,
	}

	publish := &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a document",
		Args:  cobra.ExactArgs(1),
		Run:   runPublish,
	}

	schedule := &cobra.Command{
		Use:   "schedule <id>",
		Short: "Print the week-by-week class schedule of a coordination document",
		Args:  cobra.ExactArgs(1),
		Run:   runSchedule,
	}
	schedule.Flags().Bool("unassigned", false, "Print the categories no class covers instead")

	RootCmd.AddCommand(show, chat, generate, publish, schedule)
}

func render(ctx context.Context, s *session.Session) session.SnapshotResponse {
	return session.Render(ctx, s, newCatalog(), newLogger())
}

func runShow(cmd *cobra.Command, args []string) {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	s, pool, err := openSession(ctx, args[0])
	if err != nil {
		exitErr("open", err)
	}
	defer pool.Shutdown()

	printJSON(render(ctx, s))
}

func runChat(cmd *cobra.Command, args []string) {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	s, pool, err := openSession(ctx, args[0])
	if err != nil {
		exitErr("open", err)
	}
	defer pool.Shutdown()

	reply, err := s.Send(ctx, strings.Join(args[1:], " "))
	if reply.Content == "" && err != nil {
		exitErr("chat", err)
	}
	printJSON(reply)
}

func runGenerate(cmd *cobra.Command, args []string) {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	s, pool, err := openSession(ctx, args[0])
	if err != nil {
		exitErr("open", err)
	}
	defer pool.Shutdown()

	if err := s.Generate(ctx); err != nil {
		exitErr("generate", err)
	}
	if err := s.Wait(ctx); err != nil {
		exitErr("generate", err)
	}
	printJSON(render(ctx, s))
}

func runPublish(cmd *cobra.Command, args []string) {
	ctx, cancel := waitContext(cmd)
	defer cancel()

	s, pool, err := openSession(ctx, args[0])
	if err != nil {
		exitErr("open", err)
	}
	defer pool.Shutdown()

	doc, err := s.Publish(ctx)
	if err != nil {
		exitErr("publish", err)
	}
	printJSON(doc)
}

func runSchedule(cmd *cobra.Command, args []string) {
	unassigned, _ := cmd.Flags().GetBool("unassigned")
	kindFlag = string(domain.KindCoordination)

	ctx, cancel := waitContext(cmd)
	defer cancel()

	s, pool, err := openSession(ctx, args[0])
	if err != nil {
		exitErr("open", err)
	}
	defer pool.Shutdown()

	doc := s.Snapshot().Document
	if unassigned {
		printJSON(projection.UnassignedCategories(doc))
		return
	}
	printJSON(projection.WeekGrouping(doc))
}
