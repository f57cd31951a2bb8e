package cli

import (
	"alizia-planner/internal/course"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "course <id>",
		Short: "Print the students and nucleus progress of a course",
		Args:  cobra.ExactArgs(1),
		Run:   runCourse,
	}
	cmd.Flags().Int64P("area", "a", 0, "Area whose coordination documents count as progress")

	RootCmd.AddCommand(cmd)
}

func runCourse(cmd *cobra.Command, args []string) {
	areaID, _ := cmd.Flags().GetInt64("area")
	courseID, err := parseID(args[0])
	if err != nil {
		exitErr("course", err)
	}

	ctx, cancel := waitContext(cmd)
	defer cancel()

	service := course.NewService(newClient(), newCatalog(), newLogger())
	overview, err := service.GetOverview(ctx, courseID, areaID)
	if err != nil {
		exitErr("course", err)
	}
	printJSON(overview)
}
