package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bodywise/internal/poses"
)

func newPosesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "poses",
		Short:       "List the pose catalog",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := poses.Default()
			rows := make([][]string, 0, catalog.Len())
			for _, spec := range catalog.Specs() {
				rows = append(rows, []string{
					strconv.Itoa(spec.Order + 1),
					spec.ID,
					spec.Name,
					spec.ShortInstruction,
					strconv.Itoa(len(spec.Guide)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{
					numericColumn("#"),
					textColumn("ID"),
					textColumn("Name"),
					textColumn("Instruction"),
					numericColumn("Guide Points"),
				},
				rows,
			))
			return nil
		},
	}
}
