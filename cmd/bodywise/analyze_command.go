package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bodywise/internal/analysis"
	"bodywise/internal/poses"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var poseID string

	cmd := &cobra.Command{
		Use:   "analyze <image-file>",
		Short: "Run a one-shot pose analysis against an image file",
		Long:  "Sends a single image to the remote pose-analysis service and prints the verdict. Useful for checking credentials and connectivity without a camera.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}

			catalog := poses.Default()
			spec, ok := catalog.ByID(poseID)
			if !ok {
				return fmt.Errorf("unknown pose %q; run 'bodywise poses' to list the catalog", poseID)
			}

			clientOpts := []analysis.Option{analysis.WithBaseURL(cfg.Analysis.BaseURL)}
			if cfg.Analysis.MaxAttempts > 0 {
				clientOpts = append(clientOpts, analysis.WithMaxAttempts(cfg.Analysis.MaxAttempts))
			}
			if cfg.Analysis.TimeoutSeconds > 0 {
				clientOpts = append(clientOpts, analysis.WithHTTPClient(&http.Client{
					Timeout: time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second,
				}))
			}
			client := analysis.NewClient(cfg.Analysis.APIKey, clientOpts...)

			label := fmt.Sprintf("user attempting %s", spec.Name)
			result, err := client.Analyze(cmd.Context(), image, label, spec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]column{textColumn("Field"), textColumn("Value")},
				[][]string{
					{"Pose", displayPoseName(spec.ID)},
					{"Correct", yesNo(result.IsCorrectPose)},
					{"Landmarks", strconv.Itoa(len(result.Landmarks))},
					{"Feedback", result.Feedback},
				},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&poseID, "pose", "front", "Pose id to validate against")
	return cmd
}
