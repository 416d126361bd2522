package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bodywise/internal/photostore"
)

func newPhotosCommand(ctx *commandContext) *cobra.Command {
	photosCmd := &cobra.Command{
		Use:   "photos",
		Short: "Inspect and manage captured photo records",
	}

	photosCmd.AddCommand(newPhotosStatusCommand(ctx))
	photosCmd.AddCommand(newPhotosResetCommand(ctx))
	photosCmd.AddCommand(newPhotosExportCommand(ctx))

	return photosCmd
}

func newPhotosStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored photo set",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := photostore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No photo records yet; run 'bodywise capture' to start a session.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPhotoTable(records))
			return nil
		},
	}
}

func newPhotosResetCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [pose-id]",
		Short: "Reset one pose record or the whole photo set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("specify a pose id or --all")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := photostore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if all {
				if err := store.ResetAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "All photo records reset")
				return nil
			}
			poseID := strings.TrimSpace(args[0])
			if err := store.Reset(cmd.Context(), poseID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Photo record for %s reset\n", poseID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Reset every pose record")
	return cmd
}

func newPhotosExportCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write captured photos to image files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := photostore.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create export directory %q: %w", dir, err)
			}

			out := cmd.OutOrStdout()
			exported := 0
			for _, record := range records {
				if len(record.ImageData) == 0 {
					continue
				}
				path := filepath.Join(dir, record.PoseID+imageExtension(record.ImageData))
				if err := os.WriteFile(path, record.ImageData, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(out, "Wrote %s\n", path)
				exported++
			}
			if exported == 0 {
				fmt.Fprintln(out, "No captured photos to export")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Destination directory for exported images")
	return cmd
}

func renderPhotoTable(records []photostore.Record) string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		capturedAt := ""
		if record.CapturedAt != nil {
			capturedAt = record.CapturedAt.Local().Format("2006-01-02 15:04:05")
		}
		size := ""
		if record.Width > 0 && record.Height > 0 {
			size = fmt.Sprintf("%dx%d", record.Width, record.Height)
		}
		rows = append(rows, []string{
			displayPoseName(record.PoseID),
			yesNo(record.Confirmed()),
			size,
			strconv.Itoa(len(record.ImageData)),
			record.Feedback,
			capturedAt,
		})
	}
	return renderTable(
		[]column{
			textColumn("Pose"),
			textColumn("Captured"),
			numericColumn("Size"),
			numericColumn("Bytes"),
			textColumn("Feedback"),
			textColumn("Captured At"),
		},
		rows,
	)
}

func imageExtension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	default:
		return ".bin"
	}
}
