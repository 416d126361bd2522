package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bodywise/internal/profile"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit the user profile",
	}

	profileCmd.AddCommand(newProfileShowCommand(ctx))
	profileCmd.AddCommand(newProfileSetCommand(ctx))

	return profileCmd
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			provider, err := profile.NewFileProvider(cfg.Profile.Path)
			if err != nil {
				return err
			}
			prof, err := provider.Load()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Name", prof.Name},
				{"Height (cm)", formatMeasurement(prof.HeightCM)},
				{"Weight (kg)", formatMeasurement(prof.WeightKG)},
				{"Age", formatAge(prof.Age)},
				{"Sex", prof.Sex},
				{"Complete", yesNo(prof.Complete())},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]column{textColumn("Field"), textColumn("Value")},
				rows,
			))
			if missing := prof.MissingFields(); len(missing) > 0 {
				fmt.Fprintf(out, "Missing required fields: %s\n", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

func newProfileSetCommand(ctx *commandContext) *cobra.Command {
	var (
		name   string
		height float64
		weight float64
		age    int
		sex    string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			provider, err := profile.NewFileProvider(cfg.Profile.Path)
			if err != nil {
				return err
			}
			prof, err := provider.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			changed := false
			if flags.Changed("name") {
				prof.Name = strings.TrimSpace(name)
				changed = true
			}
			if flags.Changed("height") {
				if height <= 0 {
					return fmt.Errorf("height must be positive, got %v", height)
				}
				prof.HeightCM = height
				changed = true
			}
			if flags.Changed("weight") {
				if weight <= 0 {
					return fmt.Errorf("weight must be positive, got %v", weight)
				}
				prof.WeightKG = weight
				changed = true
			}
			if flags.Changed("age") {
				if age <= 0 {
					return fmt.Errorf("age must be positive, got %d", age)
				}
				prof.Age = age
				changed = true
			}
			if flags.Changed("sex") {
				prof.Sex = strings.ToLower(strings.TrimSpace(sex))
				changed = true
			}
			if !changed {
				return fmt.Errorf("no fields given; use --name, --height, --weight, --age, or --sex")
			}

			if err := provider.Save(prof); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile saved to %s\n", provider.Path())
			if missing := prof.MissingFields(); len(missing) > 0 {
				fmt.Fprintf(out, "Still missing: %s\n", strings.Join(missing, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().Float64Var(&height, "height", 0, "Height in centimeters")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kilograms")
	cmd.Flags().IntVar(&age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&sex, "sex", "", "Sex (male, female, or other)")

	return cmd
}

func formatMeasurement(value float64) string {
	if value <= 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatAge(value int) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value)
}
