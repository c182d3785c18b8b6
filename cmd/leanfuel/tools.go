package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/leanfuel/internal/database"
	"github.com/dukerupert/leanfuel/internal/grocery"
	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/nutrition"
	"github.com/dukerupert/leanfuel/internal/push"
	"github.com/dukerupert/leanfuel/internal/server"
)

var groceryPlan string

var groceryCmd = &cobra.Command{
	Use:   "grocery",
	Short: "Print the grocery list for a meal plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := mealplan.NewFixtureRepository()
		if err != nil {
			return err
		}
		if groceryPlan == "" {
			for _, p := range plans.List() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", p.ID, p.Title)
			}
			return nil
		}
		days, err := plans.Days(groceryPlan)
		if err != nil {
			return err
		}
		items := grocery.FromDays(days)
		out := cmd.OutOrStdout()
		for _, cat := range grocery.CategoriesWithItems(items) {
			fmt.Fprintln(out, cat)
			for _, it := range grocery.FilterByCategory(items, cat) {
				fmt.Fprintf(out, "  - %s\n", it.Name)
			}
		}
		return nil
	},
}

var calorieIn struct {
	gender string
	age    int
	height float64
	weight float64
	unit   string
}

var caloriesCmd = &cobra.Command{
	Use:   "calories",
	Short: "Compute a daily calorie goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		unit := model.WeightUnit(strings.ToLower(calorieIn.unit))
		if unit != model.UnitKg && unit != model.UnitLbs {
			return fmt.Errorf("unit must be kg or lbs, got %q", calorieIn.unit)
		}
		goal := nutrition.CalorieGoal(nutrition.Input{
			Gender:   model.Gender(strings.ToLower(calorieIn.gender)),
			Age:      calorieIn.age,
			HeightCm: calorieIn.height,
			Weight:   calorieIn.weight,
			Unit:     unit,
		})
		if goal == 0 {
			return fmt.Errorf("gender, age, height and weight are required")
		}
		fmt.Fprintln(cmd.OutOrStdout(), goal)
		return nil
	},
}

var vapidKeysCmd = &cobra.Command{
	Use:   "vapid-keys",
	Short: "Generate a VAPID key pair for web push",
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "LEANFUEL_VAPID_PUBLIC_KEY=%s\nLEANFUEL_VAPID_PRIVATE_KEY=%s\n", pub, priv)
		return nil
	},
}

var (
	restoreID int64
	restoreTo string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Take an encrypted backup, or restore one with --restore",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		srv, err := server.New(db, cfg, logger)
		if err != nil {
			return err
		}
		mgr := srv.BackupManager()

		if restoreID != 0 {
			if restoreTo == "" {
				return fmt.Errorf("--to is required with --restore")
			}
			if err := mgr.RestoreTo(cmd.Context(), restoreID, cfg.Backup.Passphrase, restoreTo); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored backup %d to %s\n", restoreID, restoreTo)
			return nil
		}

		b, err := mgr.RunNow(cmd.Context(), cfg.Backup.Passphrase)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "backup %d written to %s (%d bytes)\n", b.ID, b.Location, b.SizeBytes)
		return nil
	},
}

func init() {
	groceryCmd.Flags().StringVar(&groceryPlan, "plan", "", "meal plan id (lists plans when empty)")

	caloriesCmd.Flags().StringVar(&calorieIn.gender, "gender", "", "male or female")
	caloriesCmd.Flags().IntVar(&calorieIn.age, "age", 0, "age in years")
	caloriesCmd.Flags().Float64Var(&calorieIn.height, "height", 0, "height in cm")
	caloriesCmd.Flags().Float64Var(&calorieIn.weight, "weight", 0, "current weight")
	caloriesCmd.Flags().StringVar(&calorieIn.unit, "unit", "kg", "kg or lbs")

	backupCmd.Flags().Int64Var(&restoreID, "restore", 0, "id of the backup to restore")
	backupCmd.Flags().StringVar(&restoreTo, "to", "", "destination file for --restore")
}
