package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sklad/internal/domain/model"
	"sklad/internal/infra/db"
	infraRepo "sklad/internal/infra/repository"
	"sklad/internal/repository"
	"sklad/internal/usecase"
)

var (
	setupPassword string
	setupCreate   bool
	setupWorkshop string
)

var rootCmd = &cobra.Command{
	Use:   "skladctl",
	Short: "sklad admin CLI",
}

var setupUserCmd = &cobra.Command{
	Use:   "setup-user <username>",
	Short: "Create or update a user and bind it to a workshop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		gormDB, err := db.Connect()
		if err != nil {
			return err
		}
		if err := db.Migrate(gormDB); err != nil {
			return err
		}

		users := infraRepo.NewUserGormRepository(gormDB)
		workshops := infraRepo.NewWorkshopGormRepository(gormDB)
		assignments := infraRepo.NewAssignmentGormRepository(gormDB)

		ctx := context.Background()
		username := args[0]

		usr, err := users.FindByUsername(ctx, username)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if !setupCreate {
				return fmt.Errorf("user %q not found (use --create)", username)
			}
			hash, err := usecase.HashPassword(setupPassword)
			if err != nil {
				return err
			}
			usr, err = users.Create(ctx, model.User{
				Username:     username,
				PasswordHash: hash,
				IsActive:     true,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created user %q (id=%d)\n", usr.Username, usr.ID)
		case err != nil:
			return err
		default:
			hash, err := usecase.HashPassword(setupPassword)
			if err != nil {
				return err
			}
			usr.PasswordHash = hash
			usr.IsActive = true
			if _, err := users.Save(ctx, usr); err != nil {
				return err
			}
			fmt.Printf("updated password for %q (id=%d)\n", usr.Username, usr.ID)
		}

		if setupWorkshop != "" {
			ws, err := workshops.GetOrCreateByName(ctx, setupWorkshop)
			if err != nil {
				return err
			}
			if err := assignments.Upsert(ctx, usr.ID, &ws.ID); err != nil {
				return err
			}
			fmt.Printf("assigned %q to workshop %q\n", usr.Username, ws.Name)
		}

		return nil
	},
}

func main() {
	setupUserCmd.Flags().StringVar(&setupPassword, "password", "admin123", "password to set")
	setupUserCmd.Flags().BoolVar(&setupCreate, "create", false, "create the user if missing")
	setupUserCmd.Flags().StringVar(&setupWorkshop, "workshop", "", "workshop name to assign (created if missing)")

	rootCmd.AddCommand(setupUserCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
