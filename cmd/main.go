package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clinic-slot-engine/cmd/bootstrap"
	"clinic-slot-engine/internal/infrastructure/database"
	"clinic-slot-engine/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-slot-engine",
		Short: "Clinic availability slot engine",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(regenerateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize application with all dependencies
			app, err := bootstrap.New()
			if err != nil {
				logrus.Errorf("Failed to initialize application: %v", err)
				return err
			}
			return app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				return m.Up()
			})
		},
	})

	// migrate down
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(func(m *database.Migrator) error {
				return m.Down(steps)
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	// migrate version
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, log, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	db, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	migrator, err := database.NewMigrator(db, log)
	if err != nil {
		return err
	}
	return fn(migrator)
}

func regenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Rebuild materialized slots for one doctor or all doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctorFlag, _ := cmd.Flags().GetString("doctor")
			all, _ := cmd.Flags().GetBool("all")
			if (doctorFlag == "") == !all {
				return errors.New("pass exactly one of --doctor or --all")
			}

			app, err := bootstrap.New()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if all {
				results, err := app.Regeneration.RegenerateAll(ctx)
				for _, r := range results {
					fmt.Printf("doctor=%s count=%d created=%d updated=%d deleted=%d pruned=%d failed_days=%d\n",
						r.DoctorID, r.Count, r.Created, r.Updated, r.Deleted, r.Pruned, len(r.FailedDays))
				}
				return err
			}

			doctorID, err := uuid.Parse(doctorFlag)
			if err != nil {
				return fmt.Errorf("invalid doctor ID %q: %w", doctorFlag, err)
			}
			r, err := app.Regeneration.Regenerate(ctx, doctorID)
			if r != nil {
				fmt.Printf("doctor=%s count=%d created=%d updated=%d deleted=%d pruned=%d failed_days=%v\n",
					r.DoctorID, r.Count, r.Created, r.Updated, r.Deleted, r.Pruned, r.FailedDays)
			}
			return err
		},
	}
	cmd.Flags().String("doctor", "", "Doctor ID to regenerate")
	cmd.Flags().Bool("all", false, "Regenerate every doctor")
	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for operators and local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			userFlag, _ := cmd.Flags().GetString("user")

			cfg, _, err := bootstrap.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			userID := uuid.New()
			if userFlag != "" {
				if userID, err = uuid.Parse(userFlag); err != nil {
					return fmt.Errorf("invalid user ID %q: %w", userFlag, err)
				}
			}

			jwtService := jwt.NewJWTService(cfg.JWT)
			token, tokenID, err := jwtService.GenerateAccessToken(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "token %s for user %s (%s), expires in %s\n", tokenID, userID, role, jwtService.GetAccessExpiry())
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().String("role", jwt.RoleAdmin, "Role claim (admin or staff)")
	cmd.Flags().String("user", "", "User ID claim (random when empty)")
	return cmd
}
