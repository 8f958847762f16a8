package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"perfumeria/internal/repos"
	"perfumeria/internal/services"
	"perfumeria/internal/validate"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the administrator account",
}

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

// perfumeria admin create
var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the admin user or reset its password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, ok := validate.Email(adminEmail)
		if !ok {
			return fmt.Errorf("invalid email %q", adminEmail)
		}
		if !validate.Password(adminPassword) {
			return services.ErrWeakPassword
		}
		cfg, db, err := boot()
		if err != nil {
			return err
		}
		defer db.Close()

		auth := services.NewAuthService(repos.NewUserRepo(db), cfg.SessionSecret, cfg.SessionTTL, cfg.AdminEmail)
		u, err := auth.CreateUser(cmd.Context(), email, adminName, adminPassword)
		if err != nil {
			return err
		}
		fmt.Printf("✅  User %s saved\n", u.Email)
		if !auth.IsAdmin(u) {
			fmt.Printf("⚠️  ADMIN_EMAIL is %s; this user cannot open the panel\n", cfg.AdminEmail)
		}
		return nil
	},
}

// perfumeria admin hash: print a bcrypt hash, e.g. for provisioning scripts.
var adminHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Print the bcrypt hash of a password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			return fmt.Errorf("--password is required")
		}
		h, err := services.HashPassword(adminPassword)
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "display name")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminHashCmd.Flags().StringVar(&adminPassword, "password", "", "password to hash")

	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminHashCmd)
}
