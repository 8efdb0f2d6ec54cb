package maxrep

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/session"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in, log out and inspect the stored session",
}

var (
	authEmail      string
	authPassword   string
	authTenant     string
	authTenantName string
	authFullName   string
)

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store session cookies",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(authEmail) == "" || authPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}
		return withEnv(cmd, func(e *env) error {
			u, err := e.api.Login(cmd.Context(), model.LoginRequest{
				Email:      strings.TrimSpace(authEmail),
				Password:   authPassword,
				TenantSlug: strings.TrimSpace(authTenant),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", u.FullName, u.Email)
			return nil
		})
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(authEmail) == "" || authPassword == "" || strings.TrimSpace(authFullName) == "" {
			return fmt.Errorf("--name, --email and --password are required")
		}
		tenantName := strings.TrimSpace(authTenantName)
		if tenantName == "" {
			tenantName = strings.TrimSpace(authFullName)
		}
		return withEnv(cmd, func(e *env) error {
			u, err := e.api.Register(cmd.Context(), model.RegisterRequest{
				TenantName: tenantName,
				TenantSlug: strings.TrimSpace(authTenant),
				FullName:   strings.TrimSpace(authFullName),
				Email:      strings.TrimSpace(authEmail),
				Password:   authPassword,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", u.FullName, u.Email)
			return nil
		})
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget stored cookies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			logoutErr := e.api.Logout(cmd.Context())
			if err := e.jar.Clear(); err != nil {
				return err
			}
			if logoutErr != nil {
				return fmt.Errorf("%w (local cookies were cleared)", logoutErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			u, err := e.api.Me(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name: %s\nEmail: %s\nTenant: %s\nRole: %s\nTier: %s\n", u.FullName, u.Email, u.TenantSlug, u.Role, u.Tier)
			return nil
		})
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored session cookies without contacting the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API: %s\n", e.cfg.APIBaseURL)

			if _, ok := e.cookies.CSRFToken(); ok {
				fmt.Fprintln(out, "CSRF token: present")
			} else {
				fmt.Fprintln(out, "CSRF token: missing")
			}

			token, ok := e.cookies.Cookie(e.cfg.AccessCookieName)
			if !ok {
				fmt.Fprintln(out, "Access token: missing (run `maxrep auth login`)")
				return nil
			}
			expiry, err := session.AccessTokenExpiry(token)
			if err != nil {
				fmt.Fprintf(out, "Access token: present (%v)\n", err)
				return nil
			}
			if remaining := time.Until(expiry); remaining > 0 {
				fmt.Fprintf(out, "Access token: valid until %s (%s left)\n", expiry.Local().Format("2006-01-02 15:04"), remaining.Round(time.Second))
			} else {
				fmt.Fprintf(out, "Access token: expired at %s (refreshed on next request)\n", expiry.Local().Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

func init() {
	authLoginCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	authLoginCmd.Flags().StringVar(&authPassword, "password", "", "Account password")
	authLoginCmd.Flags().StringVar(&authTenant, "tenant", "", "Tenant slug")

	authRegisterCmd.Flags().StringVar(&authFullName, "name", "", "Full name")
	authRegisterCmd.Flags().StringVar(&authEmail, "email", "", "Account email")
	authRegisterCmd.Flags().StringVar(&authPassword, "password", "", "Account password")
	authRegisterCmd.Flags().StringVar(&authTenantName, "tenant-name", "", "Tenant display name (default: full name)")
	authRegisterCmd.Flags().StringVar(&authTenant, "tenant", "", "Tenant slug")

	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authWhoamiCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
