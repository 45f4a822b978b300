package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"skatepark/internal/config"
	"skatepark/internal/database"
	"skatepark/internal/platform/skater"
	"skatepark/pkg/logger"
)

var (
	apiBaseURL string
	apiToken   string
)

type ResponseError struct {
	Message string `json:"message"`
}

var apiServiceBase = func() *resty.Client {
	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetHeader("Accept", "application/json").
		SetError(&ResponseError{}).
		OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() >= 400 {
				if e, ok := resp.Error().(*ResponseError); ok && e.Message != "" {
					return errors.New(e.Message)
				}
				return fmt.Errorf("unexpected status %d", resp.StatusCode())
			}

			return nil
		})

	if apiToken != "" {
		client.SetAuthToken(apiToken)
	}
	return client
}

var rootCmd = &cobra.Command{
	Use:   "skatepark",
	Short: "Skate Park administration CLI",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}

		fmt.Println("Migrations applied")
		return nil
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator links",
}

func setAdmin(ctx context.Context, email string, active bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}

	if err := skater.NewRepository(db).SetAdmin(ctx, email, active); err != nil {
		if errors.Is(err, skater.ErrNotFound) {
			return fmt.Errorf("no skater registered with email %s", email)
		}
		return err
	}
	return nil
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant <email>",
	Short: "Grant the administrator role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setAdmin(cmd.Context(), args[0], true); err != nil {
			return err
		}
		fmt.Println("Administrator granted:", args[0])
		return nil
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke <email>",
	Short: "Revoke the administrator role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setAdmin(cmd.Context(), args[0], false); err != nil {
			return err
		}
		fmt.Println("Administrator revoked:", args[0])
		return nil
	},
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Call the HTTP API",
}

type LoginResult struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Usuario skater.Identity `json:"usuario"`
}

var loginPassword string

var apiLoginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and print a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiServiceBase().R().
			SetBody(map[string]string{
				"email":    args[0],
				"password": loginPassword,
			}).
			SetResult(&LoginResult{}).
			Post("/api/v1/login")
		if err != nil {
			return err
		}

		result := resp.Result().(*LoginResult)

		fmt.Println("User ID :", result.Usuario.ID)
		fmt.Println("Nombre  :", result.Usuario.Nombre)
		fmt.Println("Admin   :", result.Usuario.Admin)
		fmt.Println("Token   :", result.Token)
		return nil
	},
}

type StatusResult struct {
	Message string `json:"message"`
	Estado  bool   `json:"estado"`
}

var approveEstado string

var apiApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Set or toggle the approval state of a skater",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.ParseUint(args[0], 10, 32); err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		req := apiServiceBase().R().
			SetQueryParam("id", args[0]).
			SetResult(&StatusResult{})
		if approveEstado != "" {
			req.SetQueryParam("estado", approveEstado)
		}

		resp, err := req.Put("/api/v1/skaters/estado")
		if err != nil {
			return err
		}

		result := resp.Result().(*StatusResult)
		fmt.Println(result.Message)
		fmt.Println("Estado  :", result.Estado)
		return nil
	},
}

var apiSkatersCmd = &cobra.Command{
	Use:   "skaters",
	Short: "List registered skaters",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := apiServiceBase().R().
			SetResult(&skater.Overview{}).
			Get("/api/v1/skaters")
		if err != nil {
			return err
		}

		overview := resp.Result().(*skater.Overview)
		for _, s := range overview.Skaters {
			fmt.Printf("%4d  %-30s  %-20s  aprobado=%t\n", s.ID, s.Email, s.Nombre, s.Estado)
		}
		fmt.Printf("\nAprobados: %d  En revisión: %d\n", overview.Aprobados, overview.EnRevision)
		return nil
	},
}

func main() {
	logger.Init(logger.Options{Level: "warn", Pretty: true, Output: os.Stderr})

	adminCmd.AddCommand(adminGrantCmd)
	adminCmd.AddCommand(adminRevokeCmd)

	apiLoginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")
	apiLoginCmd.MarkFlagRequired("password")
	apiApproveCmd.Flags().StringVar(&approveEstado, "estado", "", "Target state (true|false); toggles when omitted")
	apiCmd.AddCommand(apiLoginCmd)
	apiCmd.AddCommand(apiApproveCmd)
	apiCmd.AddCommand(apiSkatersCmd)
	apiCmd.PersistentFlags().StringVarP(&apiBaseURL, "url", "u", "http://localhost:3000", "API base URL")
	apiCmd.PersistentFlags().StringVarP(&apiToken, "token", "t", "", "Bearer token")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(apiCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
