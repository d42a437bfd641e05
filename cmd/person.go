package main

import (
	"context"
	"fmt"
	"time"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/repository"
	"volunteer-attendance/internal/transport/http/middleware"
	"volunteer-attendance/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// CreatePersonCmd registers a person of any role. Admin and coordinator
// accounts can only be created this way.
func CreatePersonCmd(app *App) *cobra.Command {
	var np entities.NewPerson
	var role string

	cmd := &cobra.Command{
		Use:   "createPerson",
		Short: "Register a person, including staff roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := entities.ParseRole(role)
			if err != nil {
				return err
			}
			np.Role = r

			repo, err := repository.New(app.ctx, "postgres", app.log, app.cfg)
			if err != nil {
				return err
			}
			if err := repo.OnStart(app.ctx); err != nil {
				return err
			}
			defer func() { _ = repo.OnStop(context.Background()) }()

			dayLoc, err := app.cfg.Attendance.Location()
			if err != nil {
				return err
			}
			uc := usecase.New(app.log, app.ctx, repo, app.cfg.HTTP.RequestTimeout, dayLoc, app.cfg.Attendance.JoinCodeLength)

			p, err := uc.RegisterPerson(app.ctx, np)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Person created\n\n")
			fmt.Printf("ID:        %s\n", p.ID)
			fmt.Printf("Role:      %s\n", p.Role)
			fmt.Printf("Scan code: %s\n", p.ScanCode)
			fmt.Printf("Approved:  %t\n\n", p.IsApproved)
			return nil
		},
	}

	cmd.Flags().StringVar(&np.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&np.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&np.ContactHandle, "contact", "", "Phone number or other contact handle")
	cmd.Flags().StringVar(&role, "role", string(entities.RoleAdmin), "Role")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("contact")
	return cmd
}

// IssueTokenCmd signs a bearer token for a person id with the configured secret.
func IssueTokenCmd(app *App) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "issueToken <person_id>",
		Short: "Sign a bearer token for a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			claims := middleware.Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   args[0],
					IssuedAt:  jwt.NewNumericDate(now),
					ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(app.cfg.Auth.JWTSecret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
