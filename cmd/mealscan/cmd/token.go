package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwtmw "meal_backend/internal/platform/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a client bearer token for the /v1 API",
	Long: `Sign a client token with auth.jwt_secret (JWT_SECRET). The token carries
the subject and the requested scopes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		scopes, _ := cmd.Flags().GetStringSlice("scope")

		token, err := jwtmw.NewGenerator(globalConfig.Auth.JWTSecret, ttl).GenerateToken(subject, scopes...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("subject", "", "client identifier stored in the sub claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	tokenCmd.Flags().StringSlice("scope", []string{jwtmw.ScopeMealsDetect}, "scopes to grant")
	_ = tokenCmd.MarkFlagRequired("subject")
}
