package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runVerifyEmail(ctx context.Context, args []string) error {
	c.io.Println("=== Verify Email ===")
	c.io.Println()

	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		token, err = c.io.ReadInput("Verification token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("verification token cannot be empty")
	}

	user, err := c.authService.VerifyEmail(ctx, token)
	if err != nil {
		return describeError(err)
	}

	c.io.Println()
	c.io.Println("✓ Email verified!")
	c.io.Printf("Email: %s\n", user.Email.String())
	c.io.Printf("Account status: %s\n", user.Status)

	return nil
}
