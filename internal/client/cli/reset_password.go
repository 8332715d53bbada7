package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runResetPassword(ctx context.Context, args []string) error {
	c.io.Println("=== Password Reset ===")
	c.io.Println()

	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		email, err = c.io.ReadInput("Email: ")
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	if err := c.authService.RequestPasswordReset(ctx, email); err != nil {
		return describeError(err)
	}

	// Сервер отвечает одинаково для существующих и несуществующих
	// аккаунтов, формулировка это отражает
	c.io.Println()
	c.io.Println("✓ Request accepted.")
	c.io.Println("If an account exists for this address, a reset email has been sent.")
	c.io.Println("Continue with 'authkit reset-password-confirm TOKEN'.")

	return nil
}

func (c *Cli) runResetPasswordConfirm(ctx context.Context, args []string) error {
	c.io.Println("=== Confirm Password Reset ===")
	c.io.Println()

	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		token, err = c.io.ReadInput("Reset token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}
	if token == "" {
		return fmt.Errorf("reset token cannot be empty")
	}

	newPassword, err := c.io.ReadPassword("New password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirmation, err := c.io.ReadPassword("Confirm new password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}

	if err := c.authService.ConfirmPasswordReset(ctx, token, newPassword, confirmation); err != nil {
		return describeError(err)
	}

	c.io.Println()
	c.io.Println("✓ Password updated!")
	c.io.Println("All existing sessions have been revoked. Run 'authkit login'.")

	return nil
}
