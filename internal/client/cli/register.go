package cli

import (
	"context"
	"fmt"

	"github.com/bigschool/authkit/internal/client/auth"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Register ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	firstName, err := c.io.ReadInput("First name: ")
	if err != nil {
		return fmt.Errorf("failed to read first name: %w", err)
	}

	lastName, err := c.io.ReadInput("Last name: ")
	if err != nil {
		return fmt.Errorf("failed to read last name: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	confirmation, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}

	acceptTerms, err := c.io.Confirm("Accept the terms of service?")
	if err != nil {
		return fmt.Errorf("failed to read answer: %w", err)
	}

	c.io.Println()
	c.io.Println("Registering...")

	result, err := c.authService.Register(ctx, auth.RegisterInput{
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
		FirstName:            firstName,
		LastName:             lastName,
		AcceptTerms:          acceptTerms,
	})
	if err != nil {
		return describeError(err)
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Email: %s\n", result.User.Email.String())

	if result.RequiresEmailVerification {
		c.io.Println()
		c.io.Println("Check your inbox: a verification email has been sent.")
		c.io.Println("Confirm your address with 'authkit verify-email TOKEN'.")
		if result.VerificationToken != "" {
			// Токен приходит в ответе только вне production
			c.io.Printf("Verification token: %s\n", result.VerificationToken)
		}
	}

	c.io.Println()
	c.io.Println("Run 'authkit login' to start a session.")

	return nil
}
