package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/bigschool/authkit/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	isAuth, err := c.authService.IsAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	if !isAuth {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'authkit login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")

	user, err := c.authService.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			// Токены есть, профиль нет: сессия записана не нашим клиентом
			return nil
		}
		return fmt.Errorf("failed to read profile: %w", err)
	}

	c.io.Printf("Email: %s\n", user.Email.String())
	c.io.Printf("Account status: %s\n", user.Status)

	if !user.EmailVerified() {
		c.io.Println()
		c.io.Println("⚠️  Email is not verified. Run 'authkit verify-email TOKEN'.")
	}

	return nil
}
