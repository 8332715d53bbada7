package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bigschool/authkit/internal/client/auth"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	user, err := c.authService.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return fmt.Errorf("not authenticated. Please run 'authkit login' first")
		}
		return fmt.Errorf("failed to read profile: %w", err)
	}

	c.io.Printf("ID:       %s\n", user.ID.String())
	c.io.Printf("Email:    %s\n", user.Email.String())
	if name := user.FullName(); name != "" {
		c.io.Printf("Name:     %s\n", name)
	}
	c.io.Printf("Status:   %s\n", user.Status)
	c.io.Printf("Verified: %t\n", user.EmailVerified())
	if user.LastLoginAt != nil {
		c.io.Printf("Last login: %s\n", user.LastLoginAt.Format(time.RFC3339))
	}

	return nil
}
