// Package cli реализует консольные команды клиента
package cli

import (
	"fmt"

	"github.com/bigschool/authkit/internal/client/auth"
	"github.com/bigschool/authkit/internal/client/iocli"
)

type Cli struct {
	authService auth.Service
	io          iocli.IO
}

func New(authService auth.Service, io iocli.IO) *Cli {
	return &Cli{
		authService: authService,
		io:          io,
	}
}

func PrintUsage() {
	fmt.Println("Big School Auth Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  authkit [OPTIONS] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version        Show version information")
	fmt.Println("  --server URL     Server URL (default: http://localhost:3000)")
	fmt.Println("  --db PATH        Path to local session database (default: authkit-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register                       Register new account")
	fmt.Println("  login                          Login to server")
	fmt.Println("  logout                         Revoke session and clear local data")
	fmt.Println("  status                         Show authentication status")
	fmt.Println("  whoami                         Show current user profile")
	fmt.Println("  verify-email [TOKEN]           Confirm email address")
	fmt.Println("  reset-password [EMAIL]         Request a password reset email")
	fmt.Println("  reset-password-confirm [TOKEN] Set a new password using a reset token")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  authkit register")
	fmt.Println("  authkit login")
	fmt.Println("  authkit whoami")
	fmt.Println("  authkit verify-email b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5")
	fmt.Println("  authkit --server https://auth.example.com login")
}
