package cli

import (
	"context"
	"fmt"

	"github.com/bigschool/authkit/internal/apierr"
)

// Run выполняет команду и возвращает ошибку для кода выхода процесса
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	var err error
	switch command {
	case "register":
		err = c.runRegister(ctx)
	case "login":
		err = c.runLogin(ctx)
	case "logout":
		err = c.runLogout(ctx)
	case "status":
		err = c.runStatus(ctx)
	case "whoami":
		err = c.runWhoami(ctx)
	case "verify-email":
		err = c.runVerifyEmail(ctx, args)
	case "reset-password":
		err = c.runResetPassword(ctx, args)
	case "reset-password-confirm":
		err = c.runResetPasswordConfirm(ctx, args)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}

	if err != nil {
		// Кража refresh token заслуживает отдельного объяснения:
		// сервер уже отозвал ВСЕ сессии аккаунта
		if apierr.IsKind(err, apierr.KindRefreshTokenReuseDetected) {
			c.io.Println()
			c.io.Println("⚠️  Session token reuse detected: all sessions for this account")
			c.io.Println("have been revoked. Please login again on every device.")
		}
		return err
	}
	return nil
}
