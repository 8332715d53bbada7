package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bigschool/authkit/internal/apierr"
)

// describeError дополняет доменную ошибку деталями для вывода в консоль
func describeError(err error) error {
	var domainErr *apierr.Error
	if !errors.As(err, &domainErr) {
		return err
	}

	switch domainErr.Kind {
	case apierr.KindAccountLocked:
		lockout := time.Duration(domainErr.RemainingSeconds) * time.Second
		return fmt.Errorf("%w (try again in %s)", domainErr, lockout)
	case apierr.KindWeakPassword:
		if len(domainErr.MissingRequirements) == 0 {
			return err
		}
		return fmt.Errorf("%w:\n  - %s", domainErr,
			strings.Join(domainErr.MissingRequirements, "\n  - "))
	default:
		return err
	}
}
