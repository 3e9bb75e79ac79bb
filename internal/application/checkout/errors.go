package checkout

import (
	"context"
	"errors"

	domain "github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shared"
)

// translate maps a collaborator failure onto a checkout error kind.
// Domain errors and cancellation pass through unchanged.
func translate(err error, operation string, fallback func(error) *shared.DomainError) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.UpstreamTimeout(operation, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fallback(err)
}

func invalidInput(message string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidInput, message)
}
