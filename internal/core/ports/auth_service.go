package ports

import (
	"context"

	"github.com/flujo/pos-system/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email string) (string, *domain.User, error)
}
