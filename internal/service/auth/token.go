package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService verifies access tokens issued by the fleet identity provider.
// Tokens are never minted here; operator accounts and credentials live in the
// IdP and this service only checks the HMAC signature and materializes the
// operator from the claims.
type TokenService struct {
	secret string
	log    logger.Logger
}

func NewTokenService(secret string, log logger.Logger) *TokenService {
	return &TokenService{
		secret: secret,
		log:    log,
	}
}

// RoleCheck validates the token and returns the operator it identifies.
func (s *TokenService) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "role_check")

	parsedToken, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	mc, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	userIDStr, _ := mc["sub"].(string)
	if userIDStr == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'sub' claim", ErrInvalidToken))
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: malformed 'sub' claim", ErrInvalidToken))
	}

	expFloat, ok := mc["exp"].(float64)
	if !ok {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'exp' claim", ErrInvalidToken))
	}
	if time.Now().UTC().After(time.Unix(int64(expFloat), 0)) {
		return nil, wrap.Error(ctx, ErrExpToken)
	}

	roleStr, _ := mc["role"].(string)
	role := types.UserRole(roleStr)
	switch role {
	case types.AdminRole, types.OperatorRole, types.ViewerRole:
	default:
		return nil, wrap.Error(ctx, ErrUnknownRole)
	}

	name, _ := mc["name"].(string)
	email, _ := mc["email"].(string)

	return &models.User{
		ID:    userID,
		Name:  name,
		Email: email,
		Role:  role,
	}, nil
}
