package util

import (
	"pod360_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the staff session token payload.
type Claims struct {
	UserID uint           `json:"user_id"`
	Role   model.UserRole `json:"role"`
	Email  string         `json:"email"`
	jwt.RegisteredClaims
}

// InviteClaims is the respondent invite token payload. Everything except the
// stakeholder role is optional prefill data.
type InviteClaims struct {
	InvitationID string                `json:"invitation_id"`
	Stakeholder  model.StakeholderRole `json:"stakeholder"`
	FirstName    string                `json:"first_name,omitempty"`
	LastName     string                `json:"last_name,omitempty"`
	Email        string                `json:"email,omitempty"`
	Department   string                `json:"department,omitempty"`
	jwt.RegisteredClaims
}

func GenerateJWT(user *model.User, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

// GenerateInviteToken issues the respondent credential. Invite tokens carry
// no expiry: the invitation row is the source of truth for revocation.
func GenerateInviteToken(inv *model.Invitation, secret string) (string, error) {
	claims := &InviteClaims{
		InvitationID: inv.ID,
		Stakeholder:  inv.Stakeholder,
		FirstName:    inv.FirstName,
		LastName:     inv.LastName,
		Email:        inv.Email,
		Department:   inv.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			ID:       model.GenerateUUID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// DecodeInviteToken recovers the stakeholder role and prefill identity from
// an invite token. Failure is expected to be non-fatal: callers fall back to
// the default role instead of rejecting the session.
func DecodeInviteToken(tokenString, secret string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*InviteClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
