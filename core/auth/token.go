package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/portal/core"
)

const (
	tokenAudience      = "portal-professor"
	refreshTokenPrefix = "refresh-token"
)

var signingMethod = jwt.SigningMethodHS256

// Claims represents the authorization claims transmitted via an access token.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role,omitempty"`
}

type tokenIssuer struct {
	issuer string
	key    []byte
}

func newTokenIssuer(conf *core.Config) tokenIssuer {
	return tokenIssuer{issuer: conf.AppName, key: []byte(conf.SecretKey)}
}

// accessToken generates a signed access token for usr. Every call yields a distinct token.
func (ti tokenIssuer) accessToken(usr User, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        core.NewID("session"),
			Issuer:    ti.issuer,
			Subject:   usr.ID,
			Audience:  tokenAudience,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
		Role: usr.Role,
	}
	ss, err := jwt.NewWithClaims(signingMethod, claims).SignedString(ti.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (ti tokenIssuer) refreshToken() string {
	return core.NewID(refreshTokenPrefix)
}

// parse checks the token signature and returns its claims.
// Expiry is not checked here: the session registry is the source of truth for validity.
func (ti tokenIssuer) parse(token string) (*Claims, error) {
	parser := jwt.Parser{
		ValidMethods:         []string{signingMethod.Alg()},
		SkipClaimsValidation: true,
	}
	claims := new(Claims)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return ti.key, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Audience != tokenAudience {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
