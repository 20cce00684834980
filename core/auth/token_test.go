package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/trezcool/portal/core"
)

func TestTokenIssuer(t *testing.T) {
	conf := &core.Config{AppName: "portal", SecretKey: "secret"}
	ti := newTokenIssuer(conf)
	usr := User{ID: "user-1", Name: "T", Email: "t@test.test", Role: RoleTeacher}

	now := time.Now()
	validToken, err := ti.accessToken(usr, now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("accessToken() failed: %v", err)
	}
	// expiry is the registry's business: an expired token still parses
	expiredToken, _ := ti.accessToken(usr, now.Add(-2*time.Hour), now.Add(-time.Hour))

	otherKey, _ := newTokenIssuer(&core.Config{AppName: "portal", SecretKey: "other"}).accessToken(usr, now, now.Add(time.Hour))

	noSubject, _ := jwt.NewWithClaims(signingMethod, &Claims{
		StandardClaims: jwt.StandardClaims{Audience: tokenAudience},
	}).SignedString(ti.key)
	wrongAudience, _ := jwt.NewWithClaims(signingMethod, &Claims{
		StandardClaims: jwt.StandardClaims{Subject: usr.ID, Audience: "other"},
	}).SignedString(ti.key)
	wrongMethod, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		StandardClaims: jwt.StandardClaims{Subject: usr.ID, Audience: tokenAudience},
	}).SignedString(ti.key)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", wantErr: ErrInvalidToken},
		{name: "garbage", token: "lmaooolol", wantErr: ErrInvalidToken},
		{name: "signed with another key", token: otherKey, wantErr: ErrInvalidToken},
		{name: "no subject", token: noSubject, wantErr: ErrInvalidToken},
		{name: "wrong audience", token: wrongAudience, wantErr: ErrInvalidToken},
		{name: "wrong signing method", token: wrongMethod, wantErr: ErrInvalidToken},
		{name: "expired token", token: expiredToken},
		{name: "valid token", token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ti.parse(tt.token)
			if err != tt.wantErr {
				t.Fatalf("parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (claims.Subject != usr.ID || claims.Role != RoleTeacher) {
				t.Errorf("parse() claims = %+v", claims)
			}
		})
	}

	again, _ := ti.accessToken(usr, now, now.Add(time.Hour))
	if again == validToken {
		t.Error("accessToken() issued the same token twice")
	}
}
