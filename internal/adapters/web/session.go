package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookie = "lfg_session"
	ctxUserID     = "userID"
	ctxUserName   = "userName"
)

var errBadSession = errors.New("invalid session")

// Sessions firma y valida la cookie de sesión (JWT HS256).
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	secure bool
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now, secure: secure}
}

func (s *Sessions) Issue(discordID, username string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  discordID,
		"name": username,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse devuelve (discordID, username) de un token válido.
func (s *Sessions) Parse(token string) (string, string, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid {
		return "", "", errBadSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errBadSession
	}
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return "", "", errBadSession
	}
	return sub, name, nil
}

func (s *Sessions) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
}

func (s *Sessions) ClearCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", s.secure, true)
}

// Middleware exige sesión; sin ella redirige a /login.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(sessionCookie)
		if err != nil || raw == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		id, name, err := s.Parse(raw)
		if err != nil {
			s.ClearCookie(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(ctxUserID, id)
		c.Set(ctxUserName, name)
		c.Next()
	}
}
