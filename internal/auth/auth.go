package auth

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/singh-sj/ecommerce-backend/internal/db"
	"github.com/singh-sj/ecommerce-backend/internal/models"
)

var (
	provider     *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
)

const SessionName = "shopsess"

func Init() {
	ctx := context.Background()

	issuer := os.Getenv("OIDC_ISSUER")
	if issuer == "" {
		log.Println("OIDC_ISSUER not set, OIDC login disabled")
		return
	}

	var err error
	provider, err = oidc.NewProvider(ctx, issuer)
	if err != nil {
		log.Fatalf("OIDC provider init error: %v", err)
	}

	verifier = provider.Verifier(&oidc.Config{ClientID: os.Getenv("OIDC_CLIENT_ID")})

	oauth2Config = &oauth2.Config{
		ClientID:     os.Getenv("OIDC_CLIENT_ID"),
		ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone"},
	}
}

// GET /auth/login
func Login(c *gin.Context) {
	if oauth2Config == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OIDC login is not configured"})
		return
	}
	state := "rand" // TODO: generate & store real CSRF-safe state if needed
	url := oauth2Config.AuthCodeURL(state)
	c.Redirect(http.StatusFound, url)
}

// GET /auth/callback
func Callback(c *gin.Context) {
	if oauth2Config == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OIDC login is not configured"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	var claims struct {
		Sub      string `json:"sub"`
		Username string `json:"preferred_username"`
		Name     string `json:"given_name"`
		Family   string `json:"family_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone_number"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	username := claims.Username
	if username == "" {
		username = claims.Email
	}

	// Upsert the user by OIDC subject
	var user models.User
	if err := db.DB.Where("oidc_id = ?", claims.Sub).First(&user).Error; err != nil {
		user = models.User{
			OIDCID:    claims.Sub,
			Username:  username,
			Email:     claims.Email,
			FirstName: claims.Name,
			LastName:  claims.Family,
			Phone:     claims.Phone,
		}
		db.DB.Create(&user)
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	_ = sess.Save()

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// RequireAuth ensures a user is logged in and injects *models.User into the
// request context; handlers read it back through CurrentUser. Actions that
// need an identity are forbidden without one.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := sess.Get("user_id").(uint)
		if !ok || userID == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "authentication required"})
			return
		}

		var user models.User
		if err := db.DB.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user not found"})
			return
		}
		c.Set("user", &user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed on the context by
// RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
