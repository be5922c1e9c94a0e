// Package oauth runs Google's authorization-code flow to obtain the ID token the backend's
// Google sign-in expects.
package oauth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

var (
	ErrDisabled  = errors.New("google sign-in is not configured")
	ErrNoIDToken = errors.New("token response carries no id_token")
)

type Google struct {
	config *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

// Enabled reports whether a client id is configured.
func (g *Google) Enabled() bool {
	return g != nil && g.config.ClientID != ""
}

// NewState returns a fresh value for the state parameter.
func NewState() string {
	return uuid.NewString()
}

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// IDToken exchanges an authorization code and returns the ID token issued with the access token.
func (g *Google) IDToken(ctx context.Context, code string) (string, error) {
	if !g.Enabled() {
		return "", ErrDisabled
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return "", ErrNoIDToken
	}
	return idToken, nil
}
