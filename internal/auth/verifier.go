// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"github.com/minbao/minbao-tui/internal/api"
	"github.com/minbao/minbao-tui/internal/config"
)

// =============================================================================
// VERIFIER
// =============================================================================

// Result is the outcome of a passphrase check.
type Result struct {
	// OK is true when the passphrase was accepted.
	OK bool
	// Token is a bearer token for admin requests, when the verifier issues one.
	Token string
}

// Verifier checks an admin passphrase. A mismatch is reported as
// Result{OK: false} with a nil error; errors mean the check itself could not
// be performed.
type Verifier interface {
	Verify(ctx context.Context, passphrase string) (Result, error)
	// Name identifies the verifier in logs.
	Name() string
}

// NewVerifier builds the verifier selected by cfg.
func NewVerifier(cfg config.AuthConfig) (Verifier, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", config.AuthModeStatic:
		return NewStaticVerifier(cfg.Passphrase, cfg.PassphraseHash)
	case config.AuthModeService:
		if cfg.ServiceURL == "" {
			return nil, errors.New("auth: service mode requires a service URL")
		}
		return NewServiceVerifier(api.NewClient(cfg.ServiceURL)), nil
	case config.AuthModeTOTP:
		return NewTOTPVerifier(cfg.TOTPSecret)
	default:
		return nil, fmt.Errorf("auth: unknown mode %q", cfg.Mode)
	}
}

// =============================================================================
// STATIC VERIFIER
// =============================================================================

// StaticVerifier compares against a locally configured secret.
type StaticVerifier struct {
	secret []byte
	hash   []byte
}

// NewStaticVerifier creates a verifier for secret, or for a bcrypt hash when
// hash is non-empty.
func NewStaticVerifier(secret, hash string) (*StaticVerifier, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("auth: invalid passphrase hash: %w", err)
		}
		return &StaticVerifier{hash: []byte(hash)}, nil
	}
	if secret == "" {
		return nil, errors.New("auth: empty passphrase")
	}
	return &StaticVerifier{secret: []byte(secret)}, nil
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(_ context.Context, passphrase string) (Result, error) {
	if v.hash != nil {
		err := bcrypt.CompareHashAndPassword(v.hash, []byte(passphrase))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return Result{}, nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("auth: compare hash: %w", err)
		}
		return Result{OK: true}, nil
	}
	ok := subtle.ConstantTimeCompare(v.secret, []byte(passphrase)) == 1
	return Result{OK: ok}, nil
}

// Name implements Verifier.
func (v *StaticVerifier) Name() string {
	if v.hash != nil {
		return "static-bcrypt"
	}
	return "static"
}

// HashPassphrase returns a bcrypt hash suitable for auth.passphrase_hash.
func HashPassphrase(passphrase string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// =============================================================================
// SERVICE VERIFIER
// =============================================================================

// LoginClient is the subset of api.Client used by ServiceVerifier.
type LoginClient interface {
	Login(ctx context.Context, passphrase string) (*api.LoginResponse, error)
}

// ServiceVerifier delegates the check to a credential service that returns
// a signed session token. The client never sees the secret itself.
type ServiceVerifier struct {
	client LoginClient
}

// NewServiceVerifier creates a verifier backed by client.
func NewServiceVerifier(client LoginClient) *ServiceVerifier {
	return &ServiceVerifier{client: client}
}

// Verify implements Verifier. Any 4xx answer is a mismatch; transport
// failures and 5xx answers are errors.
func (v *ServiceVerifier) Verify(ctx context.Context, passphrase string) (Result, error) {
	resp, err := v.client.Login(ctx, passphrase)
	if err != nil {
		if code := api.StatusCode(err); code >= 400 && code < 500 {
			return Result{}, nil
		}
		return Result{}, err
	}
	if resp.Token == "" {
		return Result{}, errors.New("auth: credential service returned no token")
	}
	return Result{OK: true, Token: resp.Token}, nil
}

// Name implements Verifier.
func (v *ServiceVerifier) Name() string {
	return "service"
}

// =============================================================================
// TOTP VERIFIER
// =============================================================================

// totpOpts are the authenticator-app defaults, allowing one step of clock skew.
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// TOTPVerifier accepts a six-digit code derived from a shared secret.
type TOTPVerifier struct {
	secret string
	now    func() time.Time
}

// NewTOTPVerifier creates a verifier for the base32 secret.
func NewTOTPVerifier(secret string) (*TOTPVerifier, error) {
	secret = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	if secret == "" {
		return nil, errors.New("auth: empty totp secret")
	}
	// A code for the epoch checks that the secret decodes.
	if _, err := totp.GenerateCodeCustom(secret, time.Unix(0, 0), totpOpts); err != nil {
		return nil, fmt.Errorf("auth: invalid totp secret: %w", err)
	}
	return &TOTPVerifier{secret: secret, now: time.Now}, nil
}

// Verify implements Verifier.
func (v *TOTPVerifier) Verify(_ context.Context, passphrase string) (Result, error) {
	code := strings.ReplaceAll(strings.TrimSpace(passphrase), " ", "")
	ok, err := totp.ValidateCustom(code, v.secret, v.now().UTC(), totpOpts)
	if err != nil {
		// Malformed input is a mismatch, not a failed check.
		return Result{}, nil
	}
	return Result{OK: ok}, nil
}

// Name implements Verifier.
func (v *TOTPVerifier) Name() string {
	return "totp"
}

// GenerateTOTPSecret creates a new secret and its otpauth:// enrollment URL.
func GenerateTOTPSecret(account string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "minbao",
		AccountName: account,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}
