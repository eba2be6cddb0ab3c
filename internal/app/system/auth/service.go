package auth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/dalemusser/photoshare/internal/domain/models"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// DefaultGoogleUserInfoURL is Google's OAuth2 userinfo endpoint.
const DefaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// MinPasswordLength is the shortest password SignUp accepts.
const MinPasswordLength = 6

// Users is the slice of the data service the auth service needs.
type Users interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	AddUser(ctx context.Context, u models.User) (models.User, error)
}

// Identity is a signed-in user together with how they signed in.
type Identity struct {
	User     models.User `json:"user"`
	Provider string      `json:"provider"`
}

// Session returns the value stored in the session cookie.
func (id Identity) Session() SessionUser {
	return SessionUser{
		ID:       id.User.ID,
		Username: id.User.Username,
		Email:    id.User.Email,
		Provider: id.Provider,
	}
}

// Service signs users up and in. Signing out is purely a session concern
// and lives on SessionManager.
type Service struct {
	Accounts          AccountStore
	Users             Users
	GoogleUserInfoURL string
	Log               *zap.Logger
	Now               func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// SignUp creates a password account and its user record. Username defaults
// to the local part of the email.
func (s *Service) SignUp(ctx context.Context, email, password, username string) (Identity, error) {
	email, ok := plainAddress(email)
	if !ok {
		return Identity{}, apperr.Validation("a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return Identity{}, apperr.Validation("password must be at least %d characters", MinPasswordLength)
	}
	existing, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if existing != nil {
		return Identity{}, fmt.Errorf("email already registered: %w", apperr.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = email[:strings.Index(email, "@")]
	}
	return s.register(ctx, models.NewUser("", username, email, s.now()), models.Account{
		Email:        email,
		PasswordHash: string(hash),
		Provider:     models.ProviderPassword,
	})
}

// plainAddress accepts a bare address such as user@example.com. Display
// names and angle brackets are rejected.
func plainAddress(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" || addr.Address != raw {
		return "", false
	}
	return addr.Address, true
}

// SignIn checks an email and password. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (Identity, error) {
	invalid := fmt.Errorf("invalid email or password: %w", apperr.ErrNotAuthenticated)
	acct, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if acct == nil || acct.PasswordHash == "" {
		return Identity{}, invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return Identity{}, invalid
	}
	return s.identity(ctx, acct.ID, models.ProviderPassword)
}

// googleUserInfo mirrors the fields of Google's userinfo response we use.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// SignInGoogle exchanges a Google access token for an identity. A
// verified email already registered with a password signs into that user.
func (s *Service) SignInGoogle(ctx context.Context, accessToken string) (Identity, error) {
	if strings.TrimSpace(accessToken) == "" {
		return Identity{}, apperr.Validation("access token is required")
	}
	info, err := s.fetchGoogleUserInfo(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	if err != nil {
		return Identity{}, err
	}
	if info.ID == "" {
		return Identity{}, fmt.Errorf("google profile has no id: %w", apperr.ErrNotAuthenticated)
	}

	acct, err := s.Accounts.GetByProvider(ctx, models.ProviderGoogle, info.ID)
	if err != nil {
		return Identity{}, err
	}
	if acct != nil {
		return s.identity(ctx, acct.ID, models.ProviderGoogle)
	}
	email, ok := plainAddress(info.Email)
	if !ok {
		email = ""
	}
	if email != "" && info.VerifiedEmail {
		byEmail, err := s.Accounts.GetByEmail(ctx, email)
		if err != nil {
			return Identity{}, err
		}
		if byEmail != nil {
			return s.identity(ctx, byEmail.ID, models.ProviderGoogle)
		}
	}

	username := strings.TrimSpace(info.Name)
	if username == "" && email != "" {
		username = email[:strings.Index(email, "@")]
	}
	if username == "" {
		username = "google-" + info.ID
	}
	u := models.NewUser("", username, email, s.now())
	if info.Picture != "" {
		u.ProfilePicture = &info.Picture
	}
	return s.register(ctx, u, models.Account{
		Email:           email,
		Provider:        models.ProviderGoogle,
		ProviderSubject: info.ID,
	})
}

func (s *Service) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	url := s.GoogleUserInfoURL
	if url == "" {
		url = DefaultGoogleUserInfoURL
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, apperr.Backend("fetch google userinfo", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("google rejected token: %w", apperr.ErrNotAuthenticated)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperr.Backend("fetch google userinfo",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperr.Backend("decode google userinfo", err)
	}
	return &info, nil
}

// SignInAnonymous creates a throwaway user with a random handle.
func (s *Service) SignInAnonymous(ctx context.Context) (Identity, error) {
	raw := securecookie.GenerateRandomKey(8)
	if raw == nil {
		return Identity{}, errors.New("generate anonymous subject")
	}
	subject := hex.EncodeToString(raw)
	return s.register(ctx, models.NewUser("", "guest-"+subject[:8], "", s.now()), models.Account{
		Provider:        models.ProviderAnonymous,
		ProviderSubject: subject,
	})
}

// register stores a new user and then its account under the same id.
func (s *Service) register(ctx context.Context, u models.User, acct models.Account) (Identity, error) {
	u, err := s.Users.AddUser(ctx, u)
	if err != nil {
		return Identity{}, err
	}
	acct.ID = u.ID
	acct.CreatedAt = u.CreatedAt
	if _, err := s.Accounts.Create(ctx, acct); err != nil {
		// The user record stays; records are never deleted.
		s.Log.Warn("account create failed after user insert",
			zap.String("user_id", u.ID), zap.String("provider", acct.Provider), zap.Error(err))
		return Identity{}, err
	}
	s.Log.Info("account registered", zap.String("user_id", u.ID), zap.String("provider", acct.Provider))
	return Identity{User: u, Provider: acct.Provider}, nil
}

func (s *Service) identity(ctx context.Context, userID, provider string) (Identity, error) {
	u, err := s.Users.GetUser(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	if u == nil {
		return Identity{}, fmt.Errorf("user %s missing for account: %w", userID, apperr.ErrNotAuthenticated)
	}
	return Identity{User: *u, Provider: provider}, nil
}
