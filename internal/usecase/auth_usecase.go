package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

type AuthUsecase struct {
	users     repo.UserRepository
	workshops repo.WorkshopRepository
	scopes    *ScopeResolver
	issuer    AccessTokenIssuer
}

func NewAuthUsecase(users repo.UserRepository, workshops repo.WorkshopRepository, scopes *ScopeResolver, issuer AccessTokenIssuer) *AuthUsecase {
	return &AuthUsecase{users: users, workshops: workshops, scopes: scopes, issuer: issuer}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginUserOutput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type LoginWorkshopOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LoginOutput struct {
	Access   string               `json:"access"`
	User     LoginUserOutput      `json:"user"`
	Workshop *LoginWorkshopOutput `json:"workshop"`
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return LoginOutput{}, errValidation("username and password are required")
	}

	usr, err := u.users.FindByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	}
	if err != nil {
		return LoginOutput{}, errDB()
	}
	if !usr.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(in.Password)) != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
	}

	token, _, err := u.issuer.Issue(usr.ID, time.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token_error", "could not issue token")
	}

	out := LoginOutput{
		Access: token,
		User:   LoginUserOutput{ID: usr.ID, Username: usr.Username},
	}

	// 割当工房も一緒に返す（未割当ならnull）
	scope, err := u.scopes.Resolve(ctx, usr.ID)
	if err != nil {
		return LoginOutput{}, err
	}
	if !scope.IsUnassigned() {
		w, err := u.workshops.FindByID(ctx, *scope.WorkshopID)
		if err == nil {
			out.Workshop = &LoginWorkshopOutput{ID: w.ID.String(), Name: w.Name}
		}
	}

	return out, nil
}

// 会員登録・setup-user用のハッシュ化
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (u *AuthUsecase) FindUser(ctx context.Context, userID int64) (model.User, error) {
	usr, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, errNotFound()
	}
	if err != nil {
		return model.User{}, errDB()
	}
	return usr, nil
}
