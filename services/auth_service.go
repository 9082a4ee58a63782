package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"golang.org/x/crypto/bcrypt"
)

const DevAdminID = "dev-admin"

var securityKeyPattern = regexp.MustCompile(`^[0-9]{6}$`)

type SetupInput struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	SecurityKey string `json:"securityKey" binding:"required,len=6,numeric"`
}

type LoginInput struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	SecurityKey string `json:"securityKey" binding:"required"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Admin     models.Admin `json:"admin"`
}

// DevCredentials is the development-only fixed login. It is ignored unless
// Enabled is set.
type DevCredentials struct {
	Enabled     bool
	Email       string
	Password    string
	SecurityKey string
}

type AuthService struct {
	admins *database.Repository[models.StoredAdmin]
	tokens *utils.TokenIssuer
	dev    DevCredentials
	now    func() time.Time
}

func NewAuthService(store *database.Store, tokens *utils.TokenIssuer, dev DevCredentials) *AuthService {
	return &AuthService{
		admins: database.NewRepository[models.StoredAdmin](store, database.CollectionAdmins),
		tokens: tokens,
		dev:    dev,
		now:    time.Now,
	}
}

// Setup creates the single admin account.
func (s *AuthService) Setup(ctx context.Context, in SetupInput) (models.Admin, error) {
	v := &ValidationError{}
	requireField(v, "fullName", in.FullName)
	checkEmail(v, "email", strings.TrimSpace(in.Email))
	requireField(v, "phone", in.Phone)
	if len(in.Password) < 6 {
		v.Add("password", "password must be at least 6 characters")
	}
	if !securityKeyPattern.MatchString(in.SecurityKey) {
		v.Add("securityKey", "securityKey must be exactly 6 digits")
	}
	if err := v.OrNil(); err != nil {
		return models.Admin{}, err
	}

	existing, err := s.admins.All()
	if err != nil {
		return models.Admin{}, err
	}
	if len(existing) > 0 {
		return models.Admin{}, ErrAdminExists
	}

	password, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, err
	}
	key, err := bcrypt.GenerateFromPassword([]byte(in.SecurityKey), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, err
	}

	now := s.now()
	admin := models.Admin{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		Password:    string(password),
		SecurityKey: string(key),
		Role:        models.RoleAdmin,
		Status:      models.AdminStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.admins.Create(admin.Stored())
	if err != nil {
		return models.Admin{}, err
	}
	utils.InfoLogger.WithField("admin_id", created.ID).Info("admin account created")
	return created.ToAdmin(), nil
}

// Login checks email, password and security key against the stored admin.
// The development credential is only consulted when no stored admin
// matches.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	admin, err := s.findByEmail(email)
	switch {
	case err == nil:
		if checkHash(admin.Password, in.Password) && checkHash(admin.SecurityKey, in.SecurityKey) {
			return s.issue(admin, true)
		}
	case !errors.Is(err, database.ErrNotFound):
		return LoginResult{}, err
	}

	if s.devMatch(email, in.Password, in.SecurityKey) {
		utils.InfoLogger.Warn("development admin credential used")
		return s.issue(s.devAdmin(), false)
	}
	return LoginResult{}, ErrInvalidCredentials
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(token string) error {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return ErrUnauthorized
	}
	s.tokens.Revoke(token, claims)
	return nil
}

func (s *AuthService) Profile(adminID string) (models.Admin, error) {
	if adminID == DevAdminID && s.dev.Enabled {
		return s.devAdmin(), nil
	}
	stored, err := s.admins.Get(adminID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.Admin{}, ErrUnauthorized
		}
		return models.Admin{}, err
	}
	return stored.ToAdmin(), nil
}

func (s *AuthService) findByEmail(email string) (models.Admin, error) {
	all, err := s.admins.All()
	if err != nil {
		return models.Admin{}, err
	}
	for _, a := range all {
		if strings.EqualFold(a.Email, email) {
			return a.ToAdmin(), nil
		}
	}
	return models.Admin{}, database.ErrNotFound
}

func (s *AuthService) issue(admin models.Admin, persisted bool) (LoginResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		return LoginResult{}, err
	}

	if persisted {
		now := s.now()
		if _, err := s.admins.Update(admin.ID, database.Record{"lastLoginAt": now}); err != nil {
			utils.ErrorLogger.WithError(err).WithField("admin_id", admin.ID).Warn("failed to record login time")
		} else {
			admin.LastLoginAt = now
		}
	}
	return LoginResult{Token: token, ExpiresAt: expiresAt, Admin: admin}, nil
}

func (s *AuthService) devMatch(email, password, key string) bool {
	if !s.dev.Enabled || s.dev.Email == "" || s.dev.Password == "" {
		return false
	}
	return strings.EqualFold(email, s.dev.Email) &&
		password == s.dev.Password &&
		key == s.dev.SecurityKey
}

func (s *AuthService) devAdmin() models.Admin {
	return models.Admin{
		ID:       DevAdminID,
		FullName: "Development Admin",
		Email:    s.dev.Email,
		Role:     models.RoleAdmin,
		Status:   models.AdminStatusActive,
	}
}

func checkHash(hash, plain string) bool {
	return hash != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
