package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickfixhub/provider"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrMissingFields signals required signup data is absent.
	ErrMissingFields = errors.New("auth: missing required fields")
	// ErrInvalidRole signals a role outside homeowner/provider.
	ErrInvalidRole = errors.New("auth: invalid role")
	// ErrProviderProfileRequired signals a provider signup without
	// serviceTypes or address.
	ErrProviderProfileRequired = errors.New("auth: providers must specify serviceTypes and address")
)

// ProfileCreator registers the provider profile created alongside a
// provider signup.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, params provider.CreateProfileParams) (provider.Profile, error)
}

// Service handles authentication business logic.
type Service struct {
	repo      Repository
	profiles  ProfileCreator
	jwtSecret []byte
}

// SignupResult bundles the new user, their token and, for providers, the
// profile created in the same flow.
type SignupResult struct {
	Token   string
	User    User
	Profile *provider.Profile
}

// LoginResult bundles the token and domain user returned after a
// successful login.
type LoginResult struct {
	Token string
	User  User
}

// NewService creates a new authentication service.
func NewService(repo Repository, profiles ProfileCreator, jwtSecret string) *Service {
	return &Service{
		repo:      repo,
		profiles:  profiles,
		jwtSecret: []byte(jwtSecret),
	}
}

// Signup creates a new user account. Provider signups also create the
// provider profile; its inputs are validated before the user row is
// written so a failed profile never leaves a half-registered provider.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (SignupResult, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.Role == "" {
		return SignupResult{}, ErrMissingFields
	}
	if req.Role != RoleHomeowner && req.Role != RoleProvider {
		return SignupResult{}, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)
	}
	if len(req.Password) < 8 {
		return SignupResult{}, ErrWeakPassword
	}
	if req.Role == RoleProvider && (len(req.ServiceTypes) == 0 || req.Address == "") {
		return SignupResult{}, ErrProviderProfileRequired
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return SignupResult{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         req.Role,
		Phone:        req.Phone,
	})
	if err != nil {
		return SignupResult{}, err
	}

	result := SignupResult{User: user}

	if req.Role == RoleProvider {
		profile, err := s.profiles.CreateProfile(ctx, provider.CreateProfileParams{
			ProviderID:   user.ID,
			ServiceTypes: req.ServiceTypes,
			Address:      req.Address,
		})
		if err != nil {
			return SignupResult{}, err
		}
		result.Profile = &profile
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return SignupResult{}, fmt.Errorf("auth: generate token: %w", err)
	}
	result.Token = token
	return result, nil
}

// Login authenticates a user and returns a JWT token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return LoginResult{}, ErrMissingFields
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return LoginResult{Token: token, User: user}, nil
}

// GetUserByID retrieves user information by ID.
func (s *Service) GetUserByID(ctx context.Context, userID string) (User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// VerifyToken validates a JWT token and returns the actor's id and role.
func (s *Service) VerifyToken(tokenString string) (string, Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("auth: parse token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(string)
		if !ok {
			return "", "", fmt.Errorf("auth: invalid user_id in token")
		}
		roleStr, ok := claims["role"].(string)
		if !ok {
			return "", "", fmt.Errorf("auth: invalid role in token")
		}
		role := Role(roleStr)
		if role != RoleHomeowner && role != RoleProvider {
			return "", "", fmt.Errorf("%w: %q in token", ErrInvalidRole, roleStr)
		}
		return userID, role, nil
	}

	return "", "", fmt.Errorf("auth: invalid token")
}

// generateToken creates a JWT token for the user.
func (s *Service) generateToken(userID string, role Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
