package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitcal/workout-tracker/internal/domain"
	"fitcal/workout-tracker/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
)

// DefaultsSeeder gives a new account its starter workout types.
type DefaultsSeeder interface {
	SeedDefaults(ctx context.Context, userID primitive.ObjectID) (int, error)
}

// UserPatch holds the account fields to change; nil means keep.
type UserPatch struct {
	Name  *string
	Email *string
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// Demo hands out the first account, creating a demo account when there is none.
	Demo(ctx context.Context) (token string, user *domain.User, err error)
	IssueToken(user *domain.User) (string, error)
	ParseToken(token string) (primitive.ObjectID, error)
	Me(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateMe(ctx context.Context, userID primitive.ObjectID, patch UserPatch) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	seeder        DefaultsSeeder
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, seeder DefaultsSeeder, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		seeder:        seeder,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new user registration and seeds the default workout types.
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, invalidf("name, email and password cannot be empty")
	}
	if email == domain.DemoUserEmail {
		return nil, ErrUserAlreadyExists
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	s.seed(ctx, user.ID)
	user.PasswordHash = ""
	return user, nil
}

// seed is best effort: an account without starter types is still usable.
func (s *authService) seed(ctx context.Context, userID primitive.ObjectID) {
	if s.seeder == nil {
		return
	}
	if _, err := s.seeder.SeedDefaults(ctx, userID); err != nil {
		log.Errorf("seed default workout types for user %s: %s", userID.Hex(), err)
	}
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		err = invalidf("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
		}
		return "", nil, err
	}
	if user.PasswordHash == "" {
		return "", nil, ErrAuthenticationFailed
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) Demo(ctx context.Context) (string, *domain.User, error) {
	user, err := s.userRepo.GetFirst(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		user = &domain.User{Name: "Demo user", Email: domain.DemoUserEmail, IsDemo: true}
		if _, err = s.userRepo.Create(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrDuplicate) {
				return "", nil, err
			}
			// created concurrently
			if user, err = s.userRepo.GetByEmail(ctx, domain.DemoUserEmail); err != nil {
				return "", nil, err
			}
		} else {
			log.Infof("created demo user %s", user.ID.Hex())
			s.seed(ctx, user.ID)
		}
	} else if err != nil {
		return "", nil, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) UpdateMe(ctx context.Context, userID primitive.ObjectID, patch UserPatch) (*domain.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, invalidf("name cannot be empty")
		}
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" {
			return nil, invalidf("email cannot be empty")
		}
		user.Email = email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUserAlreadyExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueToken creates a new JWT token for the given user.
func (s *authService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "workout-tracker",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}
	return signedToken, nil
}

// ParseToken validates a token and returns the user it was issued to.
func (s *authService) ParseToken(tokenString string) (primitive.ObjectID, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return userID, nil
}
