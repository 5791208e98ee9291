package services

import (
	"errors"
	"time"

	"task-management-app/backend/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users     domain.UserRepository
	accounts  *UserService
	secretKey []byte
	tokenTTL  time.Duration
}

func NewAuthService(users domain.UserRepository, accounts *UserService, secretKey []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		accounts:  accounts,
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

// LogIn checks the credentials and issues a signed session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) LogIn(email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		var notFound domain.NotFoundError
		if errors.As(err, &notFound) {
			return "", nil, domain.ErrInvalidCredentials()
		}
		return "", nil, err
	}

	if !CheckPasswordHash(password, user.Password) {
		return "", nil, domain.ErrInvalidCredentials()
	}

	token, err := s.createToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Register creates an account through the normal user path. The first
// registered account becomes the admin regardless of the requested role.
func (s *AuthService) Register(name, email, password, roleString string) (domain.User, error) {
	count, err := s.users.Count()
	if err != nil {
		return domain.User{}, err
	}
	if count == 0 {
		roleString = domain.RoleAdmin.String()
	}
	return s.accounts.Create(name, email, password, roleString)
}

func (s *AuthService) createToken(user *domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"_id":  user.Id,
			"role": user.Role.String(),
			"exp":  time.Now().Add(s.tokenTTL).Unix(),
		})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// VerifyToken parses the session token and returns the actor it identifies.
// Expired tokens are flagged so clients can prompt a re-login instead of
// reporting a bug.
func (s *AuthService) VerifyToken(tokenString string) (*domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.AuthenticationError{
				Message: "Token expired. Please log in again.",
				Expired: true,
			}
		}
		return nil, domain.AuthenticationError{Message: "Invalid token. Please log in again."}
	}

	if !token.Valid {
		return nil, domain.AuthenticationError{Message: "Token is not valid"}
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok {
		return nil, domain.AuthenticationError{Message: "unable to parse token claims"}
	}

	actor := &domain.Actor{}

	if id, ok := (*claims)["_id"].(string); ok {
		actor.Id = id
	}
	if roleString, ok := (*claims)["role"].(string); ok {
		role, err := domain.RoleFromString(roleString)
		if err != nil {
			return nil, domain.AuthenticationError{Message: "Token is not valid"}
		}
		actor.Role = role
	}

	if actor.Id == "" {
		return nil, domain.AuthenticationError{Message: "Token is not valid"}
	}

	return actor, nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
