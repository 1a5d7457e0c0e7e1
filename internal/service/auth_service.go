package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/tally-app/tally/internal/auth"
	"github.com/tally-app/tally/internal/models"
)

// AuthService handles account registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwtManager: jwtManager}
}

// Register creates a user account and returns a signed token so the
// client is logged in immediately.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	msg := req.Msg
	if msg.Email == "" || msg.DisplayName == "" || msg.Password == "" {
		return nil, errInvalid("email, display_name and password are required")
	}

	user, err := s.authenticator.Register(ctx, msg.Email, msg.DisplayName, msg.Password)
	if err != nil {
		return nil, rpcError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, rpcError(err)
	}

	return connect.NewResponse(&RegisterResponse{
		User:  toWireUser(user),
		Token: token,
	}), nil
}

// Login verifies credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	msg := req.Msg
	if msg.Email == "" || msg.Password == "" {
		return nil, errInvalid("email and password are required")
	}

	user, err := s.authenticator.Authenticate(ctx, msg.Email, msg.Password)
	if err != nil {
		return nil, rpcError(err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, rpcError(err)
	}

	return connect.NewResponse(&LoginResponse{
		User:  toWireUser(user),
		Token: token,
	}), nil
}

func toWireUser(user *models.User) User {
	return User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}
