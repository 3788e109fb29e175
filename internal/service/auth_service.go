package service

import (
	"context"
	"errors"
	"time"

	"github.com/classtrack/attendance-service/internal/auth"
	"github.com/classtrack/attendance-service/internal/config"
	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/repository"
)

// AuthService coordinates login flows for professors and scanner accounts.
type AuthService struct {
	professors repository.ProfessorRepository
	scanners   repository.ScannerRepository
	tokenMgr   *auth.TokenManager
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	ProfessorRepo repository.ProfessorRepository
	ScannerRepo   repository.ScannerRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		professors: deps.ProfessorRepo,
		scanners:   deps.ScannerRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// LoginProfessor authenticates a professor by email and password.
func (s *AuthService) LoginProfessor(ctx context.Context, email, password string) (*domain.Professor, string, time.Time, error) {
	professor, err := s.professors.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !professor.Active {
		return nil, "", time.Time{}, errors.New("professor inactive")
	}
	if err := auth.ComparePassword(professor.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(professor.ID, domain.SubjectTypeProfessor)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return professor, token, exp, nil
}

// LoginScanner authenticates a scanner station account.
func (s *AuthService) LoginScanner(ctx context.Context, email, password string) (*domain.Scanner, string, time.Time, error) {
	scanner, err := s.scanners.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !scanner.Active {
		return nil, "", time.Time{}, errors.New("scanner inactive")
	}
	if err := auth.ComparePassword(scanner.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(scanner.ID, domain.SubjectTypeScanner)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return scanner, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
