package service

import (
	"context"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrCredenciales is deliberately indistinguishable between unknown user and
// wrong password.
var ErrCredenciales = &ValidacionError{Detalle: "credenciales inválidas"}

// AuthService authenticates users and issues JWT access tokens.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (string, *model.Usuario, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*model.Usuario, error)
	ListUsuarios(ctx context.Context) ([]model.Usuario, error)
}

type authService struct {
	usuarioRepo repository.UsuarioRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewAuthService(usuarioRepo repository.UsuarioRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		usuarioRepo: usuarioRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (string, *model.Usuario, error) {
	u, err := s.usuarioRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil, ErrCredenciales
		}
		return "", nil, &ProcesamientoError{Causa: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, ErrCredenciales
	}

	ahora := time.Now()
	claims := jwt.MapClaims{
		"sub":      u.ID.String(),
		"username": u.Username,
		"rol":      u.Rol,
		"iat":      ahora.Unix(),
		"exp":      ahora.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, &ProcesamientoError{Causa: err}
	}

	log.Info().Str("usuario", u.Username).Str("rol", u.Rol).Msg("login exitoso")
	return token, u, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*model.Usuario, error) {
	if _, err := s.usuarioRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, &ValidacionError{Detalle: "el username ya está en uso"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.usuarioRepo.Create(ctx, u); err != nil {
		return nil, &ProcesamientoError{Causa: err}
	}
	return u, nil
}

func (s *authService) ListUsuarios(ctx context.Context) ([]model.Usuario, error) {
	return s.usuarioRepo.List(ctx)
}
