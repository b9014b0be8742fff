package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			JSONError(w, http.StatusBadRequest, "Username and password are required")
		case errors.Is(err, common.ErrorAlreadyExists):
			JSONError(w, http.StatusConflict, "User already exists")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", res.User.ID)
	_ = JSONWrite(w, http.StatusCreated, authResponse{User: res.User, Token: res.Tokens.AccessToken, RefreshToken: res.Tokens.RefreshToken})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			JSONError(w, http.StatusBadRequest, "Username and password are required")
		case errors.Is(err, common.ErrorUnauthorized):
			JSONError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	_ = JSONWrite(w, http.StatusOK, authResponse{User: res.User, Token: res.Tokens.AccessToken, RefreshToken: res.Tokens.RefreshToken})
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.RefreshToken == "" {
		JSONError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
			JSONError(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	_ = JSONWrite(w, http.StatusOK, refreshResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}
