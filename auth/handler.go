package auth

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// maxRequestBytes caps register and login bodies.
const maxRequestBytes = 64 << 10

type authResponse struct {
	Message string      `json:"message"`
	User    accountView `json:"user"`
	Token   string      `json:"token"`
}

func RegisterHandler(svc Service, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		req, err := decodeRegisterRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			encodeError(ErrValidation, w, logger)
			return
		}

		acc, token, err := svc.Register(r.Context(), req)
		if err != nil {
			encodeError(err, w, logger)
			return
		}

		w.WriteHeader(http.StatusCreated)
		encodeResponse(w, logger, authResponse{Message: "User registered successfully", User: viewOf(acc), Token: token})
	})
}

func LoginHandler(svc Service, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		req, err := decodeLoginRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			encodeError(ErrValidation, w, logger)
			return
		}

		acc, token, err := svc.Login(r.Context(), req)
		if err != nil {
			encodeError(err, w, logger)
			return
		}

		encodeResponse(w, logger, authResponse{Message: "Login successful", User: viewOf(acc), Token: token})
	})
}

func encodeError(err error, w http.ResponseWriter, logger logrus.FieldLogger) {
	code, msg := http.StatusBadRequest, err.Error()
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidEmail):
	case errors.Is(err, ErrEmailInUse):
		msg = "Email already in use"
	case errors.Is(err, ErrAccountNotFound):
		msg = "User not found"
	case errors.Is(err, ErrIncorrectPassword):
		msg = "Incorrect password"
	default:
		logger.WithError(err).Error("request failed")
		code, msg = http.StatusInternalServerError, "Internal server error"
	}

	w.WriteHeader(code)
	encodeResponse(w, logger, map[string]interface{}{"message": msg})
}

func encodeResponse(w http.ResponseWriter, logger logrus.FieldLogger, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("encoding response")
	}
}

func decodeRegisterRequest(body io.ReadCloser) (registerRequest, error) {
	req := registerRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return registerRequest{}, err
	}
	return req, nil
}

func decodeLoginRequest(body io.ReadCloser) (loginRequest, error) {
	req := loginRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return loginRequest{}, err
	}
	return req, nil
}
