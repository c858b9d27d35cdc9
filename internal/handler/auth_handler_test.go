package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/service"
	"github.com/stretchr/testify/assert"
)

type stubResetService struct {
	requestErr error
	resetErr   error
}

func (s *stubResetService) RequestReset(ctx context.Context, email string) error {
	return s.requestErr
}

func (s *stubResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetErr
}

func TestAuthHandler_ResetPassword_ShortPasswordReturns400(t *testing.T) {
	resets := &stubResetService{
		resetErr: fmt.Errorf("password must be at least 6 characters: %w", entity.ErrValidation),
	}
	h := NewAuthHandler(nil, resets, logger.NoOp())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password",
		strings.NewReader(`{"token":"some-token","password":"abc"}`))
	rec := httptest.NewRecorder()

	h.ResetPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 6 characters")
}

func TestAuthHandler_ResetPassword_UnknownTokenReturns400(t *testing.T) {
	resets := &stubResetService{resetErr: service.ErrInvalidToken}
	h := NewAuthHandler(nil, resets, logger.NoOp())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password",
		strings.NewReader(`{"token":"stale-token","password":"newsecret"}`))
	rec := httptest.NewRecorder()

	h.ResetPassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
