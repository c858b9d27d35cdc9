package handler

import (
	"io"
	"net/http"

	"github.com/commercialspace/backend/internal/middleware"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/service"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UserHandler struct {
	users service.UserService
	log   logger.Logger
}

func NewUserHandler(users service.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	user, err := h.users.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		ImageURL: user.ImageURL,
	})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), identity.Email, service.UpdateProfileParams{
		Name:     req.Name,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		ImageURL: user.ImageURL,
	})
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	fileName, contentType, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	user, err := h.users.UploadAvatar(r.Context(), identity.Email, fileName, contentType, data)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"image_url": user.ImageURL})
}

// readUpload pulls the "file" part out of a multipart form, bounded by
// maxUploadBytes.
func readUpload(w http.ResponseWriter, r *http.Request) (fileName, contentType string, data []byte, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return "", "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file part is required"})
		return "", "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read file"})
		return "", "", nil, false
	}

	return header.Filename, header.Header.Get("Content-Type"), data, true
}
