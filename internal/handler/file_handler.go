package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"relaychat/internal/app/message"
	"relaychat/internal/app/storage"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

// attachmentKeyPrefix namespaces every object this server presigns.
const attachmentKeyPrefix = "attachments/"

// PresignUploadInput defines the JSON input structure for generating an
// upload URL.
type PresignUploadInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignUploadURL generates a time-limited, pre-signed URL for a direct
// browser upload. The server never sees the file body.
func HandlePresignUploadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PresignUploadInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		if strings.TrimSpace(input.FileName) == "" || strings.TrimSpace(input.MimeType) == "" {
			resp.Error(w, errs.New(errs.ErrInvalidAttachment))
			return
		}

		if input.FileSize <= 0 || input.FileSize > message.MaxAttachmentSize {
			resp.Error(w, errs.New(errs.ErrInvalidAttachment))
			return
		}

		fileExt := strings.ToLower(filepath.Ext(input.FileName))
		fileKey := fmt.Sprintf("%s%s%s", attachmentKeyPrefix, uuid.New().String(), fileExt)

		url, err := deps.Storage.PresignUpload(
			r.Context(),
			fileKey,
			input.MimeType,
			input.FileSize,
			storage.PresignedURLDuration,
		)
		if err != nil {
			resp.Error(w, errs.New(errs.ErrInternal, err))
			return
		}

		resp.Success(w, map[string]any{
			"presignedUrl": url,
			"fileKey":      fileKey,
			"fileName":     input.FileName,
		})
	}
}

// HandlePresignDownloadURL redirects to a time-limited, pre-signed URL for
// the requested attachment key.
func HandlePresignDownloadURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileKey := r.URL.Query().Get("key")
		if fileKey == "" {
			resp.Error(w, errs.New(errs.ErrInvalidParams))
			return
		}

		// Only keys this server issued are downloadable through it.
		if !strings.HasPrefix(fileKey, attachmentKeyPrefix) {
			resp.Error(w, errs.New(errs.ErrForbidden))
			return
		}

		url, err := deps.Storage.PresignDownload(
			r.Context(),
			fileKey,
			storage.PresignedURLDuration,
		)
		if err != nil {
			resp.Error(w, errs.New(errs.ErrInternal, err))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}

// HandleDeleteFile removes an uploaded attachment object from the bucket.
// Moderator or admin only; users cannot erase each other's uploads.
func HandleDeleteFile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)
		if !u.CanModerate() {
			resp.Error(w, errs.New(errs.ErrForbidden))
			return
		}

		fileKey := r.URL.Query().Get("key")
		if fileKey == "" {
			resp.Error(w, errs.New(errs.ErrInvalidParams))
			return
		}

		if !strings.HasPrefix(fileKey, attachmentKeyPrefix) {
			resp.Error(w, errs.New(errs.ErrForbidden))
			return
		}

		if err := deps.Storage.Delete(r.Context(), fileKey); err != nil {
			resp.Error(w, errs.New(errs.ErrInternal, err))
			return
		}

		resp.Success(w, map[string]any{
			"fileKey": fileKey,
		})
	}
}
