package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadSize = 15 << 20 // 15MB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

//	@Summary		Upload an image
//	@Description	Accepts a multipart "image" up to 15MB and returns its relative URL
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file	true	"Image file"
//	@Success		201		{object}	map[string]string
//	@Failure		400		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/upload [post]
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		app.badRequestResponse(w, r, errors.New("image exceeds the 15MB limit"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("image file is required"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported image type %q", ext))
		return
	}

	if err := os.MkdirAll(app.config.uploadDir, 0o755); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	filename := uuid.New().String() + ext
	dstPath := filepath.Join(app.config.uploadDir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dstPath)
		app.internalServerError(w, r, err)
		return
	}

	resp := map[string]string{"image_url": "uploads/" + filename}
	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
