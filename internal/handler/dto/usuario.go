// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"fmt"
	"net/url"
	"strconv"
)

// UsuarioRequest is the body accepted by create and update. Absent fields
// are nil so that updates leave them untouched.
type UsuarioRequest struct {
	Nombre   *string `json:"nombre"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Activo   *bool   `json:"activo"`
}

// UsuarioRequestFromForm builds a request from URL-encoded form values.
func UsuarioRequestFromForm(form url.Values) (UsuarioRequest, error) {
	var req UsuarioRequest
	if v, ok := formValue(form, "nombre"); ok {
		req.Nombre = &v
	}
	if v, ok := formValue(form, "email"); ok {
		req.Email = &v
	}
	if v, ok := formValue(form, "password"); ok {
		req.Password = &v
	}
	if v, ok := formValue(form, "activo"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("activo: %w", err)
		}
		req.Activo = &b
	}
	return req, nil
}

func formValue(form url.Values, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// ErrorResponse is the body of every failed usuario request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse confirms a deletion.
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}
