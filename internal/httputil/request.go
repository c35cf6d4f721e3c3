package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"virtualcto/internal/domain"

	"github.com/google/uuid"
)

// maxBodyBytes bounds every request body; payloads here are tiny
const maxBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// Unknown fields are ignored; validation happens downstream.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

// Credentials is the username/password pair posted to login and register
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ParseCredentials reads credentials either from an OAuth2 password-grant
// form (application/x-www-form-urlencoded or multipart) or from a JSON body.
func ParseCredentials(w http.ResponseWriter, r *http.Request) (*Credentials, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid form: %v", err)}
		}
		return &Credentials{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	default:
		var creds Credentials
		if err := ParseJSON(w, r, &creds); err != nil {
			return nil, err
		}
		return &creds, nil
	}
}

// PathUUID returns the named path value after checking it is a UUID.
// The canonical lowercase form is returned.
func PathUUID(r *http.Request, name string) (string, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", &domain.ValidationError{Message: fmt.Sprintf("invalid %s: must be a UUID", name)}
	}
	return id.String(), nil
}
