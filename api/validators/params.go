package validators

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// ParseID reads a positive numeric identifier from the chi URL parameter.
func ParseID(r *http.Request, param string) (uint64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]any{"field": param})
	}
	return id, nil
}

// URLParam returns the unescaped chi URL parameter.
func URLParam(r *http.Request, param string) string {
	raw := chi.URLParam(r, param)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
