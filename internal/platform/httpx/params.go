package httpx

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParamInt64 parses a chi URL parameter as int64.
func ParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
