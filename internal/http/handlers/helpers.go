package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	return strconv.ParseInt(value, 10, 64)
}

var errMissingParam = errors.New("missing param")
