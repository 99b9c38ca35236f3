package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

// parseTables parses a comma-separated tables parameter, e.g. "3,7".
func parseTables(s string) []int {
	if s == "" {
		return nil
	}
	var tables []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			tables = append(tables, n)
		}
	}
	return tables
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
