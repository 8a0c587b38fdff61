package server

import (
	"bskyposts/bluesky"
	"bskyposts/utils"
	"errors"
	log "github.com/sirupsen/logrus"
	"net/http"
	"net/url"
)

func sendError(w http.ResponseWriter, errorCode int, message string) {
	log.Info(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCode)
	resp := map[string]string{
		"error": message,
	}
	jsonResp := utils.ToJson(resp)
	w.Write(jsonResp)
}

// sendFetchError maps the fetch error taxonomy onto HTTP statuses.
func sendFetchError(w http.ResponseWriter, err error) {
	var (
		resErr   *bluesky.ResolutionError
		authErr  *bluesky.AuthError
		fetchErr *bluesky.FetchError
	)

	switch {
	case errors.As(err, &resErr) && resErr.NotFound:
		sendError(w, http.StatusNotFound, "account not found")
	case errors.As(err, &resErr) && resErr.Malformed:
		sendError(w, http.StatusBadRequest, "invalid handle")
	case errors.As(err, &resErr), errors.As(err, &authErr), errors.As(err, &fetchErr):
		log.Errorf("Upstream error: %v", err)
		sendError(w, http.StatusBadGateway, "could not fetch posts")
	default:
		log.Errorf("Unexpected error: %v", err)
		sendError(w, http.StatusInternalServerError, "internal error")
	}
}

func getQueryItem(values url.Values, key string) string {
	value := values[key]
	if len(value) == 1 {
		return value[0]
	}
	return ""
}
