package utils

import (
	"encoding/json"
	log "github.com/sirupsen/logrus"
)

func ToJson(value any) []byte {
	jsonResp, err := json.Marshal(value)
	if err != nil {
		log.Errorf("Error happened in JSON marshal. Err: %s", err)
	}
	return jsonResp
}

// ToPrettyJson marshals value with a two space indent.
func ToPrettyJson(value any) ([]byte, error) {
	return json.MarshalIndent(value, "", "  ")
}
