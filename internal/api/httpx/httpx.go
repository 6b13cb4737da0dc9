package httpx

import (
	"encoding/json"
	"net/http"
)

type okEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, okEnvelope{Status: "success", Data: data})
}
