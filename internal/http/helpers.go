package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"pointage/internal/core"
	"pointage/internal/store"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// parseRange extracts start and end dates from query parameters. Missing
// or invalid values default to the bounds of the current month.
func parseRange(r *http.Request) (start, end core.Date) {
	now := time.Now()
	start = core.NewDate(now.Year(), int(now.Month()), 1)
	end = core.NewDate(now.Year(), int(now.Month())+1, 0) // last day of month

	if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			start = d
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("end")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			end = d
		}
	}

	return start, end
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads and decodes a bounded JSON request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// writeStoreError maps store and validation failures to HTTP statuses:
// missing records are 404, invalid payloads are 422, the rest are 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "record not found")
	case core.IsValidationError(err):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Store operation failed",
			"error", err, "path", r.URL.Path, "method", r.Method)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// The dashboard greets the team with a random encouragement.
var motivationalMessages = []string{
	"Merci pour ton énergie, on avance bien grâce à toi !",
	"Tu as un vrai talent pour simplifier les choses, c'est top.",
	"J'adore la manière dont tu abordes les problèmes, ça inspire.",
	"C'est toujours agréable de bosser avec quelqu'un d'aussi motivé.",
	"Ton humour et ta bonne humeur font vraiment la différence.",
	"T'as géré ça comme un(e) pro, bravo !",
	"Tes idées sont vraiment chouettes, elles boostent le projet.",
	"Merci d'être toujours là pour donner un coup de main.",
	"On forme une super équipe, et c'est en grande partie grâce à toi.",
	"Tu trouves toujours la petite touche qui améliore tout.",
	"C'est impressionnant de voir comment tu fais avancer les choses.",
	"Travailler avec toi, c'est vraiment fluide, merci pour ça.",
	"Ton point de vue est toujours super pertinent, ça aide beaucoup.",
	"T'as une manière de rendre les choses simples, j'adore.",
	"On peut toujours compter sur toi, et ça fait vraiment plaisir.",
}

func randomMessage() string {
	return motivationalMessages[rand.Intn(len(motivationalMessages))]
}
