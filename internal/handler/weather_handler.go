package handler

import (
	"net/http"

	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/resp"
)

// HandleWeather relays a current-conditions lookup to the configured upstream
// and returns its JSON body unchanged.
func HandleWeather(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("city")
		if city == "" {
			resp.Error(w, errs.New(errs.ErrInvalidParams))
			return
		}

		body, customErr := deps.Weather.Current(r.Context(), city)
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}
}
