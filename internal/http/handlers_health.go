package httpx

import "net/http"

type healthStatus struct {
	Status string `json:"status"`
}

// healthHandler answers liveness and readiness probes. HEAD requests get
// the headers only.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	WriteJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}
