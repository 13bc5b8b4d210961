package universe

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oshokin/universe-sidecar/internal/logger"
)

// Route paths served by the sidecar.
const (
	RootPath     = "/"
	HealthPath   = "/health"
	HelloPath    = "/hello/{name}"
	UniversePath = "/api/universe"
)

// MessageResponse is the body of the root and hello routes.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of the health route.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UniverseResponse is the body of the universe route.
type UniverseResponse struct {
	Stars    int    `json:"stars"`
	Planets  int    `json:"planets"`
	Galaxies int    `json:"galaxies"`
	Status   string `json:"status"`
}

// ErrorResponse is the body of 404 and 405 replies.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Server holds the HTTP handlers. Handlers log through the request context.
type Server struct{}

// NewServer creates the handler set.
func NewServer() *Server {
	return new(Server)
}

// NewRouter registers every route on a fresh router.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc(RootPath, s.Root).Methods(http.MethodGet)
	r.HandleFunc(HealthPath, s.Health).Methods(http.MethodGet)
	r.HandleFunc(HelloPath, s.Hello).Methods(http.MethodGet)
	r.HandleFunc(UniversePath, s.Universe).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)

	return r
}

// Root greets the caller.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, &MessageResponse{Message: "Hello World from My Universe Server!"})
}

// Health reports that the server is up.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, &HealthResponse{Status: "healthy", Message: "Server is running"})
}

// Hello greets the name taken verbatim from the path.
func (s *Server) Hello(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	writeJSON(r.Context(), w, http.StatusOK, &MessageResponse{Message: "Hello " + name + "!"})
}

// Universe returns the static universe snapshot.
func (s *Server) Universe(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, &UniverseResponse{
		Stars:    200,
		Planets:  8,
		Galaxies: 1,
		Status:   "exploring",
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusNotFound, &ErrorResponse{Detail: "Not Found"})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusMethodNotAllowed, &ErrorResponse{Detail: "Method Not Allowed"})
}

// writeJSON writes a compact JSON body without a trailing newline.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, _ = w.Write(data)
}
