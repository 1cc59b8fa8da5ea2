package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/bluzelle/blzgo/log"
	"github.com/bluzelle/blzgo/params"
	"github.com/bluzelle/blzgo/rpc/restapi"
	"github.com/bluzelle/blzgo/rpc/rpcapi"
)

// StartAPIServer start api server
func StartAPIServer() *http.Server {
	apiPort := params.GetAPIPort()
	apiServer := params.GetAPIServerConfig()
	allowedOrigins := apiServer.AllowedOrigins

	log.Info("JSON RPC service listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins, "maxRequestsLimit", apiServer.MaxRequestsLimit)
	svr := &http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		Handler:      NewHandler(apiServer),
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("ListenAndServe error", "err", err)
		}
	}()
	return svr
}

// NewHandler returns the router wrapped with cors and rate limiting
func NewHandler(apiServer *params.APIServerConfig) http.Handler {
	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST"}),
	}
	if len(apiServer.AllowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
			handlers.AllowedOrigins(apiServer.AllowedOrigins),
		)
	}
	var handler http.Handler = initRouter()
	if apiServer.MaxRequestsLimit > 0 {
		limiter := tollbooth.NewLimiter(float64(apiServer.MaxRequestsLimit), nil)
		limiter.SetMessage(`{"error":{"kind":"protocol","message":"too many requests"}}`)
		limiter.SetMessageContentType("application/json")
		handler = tollbooth.LimitHandler(limiter, handler)
	}
	return handlers.CORS(corsOptions...)(handler)
}

func initRouter() *mux.Router {
	r := mux.NewRouter()

	rpcserver := rpc.NewServer()
	rpcserver.RegisterCodec(rpcjson.NewCodec(), "application/json")
	_ = rpcserver.RegisterService(new(rpcapi.RPCAPI), "bluzelle")

	r.Handle("/rpc", rpcserver).Methods("POST")
	r.HandleFunc("/request", restapi.RequestHandler).Methods("POST")
	r.HandleFunc("/ws", wsHandler).Methods("GET")
	r.HandleFunc("/versioninfo", restapi.VersionInfoHandler).Methods("GET")
	r.HandleFunc("/serverinfo", restapi.ServerInfoHandler).Methods("GET")

	methodsExcluesGet := []string{"POST", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}
	methodsExcluesPost := []string{"GET", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

	r.HandleFunc("/rpc", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/request", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/ws", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/versioninfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/serverinfo", warnHandler).Methods(methodsExcluesGet...)

	return r
}

func warnHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
	fmt.Fprintf(w, "Forbid '%v' on '%v'\n", r.Method, r.RequestURI)
}
