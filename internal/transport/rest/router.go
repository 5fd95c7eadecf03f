package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"credit-engine/internal/cache"
	"credit-engine/internal/service"
	"credit-engine/internal/transport/rest/handler"
	"credit-engine/internal/transport/rest/middleware"
	"credit-engine/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService          *service.AuthService
	QuestionnaireService *service.QuestionnaireService
	ScreeningService     *service.ScreeningService
	CalculationService   *service.CalculationService
	ProgressCache        cache.ProgressCache
	WSHub                *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	questionnaireHandler := handler.NewQuestionnaireHandler(c.QuestionnaireService)
	screeningHandler := handler.NewScreeningHandler(c.ScreeningService, c.ProgressCache)
	calcHandler := handler.NewCalculationHandler(c.CalculationService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/dashboard", wsHandler.DashboardWS).Methods("GET")
	v1.HandleFunc("/ws/screenings/{screeningId}", wsHandler.ScreeningWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require employer admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/questionnaires", questionnaireHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires", questionnaireHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}", questionnaireHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}", questionnaireHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}/validate", questionnaireHandler.Validate).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questionnaires/{questionnaireId}/publish", questionnaireHandler.Publish).Methods("POST", "OPTIONS")

	adminRoutes.HandleFunc("/screenings", screeningHandler.Start).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/screenings", screeningHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/progress", screeningHandler.ProgressBoard).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}", screeningHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/response", screeningHandler.GetResponse).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/classify", screeningHandler.Classify).Methods("POST", "OPTIONS")

	adminRoutes.HandleFunc("/screenings/{screeningId}/credits", calcHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/credits/project", calcHandler.Project).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/credits/payroll", calcHandler.ApplyPayroll).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/credits/claim", calcHandler.Claim).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/credits/deny", calcHandler.Deny).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/credits/programs", calcHandler.CalculateProgram).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/screenings/{screeningId}/credits/programs", calcHandler.GetPrograms).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/credits/payroll-batch", calcHandler.ApplyPayrollBatch).Methods("POST", "OPTIONS")

	// Applicant routes (require screening-scoped auth)
	applicantRoutes := v1.NewRoute().Subrouter()
	applicantRoutes.Use(authMW.RequireScreening)

	applicantRoutes.HandleFunc("/screenings/{screeningId}/answers", screeningHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/screenings/{screeningId}/my-response", screeningHandler.GetOwnResponse).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
