package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRouter assembles the full route map. Admin routes nest inside the
// authenticated subrouter so both middlewares apply in order.
func SetupRouter(taskHandler *TaskHandler, userHandler *UserHandler, authHandler *AuthHandler, authMiddleware *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(taskHandler.MiddlewareContentTypeSet)

	router.HandleFunc("/api/auth/login", authHandler.LogIn).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)

	privateRouter := router.NewRoute().Subrouter()
	privateRouter.Use(authMiddleware.Handle)
	privateRouter.HandleFunc("/api/auth/verify", authHandler.Verify).Methods(http.MethodGet)
	privateRouter.HandleFunc("/api/tasks", taskHandler.GetAll).Methods(http.MethodGet)
	privateRouter.HandleFunc("/api/tasks/user/{userId}", taskHandler.GetByUser).Methods(http.MethodGet)
	privateRouter.HandleFunc("/api/tasks/{id}/status", taskHandler.UpdateStatus).Methods(http.MethodPatch)
	privateRouter.HandleFunc("/api/tasks/{id}", taskHandler.Update).Methods(http.MethodPatch)
	privateRouter.HandleFunc("/api/users", userHandler.GetAll).Methods(http.MethodGet)

	adminRouter := privateRouter.NewRoute().Subrouter()
	adminRouter.Use(AdminOnly)
	adminRouter.HandleFunc("/api/tasks", taskHandler.Create).Methods(http.MethodPost)
	adminRouter.HandleFunc("/api/tasks/{id}", taskHandler.Delete).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/api/users/create", userHandler.Create).Methods(http.MethodPost)

	return router
}
