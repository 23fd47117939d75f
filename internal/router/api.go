package router

import (
	"net/http"

	"github.com/deppfellow/castdb/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerAPIRoutes registers the CRUD endpoints. Collections are plural
// ("/books"), single records singular ("/book/:id").
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/user", handler.Handle(h.Users.Greet, http.StatusOK))
	r.GET("/users", handler.Handle(h.Users.List, http.StatusOK))
	r.GET("/user/:id", handler.Handle(h.Users.Get, http.StatusOK))
	r.POST("/user", handler.Handle(h.Users.Create, http.StatusCreated))
	r.PUT("/user/:id", handler.Handle(h.Users.Update, http.StatusOK))
	r.DELETE("/user/:id", handler.Handle(h.Users.Delete, http.StatusOK))

	r.GET("/houses", handler.Handle(h.Houses.List, http.StatusOK))
	r.GET("/house/:id", handler.Handle(h.Houses.Get, http.StatusOK))
	r.GET("/house/:id/characters", handler.Handle(h.Houses.Characters, http.StatusOK))
	r.POST("/house", handler.Handle(h.Houses.Create, http.StatusCreated))
	r.PUT("/house/:id", handler.Handle(h.Houses.Update, http.StatusOK))
	r.DELETE("/house/:id", handler.Handle(h.Houses.Delete, http.StatusOK))

	r.GET("/characters", handler.Handle(h.Characters.List, http.StatusOK))
	r.GET("/character/:id", handler.Handle(h.Characters.Get, http.StatusOK))
	r.POST("/character", handler.Handle(h.Characters.Create, http.StatusCreated))
	r.PUT("/character/:id", handler.Handle(h.Characters.Update, http.StatusOK))
	r.DELETE("/character/:id", handler.Handle(h.Characters.Delete, http.StatusOK))

	r.GET("/books", handler.Handle(h.Books.List, http.StatusOK))
	r.GET("/book/:id", handler.Handle(h.Books.Get, http.StatusOK))
	r.POST("/book", handler.Handle(h.Books.Create, http.StatusCreated))
	r.PUT("/book/:id", handler.Handle(h.Books.Update, http.StatusOK))
	r.DELETE("/book/:id", handler.Handle(h.Books.Delete, http.StatusOK))

	cast := r.Group("/cast")
	cast.GET("/book/:id", handler.Handle(h.Casts.ListByBook, http.StatusOK))
	cast.GET("/character/:id", handler.Handle(h.Casts.BooksByCharacter, http.StatusOK))
	cast.POST("/:book_id/:character_id", handler.Handle(h.Casts.Create, http.StatusCreated))
	cast.DELETE("/:book_id/:character_id", handler.Handle(h.Casts.Delete, http.StatusOK))
}
