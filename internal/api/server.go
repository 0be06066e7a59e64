// Package api exposes the HTTP surface: wager placement, odds quotes, and
// the admin roster/grant operations. Authentication is an upstream gateway
// concern; handlers trust the ids they are given.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"riftbook/internal/odds"
	"riftbook/internal/service"
)

// Server is the HTTP API.
type Server struct {
	app     *fiber.App
	ledger  *service.LedgerService
	players *service.PlayerService
	quotes  *odds.Service
}

// NewServer builds the fiber app and registers routes.
func NewServer(ledger *service.LedgerService, players *service.PlayerService, quotes *odds.Service) *Server {
	s := &Server{
		app:     fiber.New(fiber.Config{ErrorHandler: errorHandler}),
		ledger:  ledger,
		players: players,
		quotes:  quotes,
	}

	s.app.Use(recover.New())

	s.app.Post("/wagers", s.placeWager)
	s.app.Get("/users/:id", s.getUser)
	s.app.Get("/users/:id/wagers", s.listUserWagers)
	s.app.Get("/players", s.listPlayers)
	s.app.Get("/odds/:playerID", s.quoteOdds)

	admin := s.app.Group("/admin")
	admin.Post("/players", s.trackPlayer)
	admin.Delete("/players/:id", s.untrackPlayer)
	admin.Post("/grants", s.grantCoins)
	admin.Get("/users", s.listUsers)

	return s
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// httpError maps service errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidStake),
		errors.Is(err, service.ErrInvalidPrediction),
		errors.Is(err, service.ErrInvalidGrant):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		return fiber.NewError(fiber.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrDuplicateWager),
		errors.Is(err, service.ErrAlreadyTracked):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrRiotIDNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
