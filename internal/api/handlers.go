package api

import (
	"github.com/gofiber/fiber/v2"

	"riftbook/internal/model"
	"riftbook/internal/service"
)

type placeWagerRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PlayerID    string `json:"playerId"`
	Prediction  string `json:"prediction"`
	Amount      int64  `json:"amount"`
	GameID      string `json:"gameId"`
}

func (s *Server) placeWager(c *fiber.Ctx) error {
	var req placeWagerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" || req.PlayerID == "" || req.GameID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userId, playerId and gameId are required")
	}

	id, err := s.ledger.PlaceWager(c.Context(), service.PlaceWagerInput{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		PlayerID:    req.PlayerID,
		Prediction:  model.Prediction(req.Prediction),
		Amount:      req.Amount,
		GameID:      req.GameID,
	})
	if err != nil {
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) getUser(c *fiber.Ctx) error {
	user, err := s.ledger.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(user)
}

func (s *Server) listUserWagers(c *fiber.Ctx) error {
	wagers, err := s.ledger.ListUserWagers(c.Context(), c.Params("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(wagers)
}

func (s *Server) listPlayers(c *fiber.Ctx) error {
	players, err := s.players.List(c.Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(players)
}

func (s *Server) quoteOdds(c *fiber.Ctx) error {
	gameID := c.Query("gameId")
	if gameID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "gameId query parameter is required")
	}

	player, err := s.players.Get(c.Context(), c.Params("playerID"))
	if err != nil {
		return httpError(err)
	}

	quote, err := s.quotes.QuoteFor(c.Context(), player, gameID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(quote)
}

type trackPlayerRequest struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

func (s *Server) trackPlayer(c *fiber.Ctx) error {
	var req trackPlayerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.GameName == "" || req.TagLine == "" {
		return fiber.NewError(fiber.StatusBadRequest, "gameName and tagLine are required")
	}

	player, err := s.players.Track(c.Context(), req.GameName, req.TagLine)
	if err != nil {
		return httpError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(player)
}

func (s *Server) untrackPlayer(c *fiber.Ctx) error {
	if err := s.players.Untrack(c.Context(), c.Params("id")); err != nil {
		return httpError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type grantRequest struct {
	UserID string `json:"userId"`
	Amount int64  `json:"amount"`
}

func (s *Server) grantCoins(c *fiber.Ctx) error {
	var req grantRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	user, err := s.ledger.GrantCoins(c.Context(), req.UserID, req.Amount)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(user)
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.ledger.ListUsers(c.Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(users)
}
