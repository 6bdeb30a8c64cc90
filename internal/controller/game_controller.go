package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/sanchess-backend/internal/middleware"
	"github.com/benbeisheim/sanchess-backend/internal/model"
	"github.com/benbeisheim/sanchess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on r.
func (gc *GameController) Register(r fiber.Router) {
	r.Post("/create", gc.CreateGame)
	r.Post("/join/:gameId", gc.JoinGame)
	r.Get("/:gameId", gc.GetGameState)
	r.Delete("/:gameId", gc.DeleteGame)
	r.Post("/:gameId/move", gc.MakeMove)
	r.Post("/:gameId/takeback", gc.TakeBack)
	r.Post("/:gameId/restart", gc.Restart)
	r.Get("/:gameId/history", gc.GetHistory)
	r.Put("/:gameId/history", gc.ImportHistory)
	r.Get("/:gameId/legal", gc.LegalMoves)
}

type moveRequest struct {
	Move      string `json:"move"`
	Promotion string `json:"promotion"`
}

type takeBackRequest struct {
	Count int `json:"count"`
}

type historyRequest struct {
	Moves []string `json:"moves"`
}

// parseBody reads an optional JSON body into v.
func parseBody(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(v)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var opts service.CreateOptions
	if err := parseBody(c, &opts); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	gameID, err := gc.gameService.CreateGame(opts)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MakeMove plays one move. Over REST there is nobody to ask about a
// promotion, so the piece comes from the notation or the promotion field.
func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}
	if req.Move == "" {
		return badRequest(c, "move is required")
	}

	var chooser model.PromotionChooser
	if req.Promotion != "" {
		if _, ok := model.PromotionChoice(req.Promotion); !ok {
			return badRequest(c, "promotion must be one of R, N, B, Q")
		}
		chooser = model.PromotionFunc(func(model.PlayerColor, model.Square) (string, error) {
			return req.Promotion, nil
		})
	}

	state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req.Move, chooser)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) TakeBack(c *fiber.Ctx) error {
	req := takeBackRequest{Count: 1}
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	state, err := gc.gameService.TakeBack(c.Params("gameId"), middleware.PlayerID(c), req.Count)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Restart(c *fiber.Ctx) error {
	state, err := gc.gameService.Restart(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) GetHistory(c *fiber.Ctx) error {
	moves, err := gc.gameService.History(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(historyRequest{Moves: moves})
}

// ImportHistory replaces the game with the given move list. When a move
// fails the response still carries the state reached before it.
func (gc *GameController) ImportHistory(c *fiber.Ctx) error {
	var req historyRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	gameID := c.Params("gameId")
	state, err := gc.gameService.ImportHistory(gameID, middleware.PlayerID(c), req.Moves)
	if err != nil {
		body := errorBody(err)
		if state.ID != "" {
			body["state"] = state
		}
		log.Infow("history import rejected", "game", gameID, "error", err)
		return c.Status(statusFor(err)).JSON(body)
	}
	return c.JSON(state)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	if moves == nil {
		moves = []model.SimpleMove{}
	}
	return c.JSON(fiber.Map{"moves": moves})
}
