package web

import (
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Status is the read-only view the HTTP endpoint serves. The game loop
// publishes a fresh copy each tick; handlers only ever read the latest
// published pointer, so no lock crosses the loop/HTTP boundary.
type Status struct {
	Tick          uint64 `json:"tick"`
	Zone          int    `json:"zone"`
	Act           int    `json:"act"`
	Wave          int    `json:"wave"`
	WaveKills     int    `json:"wave_kills"`
	WaveTotal     int    `json:"wave_total"`
	EnemiesActive int    `json:"enemies_active"`
	Projectiles   int    `json:"projectiles_active"`
	TankHP        int    `json:"tank_hp"`
	TankMaxHP     int    `json:"tank_max_hp"`
	Gold          int    `json:"gold"`
	XP            int    `json:"xp"`
	WavesDone     int    `json:"waves_done"`
	TotalKills    int    `json:"total_kills"`
}

// Server exposes the simulation status over HTTP.
type Server struct {
	app  *fiber.App
	log  *zap.Logger
	snap atomic.Pointer[Status]
}

func NewServer(log *zap.Logger) *Server {
	s := &Server{log: log}
	s.snap.Store(&Status{})

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Get("/status", s.handleStatus)
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return s
}

// Publish swaps in a new snapshot. Called from the game loop goroutine.
func (s *Server) Publish(st Status) {
	s.snap.Store(&st)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.snap.Load())
}

// Start listens on addr. Blocks; run it on its own goroutine.
func (s *Server) Start(addr string) error {
	s.log.Info("status endpoint listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
