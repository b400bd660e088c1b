package config

import (
	"BrailleVoice/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	errHandler := handlerUtil.New(logger)

	app := fiber.New(
		fiber.Config{
			AppName:           "Braille Voice",
			BodyLimit:         1 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: false,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				if fe, ok := err.(*fiber.Error); ok {
					return c.Status(fe.Code).JSON(handlerUtil.ErrorResponse{Error: fe.Message})
				}
				return errHandler.Handle(c, "unknown", err, c.Path(), "fiber")
			},
		})

	return app
}
