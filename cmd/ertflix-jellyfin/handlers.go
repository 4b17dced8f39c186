package main

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/doingodswork/ertflix-jellyfin/pkg/catalog"
	"github.com/doingodswork/ertflix-jellyfin/pkg/jellyfin"
)

const embyAuthHeader = "X-Emby-Authorization"

func healthHandler(c *fiber.Ctx) error {
	return c.SendString("OK")
}

func createMoviesHandler(service *catalog.Service, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		movies, err := service.Movies(c.UserContext())
		if err != nil {
			return pipelineError(c, err, "movies", logger)
		}
		return c.JSON(movies)
	}
}

func createTVShowsHandler(service *catalog.Service, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shows, err := service.TVShows(c.UserContext())
		if err != nil {
			return pipelineError(c, err, "tvShows", logger)
		}
		return c.JSON(shows)
	}
}

func createSystemInfoHandler(identity jellyfin.Identity) fiber.Handler {
	// The info never changes
	systemInfo := jellyfin.NewSystemInfo(identity)
	return func(c *fiber.Ctx) error {
		return c.JSON(systemInfo)
	}
}

type authenticateByNameRequest struct {
	Username string `json:"Username"`
	Pw       string `json:"Pw"`
}

// createAuthHandler creates a handler that grants access to everyone who sends a client identification header.
func createAuthHandler(identity jellyfin.Identity, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		headerVal := c.Get(embyAuthHeader)
		if headerVal == "" {
			headerVal = c.Get(fiber.HeaderAuthorization)
		}
		if headerVal == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Missing authorization header")
		}
		header := jellyfin.ParseAuthHeader(headerVal)
		if header.IsEmpty() {
			logger.Info("Couldn't find any known key in authorization header", zap.String("header", headerVal))
			return c.Status(fiber.StatusBadRequest).SendString("Invalid authorization header")
		}

		// The credentials aren't checked, so a body that can't be decoded just leads to the default user
		var req authenticateByNameRequest
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &req); err != nil {
				logger.Debug("Couldn't decode authentication request body", zap.Error(err))
			}
		}

		res := jellyfin.NewAuthenticationResponse(identity, req.Username, header, time.Now())
		logger.Info("Authenticated user", zap.String("user", res.User.Name), zap.String("client", header.Client), zap.String("device", header.Device))
		return c.JSON(res)
	}
}

func createUserViewsHandler(service *catalog.Service, identity jellyfin.Identity, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		collections, err := service.Collections(c.UserContext())
		if err != nil {
			return pipelineError(c, err, "collections", logger)
		}
		return c.JSON(jellyfin.NewCollections(identity, collections, time.Now()))
	}
}

func createItemsHandler(service *catalog.Service, identity jellyfin.Identity, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentID := c.Query("ParentId")
		if parentID == "" {
			parentID = c.Query("parentId")
		}
		if parentID == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Missing ParentId")
		}
		sectionID, err := strconv.Atoi(parentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid ParentId")
		}

		entries, err := service.CollectionEntries(c.UserContext(), sectionID)
		if err != nil {
			return pipelineError(c, err, "collectionEntries", logger)
		}
		return c.JSON(jellyfin.NewItems(identity, parentID, entries, time.Now()))
	}
}

// pipelineError logs the error with its kind and responds with an empty 500.
// The kind only shows up in the logs, clients always get the same response.
func pipelineError(c *fiber.Ctx, err error, pipeline string, logger *zap.Logger) error {
	logger.Error("Couldn't get content from ERTFLIX", zap.Error(err), zap.String("pipeline", pipeline), zap.String("errorKind", catalog.ErrorKind(err)))
	// Send instead of SendStatus, which would write the status text as body
	return c.Status(fiber.StatusInternalServerError).Send(nil)
}
