package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclelog/internal/models"
	"github.com/valyala/fasthttp"
)

const snapshotEventName = "snapshot"

// StreamCycles pushes the user's full cycle snapshot as Server-Sent Events:
// once on connect and again after every write. The stream ends after
// streamMaxDuration; EventSource clients reconnect on their own.
func (handler *Handler) StreamCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	updates, cancel := handler.hub.Subscribe(user.ID)
	initial, err := handler.cycleService.ListCycles(user.ID)
	if err != nil {
		cancel()
		return handler.cycleError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	keepAliveEvery := handler.streamKeepAlive
	maxDuration := handler.streamMaxDuration
	log := handler.log.WithField("user_id", user.ID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		if err := writeSnapshotEvent(w, initial); err != nil {
			return
		}

		keepAlive := time.NewTicker(keepAliveEvery)
		defer keepAlive.Stop()
		deadline := time.NewTimer(maxDuration)
		defer deadline.Stop()

		for {
			select {
			case snapshot, open := <-updates:
				if !open {
					return
				}
				if err := writeSnapshotEvent(w, snapshot); err != nil {
					log.WithError(err).Debug("snapshot stream closed")
					return
				}
			case <-keepAlive.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-deadline.C:
				return
			}
		}
	}))
	return nil
}

func writeSnapshotEvent(w *bufio.Writer, snapshot []models.CycleRecord) error {
	if snapshot == nil {
		snapshot = []models.CycleRecord{}
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", snapshotEventName, payload); err != nil {
		return err
	}
	return w.Flush()
}
