package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lost-woods/kingdom/src/catalog"
	"github.com/lost-woods/kingdom/src/errs"
	"github.com/lost-woods/kingdom/src/kingdom"
)

const tracerName = "github.com/lost-woods/kingdom/src/api"

// Kingdom draws one kingdom.
//
//	sets    comma separated set names; absent means every set
//	option  repeatable edition toggle, "key" or "key=bool"
//	seed    optional uint64 for a reproducible draw
func (h *Handlers) Kingdom(c *gin.Context) {
	var sets []string
	if raw, ok := c.GetQuery("sets"); ok {
		sets = splitSets(raw)
	}

	opts, err := kingdom.ParseOptions(c.QueryArray("option"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest, "Invalid option: "+err.Error())
		return
	}

	engine := h.engine
	seedStr, seeded := c.GetQuery("seed")
	if seeded {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			responder{c}.err(http.StatusBadRequest, "Seed must be an unsigned 64-bit integer.")
			return
		}
		engine = engine.WithSeed(seed)
	}

	h.handle(c, func(ctx context.Context) (string, gin.H, error) {
		_, span := otel.Tracer(tracerName).Start(ctx, "kingdom.randomize")
		defer span.End()
		span.SetAttributes(
			attribute.StringSlice("kingdom.sets", sets),
			attribute.Bool("kingdom.seeded", seeded),
		)

		k, err := engine.Randomize(sets, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(errs.CodeOf(err)))
			return "", nil, err
		}

		lines := k.Lines()
		span.SetAttributes(attribute.Int("kingdom.lines", len(lines)))

		payload := gin.H{
			"sets":       k.Sets,
			"cards":      cardStrings(k.Cards),
			"landscape":  cardStrings(k.Landscape),
			"components": k.Components,
			"kingdom":    lines,
		}
		if k.Bane != nil {
			payload["bane"] = k.Bane.String()
		}
		return strings.Join(lines, "\n"), payload, nil
	})
}

// Sets lists the known sets and the edition options each honors.
func (h *Handlers) Sets(c *gin.Context) {
	var text strings.Builder
	var out []gin.H
	for _, s := range h.engine.Catalog().Sets() {
		var options []string
		if s.HasEditions() {
			options = []string{s.FirstEditionKey(), s.SecondEditionKey()}
		}
		out = append(out, gin.H{"name": s.Name(), "cards": s.Cards().Len(), "options": options})

		if text.Len() > 0 {
			text.WriteByte('\n')
		}
		text.WriteString(s.Name())
		if len(options) > 0 {
			text.WriteString(" (" + strings.Join(options, ", ") + ")")
		}
	}
	responder{c}.ok(text.String(), gin.H{"sets": out}, "")
}

func (h *Handlers) Health(c *gin.Context) {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "UNHEALTHY: missing health monitor")
		return
	}

	ok, msg, t := h.health.Snapshot()
	if ok {
		responder{c}.ok(
			fmt.Sprintf("OK (last checked %s)", t.Format(time.RFC3339)),
			gin.H{"ok": true, "last_checked": t.Format(time.RFC3339)},
			"health-check",
		)
		return
	}

	responder{c}.err(http.StatusServiceUnavailable,
		fmt.Sprintf("UNHEALTHY: %s (last checked %s)", msg, t.Format(time.RFC3339)))
}

func splitSets(raw string) []string {
	out := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func cardStrings(cards []catalog.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
