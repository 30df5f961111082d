// Package analysis writes short narrative profiles of mesh zones using an
// LLM. It is advisory only: failures are returned to the caller and never
// touch stored zones.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/zonemesh/internal/model"
)

const (
	DefaultModel             = "claude-haiku-4-5-20251001"
	DefaultMaxTokens         = int64(512)
	DefaultRequestsPerMinute = 30
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = eris.New("analysis: empty response")

const systemPrompt = `Actúa como un analista de datos sociodemográficos experto en Medellín, Colombia. ` +
	`Tienes acceso a los reportes del DANE y tendencias de Open Source Intelligence (OSINT).`

// Config holds Analyst settings. Zero values take the defaults.
type Config struct {
	Model             string
	MaxTokens         int64
	RequestsPerMinute int
}

// Analyst produces zone commentary.
type Analyst struct {
	client    Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// New creates an Analyst that calls client at most cfg.RequestsPerMinute times
// per minute.
func New(client Client, cfg Config) *Analyst {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	return &Analyst{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}
}

// Describe returns a short profile of z. It blocks until the rate limiter
// admits the request or ctx is done.
func (a *Analyst) Describe(ctx context.Context, z model.Zone) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "analysis: rate limit wait")
	}

	resp, err := a.client.CreateMessage(ctx, MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    systemPrompt,
		Prompt:    Prompt(z),
	})
	if err != nil {
		return "", eris.Wrapf(err, "analysis: describe zone %s", z.ID)
	}
	resp.Usage.LogCost(a.model, z.ID)

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		zap.L().Warn("analysis: empty response",
			zap.String("zone_id", z.ID),
			zap.String("stop_reason", resp.StopReason),
		)
		return "", eris.Wrapf(ErrEmptyResponse, "analysis: zone %s", z.ID)
	}
	return text, nil
}

// Prompt renders the user message for z.
func Prompt(z model.Zone) string {
	location := z.Label
	if location == "" {
		location = fmt.Sprintf("%.4f, %.4f", z.Centroid.Lat, z.Centroid.Lng)
	}

	var b strings.Builder
	b.WriteString("Analiza la siguiente zona:\n")
	fmt.Fprintf(&b, "Ubicación: %s\n", location)
	b.WriteString("Datos detectados:\n")
	fmt.Fprintf(&b, "- Estrato: %.1f\n", z.MeanStrata)
	fmt.Fprintf(&b, "- Densidad Relativa: %.0f%%\n", z.NormalizedDensity*100)
	fmt.Fprintf(&b, "- Población: %d\n", z.Population)
	fmt.Fprintf(&b, "- Edad Promedio: %.0f años\n", z.MeanAge)
	fmt.Fprintf(&b, "- Educación Predominante: %s\n", z.Education)
	fmt.Fprintf(&b, "- Ocupación Predominante: %s\n", z.Occupation)
	fmt.Fprintf(&b, "- Interés Digital Principal: %s\n", z.Interest)
	fmt.Fprintf(&b, "- Conectividad: %s\n", z.Connectivity)
	fmt.Fprintf(&b, "- Espectro Político: %s\n", z.Spectrum)
	b.WriteString("\nGenera un perfil conciso (máx 80 palabras) conectando estos datos con la realidad conocida ")
	b.WriteString("de esta comuna (ej. historia, transformación urbana, seguridad, economía local).")
	return b.String()
}
