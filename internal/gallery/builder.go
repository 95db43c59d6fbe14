package gallery

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"viidemo/internal/logging"
	"viidemo/internal/manifest"
	"viidemo/internal/mediapolicy"
	"viidemo/internal/view"
)

const defaultConcurrency = 8

// PromptResolver resolves prompt references to text. Failures yield "".
type PromptResolver interface {
	Resolve(ctx context.Context, ref string) string
}

// Builder lays out a manifest into a Container.
type Builder struct {
	resolver       PromptResolver
	aspects        AspectSource
	lightbox       view.Lightbox
	logger         *slog.Logger
	trace          logging.Tracer
	concurrency    int
	originalToggle bool
}

// Option customizes a Builder.
type Option func(*Builder)

// WithAspectSource enables refusal placeholder sizing from sibling videos.
func WithAspectSource(src AspectSource) Option {
	return func(b *Builder) { b.aspects = src }
}

// WithLightbox sets the modal collaborator handed to every card.
func WithLightbox(lb view.Lightbox) Option {
	return func(b *Builder) { b.lightbox = lb }
}

// WithLogger sets the builder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTracer enables verbose build tracing.
func WithTracer(trace logging.Tracer) Option {
	return func(b *Builder) { b.trace = trace }
}

// WithConcurrency caps concurrent background tasks.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithOriginalToggle exposes the confirm-gated original viewing mode.
func WithOriginalToggle(enabled bool) Option {
	return func(b *Builder) { b.originalToggle = enabled }
}

// NewBuilder constructs a Builder around resolver.
func NewBuilder(resolver PromptResolver, opts ...Option) *Builder {
	b := &Builder{
		resolver:    resolver,
		lightbox:    view.NopLightbox{},
		logger:      logging.NewNop(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders m into c. Layout is synchronous; prompt fetches and aspect
// probes run in the background and update their card when they finish. Build
// never blocks on them; use Container.Wait.
func (b *Builder) Build(ctx context.Context, c *Container, m *manifest.Manifest) {
	c.Reset()
	if m == nil || len(m.Groups) == 0 {
		c.showMessage(MessageEmpty)
		b.trace.Log("manifest has no groups")
		return
	}

	var tasks []func() error
	cardCount := 0
	for gi, group := range m.Groups {
		categoryID := group.CategoryID()
		gv := GroupView{
			ID:         group.ID,
			CategoryID: categoryID,
			Title:      group.DisplayTitle(),
			Disclaimer: m.DisclaimerFor(group),
			Cards:      make([]*Card, 0, len(group.Samples)),
		}
		for si, sample := range group.Samples {
			card := newCard(CardID(gi, group.ID, si), categoryID, sample, b.lightbox, b.originalToggle)
			gv.Cards = append(gv.Cards, card)
			cardCount++
			if card.Empty() {
				continue
			}
			if sample.BaselinePromptPath != "" && b.resolver != nil {
				tasks = append(tasks, b.promptTask(ctx, card, sample.BaselinePromptPath))
			}
			if b.aspects != nil {
				for _, url := range aspectTargets(categoryID, sample.Variants) {
					tasks = append(tasks, b.aspectTask(ctx, card, url))
				}
			}
		}
		c.addGroup(gv)
	}

	b.logger.Debug("gallery laid out",
		logging.Int("groups", len(m.Groups)),
		logging.Int("cards", cardCount),
		logging.Int("tasks", len(tasks)),
	)

	done := make(chan struct{})
	c.setPending(done)
	go func() {
		defer close(done)
		var g errgroup.Group
		g.SetLimit(b.concurrency)
		for _, task := range tasks {
			g.Go(task)
		}
		_ = g.Wait()
	}()
}

func (b *Builder) promptTask(ctx context.Context, card *Card, ref string) func() error {
	return func() error {
		text := b.resolver.Resolve(ctx, ref)
		if ctx.Err() != nil {
			return nil
		}
		card.applyPrompt(text)
		b.trace.Log("prompt applied",
			logging.CardID(card.ID),
			logging.Int("variant", card.Selected()),
			logging.Bool("empty", text == ""),
		)
		return nil
	}
}

func (b *Builder) aspectTask(ctx context.Context, card *Card, url string) func() error {
	return func() error {
		ratio, err := b.aspects.AspectRatio(ctx, url)
		if err != nil {
			b.trace.Log("aspect probe failed",
				logging.CardID(card.ID),
				logging.String("url", url),
				logging.Error(err),
			)
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		card.applyAspect(url, ratio)
		b.trace.Log("aspect applied",
			logging.CardID(card.ID),
			logging.String("url", url),
			logging.Aspect(ratio),
		)
		return nil
	}
}

// aspectTargets lists the sibling videos whose ratio a refusal placeholder
// would borrow, once per URL in variant order.
func aspectTargets(categoryID string, variants []manifest.Variant) []string {
	seen := make(map[string]struct{})
	var urls []string
	add := func(url string) {
		if url == "" {
			return
		}
		if _, ok := seen[url]; ok {
			return
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	for _, v := range variants {
		baseline := mediapolicy.SelectBaseline(v)
		candidate := mediapolicy.SelectPreview(categoryID, v)
		switch {
		case baseline.Refusal && !candidate.Refusal:
			add(candidate.URL)
		case candidate.Refusal && !baseline.Refusal:
			add(baseline.URL)
		}
	}
	return urls
}
