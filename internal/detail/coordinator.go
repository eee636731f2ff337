// Package detail orchestrates the article-detail view: one analyze call,
// then reputation and translation fetched concurrently and applied as a
// single merged view. The untranslated article stays authoritative for
// question answering.
package detail

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmehta/aionex/internal/gateway"
	"github.com/dmehta/aionex/internal/logging"
)

// Gateway is the slice of the backend client the coordinator needs.
// *gateway.Client satisfies it; tests inject fakes.
type Gateway interface {
	Analyze(ctx context.Context, url string) (*gateway.ArticleDetail, error)
	Reputation(ctx context.Context, id string) (*gateway.ReputationScore, error)
	Translate(ctx context.Context, texts []string, lang string) []string
	Ask(ctx context.Context, question, contextText string) (string, error)
}

// View is the merged state behind the detail screen. Article holds the
// original backend response; Display overlays translated text for
// rendering and equals Article in the default language. Reputation is nil
// when the lookup failed or the link carries no article id.
type View struct {
	Article    gateway.ArticleDetail
	Display    gateway.ArticleDetail
	Reputation *gateway.ReputationScore
	Language   string
}

// Coordinator drives detail-view loads against a Gateway.
type Coordinator struct {
	gw          Gateway
	defaultLang string
}

// New builds a coordinator. defaultLang is the language article text
// arrives in; no translation is requested for it.
func New(gw Gateway, defaultLang string) *Coordinator {
	return &Coordinator{gw: gw, defaultLang: defaultLang}
}

// Load analyzes the article at link and assembles the merged view for
// lang. gateway.ErrNoAbstract passes through untouched so callers can
// mark the originating card non-interactive without issuing the follow-up
// fetches.
func (c *Coordinator) Load(ctx context.Context, link, lang string) (*View, error) {
	article, err := c.gw.Analyze(ctx, link)
	if err != nil {
		return nil, err
	}
	return c.assemble(ctx, *article, lang), nil
}

// Localize rebuilds the view for a new language from the stored original.
// Translations are always derived from Article, never from a previous
// Display, so they cannot chain.
func (c *Coordinator) Localize(ctx context.Context, v *View, lang string) *View {
	return c.assemble(ctx, v.Article, lang)
}

// Ask answers a question using the original untranslated abstract as
// context. Translated text must never reach the Q&A backend.
func (c *Coordinator) Ask(ctx context.Context, v *View, question string) (string, error) {
	return c.gw.Ask(ctx, question, v.Article.Abstract)
}

// assemble fetches reputation and, when lang differs from the default, a
// single batched translation of title, summary and abstract. The two run
// concurrently and the view is built only after both settle; a reputation
// failure degrades to nil without touching the translation path.
func (c *Coordinator) assemble(ctx context.Context, article gateway.ArticleDetail, lang string) *View {
	view := &View{Article: article, Display: article, Language: lang}

	var (
		score      *gateway.ReputationScore
		translated []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id := gateway.ArticleID(article.Link)
		if id == "" {
			return nil
		}
		s, err := c.gw.Reputation(gctx, id)
		if err != nil {
			logging.Debug("detail: reputation unavailable", "id", id, "err", err)
			return nil
		}
		score = s
		return nil
	})
	g.Go(func() error {
		if lang == c.defaultLang {
			return nil
		}
		translated = c.gw.Translate(gctx, []string{article.Title, article.Summary, article.Abstract}, lang)
		return nil
	})
	g.Wait()

	view.Reputation = score
	if len(translated) == 3 {
		view.Display.Title = translated[0]
		view.Display.Summary = translated[1]
		view.Display.Abstract = translated[2]
	}
	return view
}
