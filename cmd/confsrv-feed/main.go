// Command confsrv-feed pages through one contact's activity feed and prints
// each item as a JSON line; handy for checking visibility rules against a live database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"confsrv/internal/modkit"
	"confsrv/internal/modkit/module"
	"confsrv/internal/platform/config"
	"confsrv/internal/platform/logger"
	"confsrv/internal/platform/store"

	actionlogmod "confsrv/internal/services/actionlog/module"
	"confsrv/internal/services/activity/domain"
	activitymod "confsrv/internal/services/activity/module"
	contactsmod "confsrv/internal/services/contacts/module"
	settingsmod "confsrv/internal/services/settings/module"
)

const service = "confsrv-feed"

func main() {
	var (
		fContact  = flag.Int64("contact", 0, "contact id whose feed to build")
		fLimit    = flag.Int("limit", 0, "items per page; 0 uses CONFSRV_FEED_DEFAULT_LIMIT")
		fPosition = flag.String("position", "", "resume position, e.g. 1700000000.12.34")
		fPages    = flag.Int("pages", 1, "pages to fetch; 0 runs until the feed is exhausted")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	l := logger.Get()
	if *fContact <= 0 {
		l.Fatal().Msg("-contact is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	st, err := store.Open(ctx, store.ConfigFrom(root, service, "feed"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Log: *l, Cfg: root, Store: st}
	module.Publish(contactsmod.New(deps))
	module.Publish(actionlogmod.New(deps))
	module.Publish(settingsmod.New(deps))
	module.Publish(activitymod.New(deps))

	feed, ok := module.PortsAs[domain.ServicePort]("activity")
	if !ok {
		l.Fatal().Msg("activity module did not publish its port")
	}

	enc := json.NewEncoder(os.Stdout)
	in := domain.FeedInput{Position: *fPosition, Limit: *fLimit}
	for page := 1; *fPages == 0 || page <= *fPages; page++ {
		out, err := feed.BuildFeed(ctx, *fContact, in)
		if err != nil {
			l.Fatal().Err(err).Int("page", page).Msg("build feed failed")
		}
		for _, it := range out.Items {
			if err := enc.Encode(it); err != nil {
				l.Fatal().Err(err).Msg("write item")
			}
		}
		l.Info().
			Int("page", page).
			Int("items", len(out.Items)).
			Str("next", out.NextPosition).
			Bool("exhausted", out.Exhausted).
			Bool("truncated", out.Truncated).
			Msg("page done")
		if out.Exhausted {
			return
		}
		in.Position = out.NextPosition
	}
}
