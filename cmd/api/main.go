package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/authz"
	"inkwell.dev/internal/blog"
	"inkwell.dev/internal/config"
	"inkwell.dev/internal/httpapi"
	"inkwell.dev/internal/obs"
	"inkwell.dev/internal/store/memory"
	"inkwell.dev/internal/store/pg"
)

var version = "0.3.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("INKWELL_COMMIT"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	codec, err := auth.NewCodec(auth.CodecConfig{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	// Postgres when a DSN is configured, in-memory stores otherwise so a
	// dev server starts with zero infrastructure.
	var (
		users    auth.UserStore
		posts    blog.PostStore
		comments blog.CommentStore
		probe    httpapi.ReadyProbe
	)
	if cfg.PGDSN != "" {
		store, err := pg.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()
		users = pg.NewUserStore(store)
		posts = pg.NewPostStore(store)
		comments = pg.NewCommentStore(store)
		probe = httpapi.ReadyProbe{DB: store.DB()}
	} else {
		log.Println("no INKWELL_PG_DSN set, using in-memory stores")
		users = memory.NewUserStore()
		posts = memory.NewPostStore()
		comments = memory.NewCommentStore()
	}

	sessions, err := auth.NewSessionService(users, codec)
	if err != nil {
		log.Fatalf("session service: %v", err)
	}
	policy, err := authz.NewPolicy(map[authz.ResourceKind]authz.OwnerResolver{
		authz.KindPost:    authz.OwnerResolverFunc(posts.OwnerID),
		authz.KindComment: authz.OwnerResolverFunc(comments.OwnerID),
		// A user resource is owned by the matching account.
		authz.KindUser: authz.OwnerResolverFunc(func(_ context.Context, id int64) (int64, error) {
			return id, nil
		}),
	})
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	api := httpapi.New(httpapi.Options{
		Sessions: sessions,
		Codec:    codec,
		Users:    users,
		Content:  blog.NewService(posts, comments),
		Policy:   policy,
		Cookies: httpapi.CookiePolicy{
			Secure:     cfg.Production,
			SameSite:   cfg.CookieSameSite,
			AccessTTL:  cfg.AccessTTL,
			RefreshTTL: cfg.RefreshTTL,
		},
		ReadyProbe: probe,
		Version:    version,
		RateBurst:  cfg.RateBurst,
		RatePerSec: cfg.RatePerSec,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting inkwell-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
