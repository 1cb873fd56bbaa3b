package main

import (
	"context"
	"fmt"
	"os"

	"github.com/on-the-ground/geocoin/config"
	"github.com/on-the-ground/geocoin/gateway"
	"github.com/on-the-ground/geocoin/gateway/sqlite"
	"github.com/on-the-ground/geocoin/session"
	"github.com/on-the-ground/geocoin/shared/log"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "geocoin: %v\n", err)
		os.Exit(2)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = log.ParseLevel(cfg.LogLevel)
	logger, err := zcfg.Build()
	if err != nil {
		panic(fmt.Sprintf("fail to build logger: %v", err))
	}
	ctx, endOfLog := log.WithZapEffectHandler(context.Background(), logger)
	defer endOfLog()

	gw, closeGateway, err := openGateway(cfg)
	if err != nil {
		log.Effect(ctx, log.LogError, "failed to open storage", map[string]interface{}{
			"storage": cfg.Storage,
			"err":     err,
		})
		return
	}
	defer closeGateway()

	sess, err := session.New(cfg, gw)
	if err != nil {
		log.Effect(ctx, log.LogError, "failed to start session", map[string]interface{}{"err": err})
		return
	}
	defer sess.Close()

	if err := sess.Load(ctx); err != nil {
		log.Effect(ctx, log.LogError, "failed to load session", map[string]interface{}{"err": err})
		return
	}

	newConsole(sess, cfg.TileDegrees, os.Stdout).run(ctx, os.Stdin)

	// failures are already logged by the session
	_ = sess.Save(ctx)
}

func openGateway(cfg config.Config) (gateway.Gateway, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		gw, err := gateway.NewMemDB()
		if err != nil {
			return nil, nil, err
		}
		return gw, func() {}, nil
	}
}
