package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thecuz1/FacilityLocator-sub000/internal/bot"
	"github.com/thecuz1/FacilityLocator-sub000/internal/config"
	"github.com/thecuz1/FacilityLocator-sub000/internal/flowlock"
	"github.com/thecuz1/FacilityLocator-sub000/internal/guildlog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve commands",
		Run:   runBot,
	}

	RootCmd.AddCommand(cmd)
}

// coordination holds the creation lock and guild log backends.
type coordination struct {
	locker flowlock.Locker
	log    guildlog.Log
	close  func() error
}

// newCoordination uses Redis when an address is configured and in-process
// state otherwise.
func newCoordination(ctx context.Context, c config.Config) (*coordination, error) {
	if c.RedisAddr == "" {
		return &coordination{
			locker: flowlock.NewMemoryLocker(c.FlowTimeout() + time.Minute),
			log:    guildlog.NewMemoryLog(c.LogCapacity),
			close:  func() error { return nil },
		}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", c.RedisAddr, err)
	}
	locker, err := flowlock.NewRedisLocker(client, c.RedisPrefix+":flow", c.FlowTimeout()+time.Minute)
	if err != nil {
		client.Close()
		return nil, err
	}
	log, err := guildlog.NewRedisLog(client, c.RedisPrefix+":log", c.LogCapacity)
	if err != nil {
		client.Close()
		return nil, err
	}
	return &coordination{locker: locker, log: log, close: client.Close}, nil
}

func runBot(cmd *cobra.Command, args []string) {
	if err := cfg.RequireToken(); err != nil {
		exitErr("config", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	coord, err := newCoordination(ctx, cfg)
	if err != nil {
		exitErr("redis", err)
	}
	defer coord.close()

	b, err := bot.New(cfg, bot.Deps{
		Store:  s,
		Locker: coord.locker,
		Log:    coord.log,
		Logger: logger,
	})
	if err != nil {
		exitErr("create bot", err)
	}

	logger.Info("starting bot",
		zap.String("db", getDBPath()),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Duration("flow_timeout", cfg.FlowTimeout()))
	if err := b.Run(ctx); err != nil {
		exitErr("run", err)
	}
	logger.Info("bot stopped")
}
