// Command claimdropd is a demo host for the claimdrop core: it wires
// a durable bbolt store, a system clock, a fixed owner and an
// in-memory bank stand-in into a claimdrop.Keeper and exposes the
// query surface of spec.md §6, plus a POST /claim route, over HTTP.
// It is not part of
// the core's tested contract (spec.md §1 Non-goals: "no RPC/wire
// encoding layer") — it exists only to give the ambient stack
// (logging, configuration, CLI, HTTP transport) somewhere to run.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/echa/config"
	"github.com/echa/log"
	"github.com/spf13/cobra"

	"github.com/mantra-chain/claimdrop-core/bigmath"
	"github.com/mantra-chain/claimdrop-core/claimdrop"
	"github.com/mantra-chain/claimdrop-core/host"
	"github.com/mantra-chain/claimdrop-core/store"
)

// systemClock is a host.Clock backed by the wall clock, used by the
// demo host in place of a FakeClock (which only ever appears in
// tests).
type systemClock struct{}

func (systemClock) Now() uint64 { return uint64(time.Now().Unix()) }

var _ host.Clock = systemClock{}

var (
	flagStorePath   string
	flagListenAddr  string
	flagOwner       string
	flagRewardDenom string
	flagLogLevel    string
)

func main() {
	root := &cobra.Command{
		Use:   "claimdropd",
		Short: "demo host for the claimdrop core",
	}
	root.PersistentFlags().StringVar(&flagStorePath, "store", "claimdrop.db", "bbolt database path")
	root.PersistentFlags().StringVar(&flagOwner, "owner", "", "campaign owner address")
	root.PersistentFlags().StringVar(&flagRewardDenom, "denom", "uom", "reward token denom")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "serve the query API and the claim endpoint over HTTP",
		RunE:  runServe,
	}
	serve.Flags().StringVar(&flagListenAddr, "listen", ":8080", "HTTP listen address")
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	setupLogging()

	if err := config.Read(); err != nil {
		log.Debugf("claimdropd: no config file found, using flags/defaults: %v", err)
	}
	if flagOwner == "" {
		flagOwner = config.GetString("owner")
	}
	if flagOwner == "" {
		return cmdErrorf("an --owner address is required")
	}

	db, err := store.OpenBolt(flagStorePath)
	if err != nil {
		return err
	}
	defer db.Close()

	bank := store.NewFakeBank(map[string]bigmath.Amount{flagRewardDenom: bigmath.Zero()})
	owner := store.NewFakeOwnership(flagOwner)
	k := claimdrop.NewKeeper(db, bank, systemClock{}, host.FilecoinAddressValidator{}, owner)

	router := newRouter(k)
	log.Infof("claimdropd: serving on %s (store=%s owner=%s)", flagListenAddr, flagStorePath, flagOwner)
	return http.ListenAndServe(flagListenAddr, router)
}

func setupLogging() {
	switch flagLogLevel {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}

type cmdError string

func (e cmdError) Error() string { return string(e) }

func cmdErrorf(format string, args ...interface{}) error {
	return cmdError(fmt.Sprintf(format, args...))
}
