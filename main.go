package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	caches "voyager.com/truco/caching"
	"voyager.com/truco/game"
	"voyager.com/truco/logging"
	"voyager.com/truco/nats"
	"voyager.com/truco/player"
	"voyager.com/truco/relay"
	"voyager.com/truco/rest"
	"voyager.com/truco/truco"
	"voyager.com/truco/util"
)

var delayConfigFile *string
var port *int
var mainLogger = logging.GetZeroLogger("main::main", nil)

func init() {
	delayConfigFile = flag.String("delays", "delays.yaml", "YAML file containing pause times")
	port = flag.Int("port", 0, "REST port, overrides PORT")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()

	delays := game.Delays{}
	if !util.Env.ShouldDisableDelays() {
		var err error
		delays, err = game.ParseDelayConfig(*delayConfigFile)
		if err != nil {
			mainLogger.Warn().Msgf("%v. Using default delays", err)
			delays = game.DefaultDelays()
		}
	}

	commentRelay, err := newRelay()
	if err != nil {
		return errors.Wrap(err, "Error while creating comment relay")
	}

	results, err := caches.NewResultCache(util.Env.GetResultCacheSize())
	if err != nil {
		return errors.Wrap(err, "Error while creating result cache")
	}
	opts := []game.MediatorOption{game.WithResultCache(results)}

	if natsURL := util.Env.GetNatsURL(); natsURL != "" {
		mainLogger.Info().Msgf("NATS URL: %s", natsURL)
		publisher, err := nats.NewPublisher(natsURL)
		if err != nil {
			return errors.Wrap(err, "Error connecting to NATS server")
		}
		defer publisher.Close()
		commentRelay = relay.NewFanout(commentRelay, publisher)
		opts = append(opts, game.WithPublisher(publisher))
	}

	factory := player.NewFactory(player.Config{
		OpenAIBaseURL: util.Env.GetOpenAIBaseURL(),
		OpenAIModel:   util.Env.GetOpenAIModel(),
		OpenAIAPIKey:  util.Env.GetOpenAIAPIKey(),
		GeminiBaseURL: util.Env.GetGeminiBaseURL(),
		GeminiModel:   util.Env.GetGeminiModel(),
		GeminiAPIKey:  util.Env.GetGeminiAPIKey(),
		Timeout:       util.Env.GetInferenceTimeout(),
		RPS:           util.Env.GetInferenceRPS(),
	})
	mediator := game.NewMediator(truco.NewService(), commentRelay, delays, opts...)
	go shutdownOnSignal(mediator)

	restPort := util.Env.GetPort()
	if *port != 0 {
		restPort = *port
	}
	server := rest.NewServer(mediator, factory, util.Env.GetWatchInterval())
	return rest.RunRestServer(server, strconv.Itoa(restPort))
}

func newRelay() (relay.Relay, error) {
	switch util.Env.GetCommentRelay() {
	case "redis":
		addr := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		mainLogger.Info().Msgf("Comments are relayed through redis at %s", addr)
		r := relay.NewRedisRelay(addr, util.Env.GetRedisPW(), util.Env.GetRedisDB())
		if err := r.Ping(context.Background()); err != nil {
			return nil, errors.Wrapf(err, "Unable to reach redis at %s", addr)
		}
		return r, nil
	case "memory":
		return relay.NewMemoryRelay(), nil
	default:
		return nil, fmt.Errorf("Unsupported comment relay %s", util.Env.GetCommentRelay())
	}
}

func shutdownOnSignal(mediator *game.Mediator) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	mainLogger.Info().Msgf("Received %s. Ending %d matches", sig, mediator.Count())
	mediator.Shutdown()
	os.Exit(0)
}
