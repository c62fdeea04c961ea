package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"artnetmapper/internal/artnet"
	"artnetmapper/internal/clientmqtt"
	"artnetmapper/internal/config"
	"artnetmapper/internal/engine"
	"artnetmapper/internal/logger"
	"artnetmapper/internal/model"
	"artnetmapper/internal/output"
	"artnetmapper/internal/render"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "artnetmapper",
		Short:        "Map strands of light fixtures onto Art-Net universes",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/conf.toml", "Path to configuration file")
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Build the model and outputs and transmit test pattern frames",
			RunE:  runService,
		},
		&cobra.Command{
			Use:   "model",
			Short: "Print the runs and strands of the model",
			RunE:  printModel,
		},
		&cobra.Command{
			Use:   "plan",
			Short: "Print the Art-Net packets built from the output configuration",
			RunE:  printPlan,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and builds the model. Any error here is fatal: nothing
// else may run without a valid model.
func setup() (*config.Config, *logger.Log, *model.Model, error) {
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("configuration file read error: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create a logger: %w", err)
	}
	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	params, err := ConvertConfigModel(cfg)
	if err == nil {
		var m *model.Model
		if m, err = model.Build(log, params); err == nil {
			return cfg, log, m, nil
		}
	}
	log.With(logger.Fields{"module": "model"}).Error(err.Error())
	_ = log.Close()
	return nil, nil, nil, err
}

func runService(_ *cobra.Command, _ []string) error {
	cfg, log, m, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	pattern, err := render.New(m, cfg.Render)
	if err != nil {
		return err
	}
	sender := artnet.NewSender(log, nil)
	eng := engine.New(log, m, output.NewMapper(log), sender, pattern, cfg.Render.FPS)

	// Канал для обновлений конфигурации выходов.
	updates := make(chan clientmqtt.OutputUpdate, 10)

	var client *clientmqtt.ClientMQTT
	if cfg.MQTT.Host != "" {
		client = clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT))
		if err := client.Start(ctx, updates); err != nil {
			log.With(logger.Fields{"module": "mqtt"}).Error("failed to start MQTT service:", err.Error())
			client = nil
		} else {
			eng.OnPlan(func(p *output.Plan) { client.PublishPlan(p.Summary()) })
		}
	}

	if _, err := eng.Configure(ConvertConfigOutput(cfg.Output)); err != nil {
		log.With(logger.Fields{"module": "art-net"}).Errorf("output not enabled: %v", err)
	}

	var discovery *artnet.Discovery
	if cfg.Discovery.Enabled {
		discovery, err = artnet.NewDiscovery(log, cfg.Discovery.CIDR, time.Duration(cfg.Discovery.Interval)*time.Second)
		if err == nil {
			var report func([]artnet.Node)
			if client != nil {
				report = client.PublishNodes
			}
			err = discovery.Start(ctx, report)
		}
		if err != nil {
			log.With(logger.Fields{"module": "discovery"}).Errorf("discovery disabled: %v", err)
			discovery = nil
		}
	}

	log.With(logger.Fields{"module": "engine"}).Infof("running pattern %q at %v fps", pattern.Name(), cfg.Render.FPS)
	eng.Run(ctx, updates)

	if client != nil {
		if err := client.Stop(); err != nil {
			log.Error("failed to stop MQTT service:", err.Error())
		}
	}
	if discovery != nil {
		discovery.Stop()
	}

	log.Info("shutdown complete")
	return nil
}

func printModel(cmd *cobra.Command, _ []string) error {
	_, log, m, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTRAND\tKIND\tFIXTURES\tPOINTS\tFIRST\tLAST")
	for _, r := range m.Runs() {
		for _, s := range r.Strands {
			first, last := -1, -1
			if len(s.Points) > 0 {
				first, last = s.Points[0], s.Points[len(s.Points)-1]
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%d\t%d\n", r.Index, s.ID, s.Kind, len(s.Fixtures), len(s.Points), first, last)
		}
	}
	fmt.Fprintf(w, "total\t%d\t\t\t%d\t\t\n", len(m.Strands()), m.Len())
	return w.Flush()
}

func printPlan(cmd *cobra.Command, _ []string) error {
	cfg, log, m, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	plan, err := output.NewMapper(log).Rebuild(ConvertConfigOutput(cfg.Output), m)
	var uerr *output.UnresolvedHostError
	if err != nil && !errors.As(err, &uerr) {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tOUTPUT\tUNIVERSE\tPOINTS\tCHANNELS\tDESTINATION")
	for _, p := range plan.Packets {
		if p.Kind == output.KindSync {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%s\n", p.Kind, p.Destination)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n", p.Kind, p.Output+1, p.Universe, len(p.Indices), p.Channels, p.Destination)
	}
	for _, warn := range plan.Warnings {
		fmt.Fprintf(w, "warning: %v\n", warn)
	}
	if uerr != nil {
		fmt.Fprintf(w, "error: %v\n", uerr)
	}
	return w.Flush()
}

// ConvertConfigModel преобразует структуры.
func ConvertConfigModel(cfg *config.Config) (model.Params, error) {
	lengths, err := model.ParseStrandLengths(cfg.Strands)
	if err != nil {
		return model.Params{}, err
	}
	layout := model.DefaultLayout()
	layout.FixtureSpacing = cfg.Model.FixtureSpacing
	layout.LineSpacing = cfg.Model.LineSpacing
	layout.CurveOffsetX = cfg.Model.CurveOffsetX
	layout.CurveOffsetY = cfg.Model.CurveOffsetY

	return model.Params{
		Runs:              cfg.Model.Runs,
		StrandsPerRun:     cfg.Model.StrandsPerRun,
		FixturesPerStrand: cfg.Model.FixturesPerStrand,
		SecondaryRuns:     cfg.Model.SecondaryRuns,
		StrandLengths:     lengths,
		Layout:            layout,
	}, nil
}

// ConvertConfigOutput преобразует структуры.
func ConvertConfigOutput(cfg config.OutputConf) output.Config {
	return output.Config{
		Host:          cfg.Host,
		Port:          cfg.Port,
		StartUniverse: cfg.StartUniverse,
		Outputs:       append([]string{}, cfg.Outputs...),
	}
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf) clientmqtt.MQTTConf {
	return clientmqtt.MQTTConf{
		ClientID: cfg.ClientID,
		Schema:   "tcp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Qos:      cfg.Qos,
		Prefix:   cfg.Prefix,
	}
}
