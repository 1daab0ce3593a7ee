// Command wotconsume is a demonstration CLI for the consumption engine: it
// loads a Thing Description from a local JSON file, wires the MQTT/HTTP/WS
// bindings into a Servient, consumes the TD, and exercises
// read/write/observe/invoke/subscribe from the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	wotbindingshttp "github.com/wostzone/wot-consume/pkg/bindings/http"
	wotbindingsmqtt "github.com/wostzone/wot-consume/pkg/bindings/mqtt"
	wotbindingsws "github.com/wostzone/wot-consume/pkg/bindings/ws"
	"github.com/wostzone/wot-consume/pkg/config"
	"github.com/wostzone/wot-consume/pkg/consumedthing"
	"github.com/wostzone/wot-consume/pkg/dispatch"
	"github.com/wostzone/wot-consume/pkg/logging"
	"github.com/wostzone/wot-consume/pkg/security"
	"github.com/wostzone/wot-consume/pkg/td"
)

func main() {
	var configFile string
	var tdFile string
	flag.StringVar(&configFile, "c", "", "Consumer configuration file (default wotconsume.yaml)")
	flag.StringVar(&tdFile, "td", "", "Path to a Thing Description JSON file (required)")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wotconsume: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logging.SetLogging(cfg.LogLevel, cfg.LogFile)

	args := flag.Args()
	if tdFile == "" || len(args) < 1 {
		usage()
		os.Exit(1)
	}

	thingTD, err := loadTD(tdFile)
	if err != nil {
		logrus.Fatalf("wotconsume: failed to load TD %q: %v", tdFile, err)
	}

	credStore := security.NewCredentialStore()
	if cfg.CredentialStoreFile != "" {
		watcher, err := config.WatchCredentialStore(cfg.CredentialStoreFile, credStore)
		if err != nil {
			logrus.Warnf("wotconsume: credential store %q not loaded: %v", cfg.CredentialStoreFile, err)
		} else {
			defer watcher.Close()
		}
	}

	servient := consumedthing.NewServient(cfg.SchemePriority, credStore)
	wireBindings(servient, cfg)

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(thingTD)
	defer ct.Destroy()

	if err := run(ct, args); err != nil {
		logrus.Fatalf("wotconsume: %v", err)
	}
}

func wireBindings(servient *consumedthing.Servient, cfg *config.ConsumerConfig) {
	if cfg.HTTP.TimeoutSeconds > 0 {
		httpFactory := wotbindingshttp.NewFactory(nil, time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second)
		if err := servient.RegisterFactory(httpFactory); err != nil {
			logrus.Warnf("wotconsume: http binding not registered: %v", err)
		}
	}
	if cfg.WS.HandshakeTimeoutSeconds > 0 {
		wsFactory := wotbindingsws.NewFactory(nil, time.Duration(cfg.WS.HandshakeTimeoutSeconds)*time.Second)
		if err := servient.RegisterFactory(wsFactory); err != nil {
			logrus.Warnf("wotconsume: ws binding not registered: %v", err)
		}
	}
	if cfg.MQTT.BrokerURL != "" {
		mqttFactory := wotbindingsmqtt.NewFactory(cfg.MQTT.BrokerURL, nil)
		if err := servient.RegisterFactory(mqttFactory); err != nil {
			logrus.Warnf("wotconsume: mqtt binding not registered: %v", err)
		}
	}
}

func loadTD(path string) (*td.ThingDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var thingTD td.ThingDescription
	if err := json.Unmarshal(data, &thingTD); err != nil {
		return nil, err
	}
	return &thingTD, nil
}

func run(ct *consumedthing.ConsumedThing, args []string) error {
	ctx := context.Background()
	opts := dispatch.InteractionOptions{}

	switch args[0] {
	case "read":
		if len(args) != 2 {
			return fmt.Errorf("usage: read <property>")
		}
		out, err := ct.ReadProperty(ctx, args[1], opts)
		if err != nil {
			return err
		}
		value, err := out.Value()
		if err != nil {
			return err
		}
		fmt.Printf("%v\n", value)

	case "write":
		if len(args) != 3 {
			return fmt.Errorf("usage: write <property> <json-value>")
		}
		var value interface{}
		if err := json.Unmarshal([]byte(args[2]), &value); err != nil {
			return fmt.Errorf("value must be valid JSON: %w", err)
		}
		return ct.WriteProperty(ctx, args[1], consumedthing.NewValueInput(value), opts)

	case "invoke":
		if len(args) < 2 {
			return fmt.Errorf("usage: invoke <action> [json-input]")
		}
		var input *consumedthing.InteractionInput
		if len(args) == 3 {
			var value interface{}
			if err := json.Unmarshal([]byte(args[2]), &value); err != nil {
				return fmt.Errorf("input must be valid JSON: %w", err)
			}
			in := consumedthing.NewValueInput(value)
			input = &in
		}
		out, err := ct.InvokeAction(ctx, args[1], input, opts)
		if err != nil {
			return err
		}
		if out != nil {
			value, err := out.Value()
			if err == nil {
				fmt.Printf("%v\n", value)
			}
		}

	case "observe":
		if len(args) != 2 {
			return fmt.Errorf("usage: observe <property>")
		}
		sub, err := ct.ObserveProperty(ctx, args[1], printOutput, printError, opts)
		if err != nil {
			return err
		}
		defer sub.Stop()
		waitForInterrupt()

	case "subscribe":
		if len(args) != 2 {
			return fmt.Errorf("usage: subscribe <event>")
		}
		sub, err := ct.SubscribeEvent(ctx, args[1], printOutput, printError, opts)
		if err != nil {
			return err
		}
		defer sub.Stop()
		waitForInterrupt()

	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func printOutput(name string, output *consumedthing.InteractionOutput) {
	value, err := output.Value()
	if err != nil {
		logrus.Warnf("%s: failed to decode output: %v", name, err)
		return
	}
	fmt.Printf("%s: %v\n", name, value)
}

func printError(name string, err error) {
	logrus.Warnf("%s: subscription ended: %v", name, err)
}

func waitForInterrupt() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	<-done
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wotconsume -td <thing-description.json> [-c <config.yaml>] <command> [args...]")
	fmt.Fprintln(os.Stderr, "commands: read <property> | write <property> <json> | invoke <action> [json] | observe <property> | subscribe <event>")
}
