package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const (
	CommandPublish         = "publish"
	CommandPublisherToken  = "publisher-token"
	CommandSubscriberToken = "subscriber-token"
	CommandWatch           = "watch"
	CommandStoreSecret     = "store-secret"
)

type Options struct {
	Hub           string `long:"hub" env:"MERCURE_HUB_URL" description:"Hub URL (e.g. https://example.com/.well-known/mercure)"`
	Secret        string `long:"secret" env:"MERCURE_JWT_SECRET" description:"HMAC secret used to sign JWTs"`
	SecretFile    string `long:"secret-file" env:"MERCURE_JWT_SECRET_FILE" description:"File containing the JWT secret"`
	SecretKeyring string `long:"secret-keyring" env:"MERCURE_JWT_SECRET_KEYRING" description:"System keyring entry holding the JWT secret"`
	Config        string `long:"config" env:"MERCURE_CONFIG" description:"YAML settings file"`
	LogDir        string `long:"log-dir" env:"MERCURE_LOG_DIR" description:"Mirror logs as JSON lines into this directory"`
	Debug         bool   `long:"debug" env:"MERCURE_DEBUG" description:"Enable verbose debug output"`

	Publish         PublishCommand         `command:"publish" description:"Publish an update to the hub"`
	PublisherToken  PublisherTokenCommand  `command:"publisher-token" description:"Print a publisher JWT"`
	SubscriberToken SubscriberTokenCommand `command:"subscriber-token" description:"Print a subscriber JWT or authorization cookie"`
	Watch           WatchCommand           `command:"watch" description:"Publish a file's content every time it changes"`
	StoreSecret     StoreSecretCommand     `command:"store-secret" description:"Read a JWT secret from stdin into the system keyring"`

	// Command is the name of the command selected on the command line.
	Command string `no-flag:"true"`
}

type PublishCommand struct {
	Topics    []string      `long:"topic" short:"t" required:"true" description:"Topic URL; the first is canonical, the rest are alternates"`
	Data      string        `long:"data" short:"d" description:"Update content"`
	DataFile  string        `long:"data-file" description:"Read the update content from a file"`
	Private   bool          `long:"private" description:"Deliver only to authorized subscribers"`
	Selectors []string      `long:"selector" short:"s" description:"Publish selector granted to the token; defaults to *"`
	Attempts  uint          `long:"attempts" default:"1" description:"Publish attempts before giving up"`
	Timeout   time.Duration `long:"timeout" default:"10s" description:"Per-request timeout"`

	// HasData distinguishes an explicit empty --data from no data at all.
	HasData bool `no-flag:"true"`
}

type PublisherTokenCommand struct {
	Selectors []string `long:"selector" short:"s" description:"Topic selector (URI template or *); repeatable"`
}

type SubscriberTokenCommand struct {
	Selectors []string      `long:"selector" short:"s" description:"Topic selector (URI template or *); repeatable"`
	MaxAge    time.Duration `long:"max-age" description:"Token lifetime, at most 9600h; zero issues a token without exp"`
	Cookie    bool          `long:"cookie" description:"Print a Set-Cookie header instead of the bare token"`
}

type WatchCommand struct {
	File      string        `long:"file" short:"f" required:"true" description:"File whose content is published"`
	Topics    []string      `long:"topic" short:"t" required:"true" description:"Topic URL; the first is canonical, the rest are alternates"`
	Private   bool          `long:"private" description:"Deliver only to authorized subscribers"`
	Selectors []string      `long:"selector" short:"s" description:"Publish selector granted to the token; defaults to *"`
	Attempts  uint          `long:"attempts" default:"3" description:"Publish attempts per change"`
	Timeout   time.Duration `long:"timeout" default:"10s" description:"Per-request timeout"`
}

type StoreSecretCommand struct {
	Name   string `long:"name" default:"jwt-secret" description:"Keyring entry name"`
	Delete bool   `long:"delete" description:"Remove the entry instead of storing one"`
}

// ParseOptions loads .env, parses args and merges the settings file under
// the command line values.
func ParseOptions(args []string) (Options, error) {
	_ = godotenv.Load()
	opts := Options{}
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return Options{}, err
	}
	if parser.Active != nil {
		opts.Command = parser.Active.Name
	}
	if publish := parser.Find(CommandPublish); publish != nil {
		if data := publish.FindOptionByLongName("data"); data != nil {
			opts.Publish.HasData = data.IsSet()
		}
	}

	settings, err := LoadSettings(opts.Config)
	if err != nil {
		return Options{}, err
	}
	return MergeOptionsWithSettings(opts, settings), nil
}

// ValidateRequired checks what the selected command needs before any work
// is done.
func ValidateRequired(opts Options) error {
	switch opts.Command {
	case CommandPublish, CommandWatch:
		if strings.TrimSpace(opts.Hub) == "" {
			return errors.New("hub URL is required")
		}
	}
	switch opts.Command {
	case CommandPublish:
		if opts.Publish.HasData && strings.TrimSpace(opts.Publish.DataFile) != "" {
			return errors.New("set either --data or --data-file, not both")
		}
		if opts.Publish.Attempts == 0 {
			return errors.New("attempts must be at least 1")
		}
	case CommandWatch:
		if opts.Watch.Attempts == 0 {
			return errors.New("attempts must be at least 1")
		}
	case CommandSubscriberToken:
		if opts.SubscriberToken.Cookie && opts.Hub == "" {
			return errors.New("hub URL is required for --cookie")
		}
	case CommandStoreSecret:
		if strings.TrimSpace(opts.StoreSecret.Name) == "" {
			return errors.New("keyring entry name is required")
		}
	case "":
		return errors.New("no command selected")
	}
	return nil
}

// PublishData resolves the update content of the publish command. A nil
// result means the update carries no data field.
func PublishData(cmd PublishCommand) (*string, error) {
	if path := strings.TrimSpace(cmd.DataFile); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		data := string(content)
		return &data, nil
	}
	if !cmd.HasData {
		return nil, nil
	}
	data := cmd.Data
	return &data, nil
}
