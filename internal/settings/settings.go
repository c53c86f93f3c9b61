package settings

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Agent configures an optional remote execution host. Execution stays
// local when Host is empty.
type Agent struct {
	Host    string `env:"HOST"`
	User    string `env:"USER"`
	KeyPath string `env:"KEY_PATH"`
	Workdir string `env:"WORKDIR"`
}

func (a Agent) Enabled() bool {
	return a.Host != ""
}

// Settings holds every knob the tool reads from the environment.
// Constructed once in main and passed by reference.
type Settings struct {
	RegistryPath   string        `env:"REGISTRY_PATH, default=deckhand.yml"`
	RepoPath       string        `env:"REPO_PATH, default=."`
	RemoteURL      string        `env:"REMOTE_URL"`
	RemoteToken    string        `env:"REMOTE_TOKEN"`
	RemoteTimeout  time.Duration `env:"REMOTE_TIMEOUT, default=10s"`
	ProbeURL       string        `env:"PROBE_URL"`
	ProbeTimeout   time.Duration `env:"PROBE_TIMEOUT, default=5s"`
	CommandTimeout time.Duration `env:"COMMAND_TIMEOUT, default=0s"`
	WatchInterval  time.Duration `env:"WATCH_INTERVAL, default=10s"`
	Agent          Agent         `env:", prefix=AGENT_"`
}

// New reads DECKHAND_* variables into a Settings value.
func New(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: envconfig.PrefixLookuper("DECKHAND_", envconfig.OsLookuper()),
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadDotenv exports KEY=value lines from the file at path into the
// process environment. A missing file is not an error.
func ReadDotenv(path string) error {
	re := regexp.MustCompile(`^[^0-9][A-Z0-9_]+=.+$`)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) > 0 && line[0] != '#' && re.Match(line) {
			split := strings.SplitN(string(line), "=", 2)
			name := strings.TrimSpace(split[0])
			value := strings.TrimSpace(split[1])
			value = strings.Trim(value, `"`)
			os.Setenv(name, value)
		}
	}
	return scanner.Err()
}
