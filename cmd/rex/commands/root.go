package commands

import (
	"context"
	"fmt"
	"net/http"

	"rex-crm-client/pkg/config"
	"rex-crm-client/pkg/logger"
	"rex-crm-client/pkg/rex"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type state struct {
	configPath string
	baseURL    string
	verbose    bool

	cfg    *config.Config
	client *rex.Client
}

func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Output goes to cmd.OutOrStdout().
func NewRootCommand() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:          "rex",
		Short:        "Command-line client for the Rex CRM API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			path := st.configPath
			if path == "" {
				path = config.Path()
			}
			cfg, err := config.LoadConfig(path)
			if err != nil {
				return err
			}
			if st.baseURL != "" {
				cfg.Rex.BaseURL = st.baseURL
			}

			level := cfg.Log.Level
			if st.verbose {
				level = "DEBUG"
			}
			logger.InitLogger(cmd.ErrOrStderr(), level)

			st.cfg = cfg
			st.client = rex.NewClient(
				rex.WithBaseURL(cfg.Rex.BaseURL),
				rex.WithApplication(cfg.Rex.Application),
				rex.WithHTTPClient(&http.Client{Timeout: cfg.Rex.Timeout}),
				rex.WithUserAgent("rex-cli"),
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	root.PersistentFlags().StringVar(&st.baseURL, "base-url", "", "Rex API base URL")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "log every API call")

	root.AddCommand(
		servicesCmd(st),
		loginCmd(st),
		describeCmd(st),
		readCmd(st),
		searchCmd(st),
		pointCmd(),
	)
	return root
}

// withSession logs in with the configured credentials, runs fn and always logs out.
func (st *state) withSession(ctx context.Context, fn func() error) error {
	if !st.cfg.HasCredentials() {
		return fmt.Errorf("no credentials: set REX_EMAIL and REX_PASSWORD")
	}
	if _, err := st.client.Login(ctx, st.cfg.Rex.Email, st.cfg.Rex.Password); err != nil {
		return err
	}
	defer func() {
		if err := st.client.Logout(ctx); err != nil {
			logger.GlobalLogger.Errorf("logout failed: %v", err)
		}
	}()
	return fn()
}

func (st *state) service(name string) (*rex.Service, error) {
	svc, ok := st.client.Service(name)
	if !ok {
		return nil, fmt.Errorf("unknown service %q (see `rex services`)", name)
	}
	return svc, nil
}
